package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/pinsync/internal/logging"
)

// State is a step of a sync run.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateUpToDate
	StateFetching
	StateProcessing
	StateFinalizing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateChecking:   "checking",
	StateUpToDate:   "up_to_date",
	StateFetching:   "fetching",
	StateProcessing: "processing",
	StateFinalizing: "finalizing",
	StateDone:       "done",
	StateFailed:     "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome is the coarse result of a run, used for the process exit status.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeUpToDate
	OutcomeSynced
)

// Result summarizes a run.
type Result struct {
	State      State
	Outcome    Outcome
	Fetched    int
	Created    int
	Duplicates int

	// Failed counts records with at least one failed side effect.
	Failed int
	// Previous is the local watermark read at the start of the run.
	Previous time.Time
	// Remote is the remote last-modified time captured while checking.
	Remote time.Time
	// Watermark is the value persisted at the end of the run. Zero unless
	// the run reached StateDone.
	Watermark time.Time
}

// Deps are the collaborators of an Engine. Remote, Links, Watermark and
// Namer are required.
type Deps struct {
	Remote    Remote
	Links     LinkWriter
	Annotator Annotator
	Watermark WatermarkStore
	Namer     Sanitizer
	Ledger    Ledger
	// NewDedup builds the per-run deduplicator. Defaults to NewSeenSet.
	NewDedup func() Deduplicator
	Logger   *slog.Logger
	Now      func() time.Time
}

// Options are the caller-supplied knobs of a run.
type Options struct {
	// Tag restricts the fetch to bookmarks carrying this tag.
	Tag string
	// ResetDays, when positive, rewinds the watermark to the previous local
	// value minus this many days instead of advancing it.
	ResetDays int
	// Identity derives the dedup and file name key. Defaults to
	// DescriptionIdentity.
	Identity IdentityFunc
}

// Engine runs incremental syncs.
type Engine struct {
	deps  Deps
	opts  Options
	log   *slog.Logger
	state State
}

func New(deps Deps, opts Options) (*Engine, error) {
	switch {
	case deps.Remote == nil:
		return nil, errors.New("syncer: remote is required")
	case deps.Links == nil:
		return nil, errors.New("syncer: link writer is required")
	case deps.Watermark == nil:
		return nil, errors.New("syncer: watermark store is required")
	case deps.Namer == nil:
		return nil, errors.New("syncer: namer is required")
	}
	if opts.ResetDays < 0 {
		return nil, fmt.Errorf("syncer: negative reset window %d", opts.ResetDays)
	}
	if deps.NewDedup == nil {
		deps.NewDedup = func() Deduplicator { return NewSeenSet() }
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.Identity == nil {
		opts.Identity = DescriptionIdentity
	}
	return &Engine{deps: deps, opts: opts, log: deps.Logger}, nil
}

// State returns the state the engine is in, or ended in.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) transition(s State) {
	e.log.Debug("sync state", logging.State(s.String()), slog.String("from", e.state.String()))
	e.state = s
}

func (e *Engine) fail(res *Result, err error) (*Result, error) {
	e.transition(StateFailed)
	res.State = StateFailed
	res.Outcome = OutcomeFailed
	return res, err
}

// Run performs one sync. An up-to-date collection is not an error: the
// result carries OutcomeUpToDate. The watermark is only written when the
// run reaches the end; any returned error, including cancellation of ctx,
// leaves it untouched.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	e.state = StateIdle

	e.transition(StateChecking)
	remote, err := e.deps.Remote.LastModified(ctx)
	if err != nil {
		return e.fail(res, fmt.Errorf("failed to get remote last update: %w", err))
	}
	local, err := e.deps.Watermark.Read(ctx)
	if err != nil {
		return e.fail(res, fmt.Errorf("failed to read watermark: %w", err))
	}
	res.Remote = remote
	res.Previous = local
	e.log.Info("last updated locally", slog.Time(logging.KeyWatermark, local))
	e.log.Debug("last updated remotely", slog.Time("remote", remote))

	if !local.Before(remote) {
		e.transition(StateUpToDate)
		res.State = StateUpToDate
		res.Outcome = OutcomeUpToDate
		e.log.Info("bookmarks are up to date")
		return res, nil
	}

	e.transition(StateFetching)
	if e.opts.Tag != "" {
		e.log.Info("filtering posts by tag", logging.Tag(e.opts.Tag))
	}
	e.log.Info("getting posts")
	posts, err := e.deps.Remote.Posts(ctx, local, e.opts.Tag)
	if err != nil {
		return e.fail(res, fmt.Errorf("failed to get posts: %w", err))
	}
	res.Fetched = len(posts)
	e.log.Info("got posts", logging.Count(len(posts)))

	e.transition(StateProcessing)
	seen := e.deps.NewDedup()
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			res.Duplicates = seen.Duplicates()
			return e.fail(res, fmt.Errorf("sync interrupted: %w", err))
		}
		key := e.opts.Identity(post)
		if !seen.Seen(key) {
			e.log.Debug("skipping duplicate", logging.URL(post.URL))
			continue
		}
		written, clean := e.materialize(ctx, key, post)
		if written {
			res.Created++
		}
		if !clean {
			res.Failed++
		}
	}
	res.Duplicates = seen.Duplicates()
	e.log.Debug("unique bookmarks", logging.Count(seen.Len()))

	e.transition(StateFinalizing)
	if res.Duplicates > 0 {
		e.log.Info("duplicates found",
			slog.Int("duplicates", res.Duplicates),
			slog.Int("saved", res.Created))
	}
	if res.Failed > 0 {
		e.log.Warn("some bookmarks were not fully written", slog.Int("failed", res.Failed))
	}

	if err := ctx.Err(); err != nil {
		return e.fail(res, fmt.Errorf("sync interrupted: %w", err))
	}
	next := NextWatermark(local, remote, e.opts.ResetDays)
	if err := e.deps.Watermark.Write(ctx, next); err != nil {
		return e.fail(res, fmt.Errorf("failed to persist watermark: %w", err))
	}
	e.log.Info("setting last updated", slog.Time(logging.KeyWatermark, next))

	e.transition(StateDone)
	res.State = StateDone
	res.Outcome = OutcomeSynced
	res.Watermark = next
	return res, nil
}

// materialize writes one artifact and its metadata. written reports whether
// the link file exists; clean is false when any side effect failed.
func (e *Engine) materialize(ctx context.Context, key string, post Bookmark) (written, clean bool) {
	path := e.deps.Namer.Path(key)
	log := e.log.With(logging.Path(path))

	log.Info("writing bookmark")
	if err := e.deps.Links.WriteLink(path, post.URL); err != nil {
		log.Warn("failed to write link", logging.URL(post.URL), logging.Err(err))
		return false, false
	}
	clean = true

	if e.deps.Annotator != nil {
		if err := e.deps.Annotator.SetTags(path, post.Tags); err != nil {
			log.Warn("failed to set tags", logging.Err(err))
			clean = false
		}
		if err := e.deps.Annotator.SetComment(path, Comment(post)); err != nil {
			log.Warn("failed to set comment", logging.Err(err))
			clean = false
		}
	}

	if e.deps.Ledger != nil {
		a := Artifact{Path: path, Bookmark: post, SyncedAt: e.deps.Now()}
		isNew, err := e.deps.Ledger.RecordArtifact(ctx, a)
		if err != nil {
			log.Warn("failed to record artifact", logging.Err(err))
		} else {
			log.Debug("recorded artifact", slog.Bool("new", isNew))
		}
	}
	return true, clean
}

// Comment is the text attached to each artifact: URL, description and
// extended notes separated by blank lines.
func Comment(b Bookmark) string {
	return b.URL + "\n\n" + b.Description + "\n\n" + b.Extended
}

// NextWatermark is the value stored after a successful run: remote, or
// local rewound by resetDays when a reset window was requested.
func NextWatermark(local, remote time.Time, resetDays int) time.Time {
	if resetDays > 0 {
		return local.Add(-time.Duration(resetDays) * 24 * time.Hour)
	}
	return remote
}
