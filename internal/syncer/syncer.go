// Package syncer holds the incremental sync core: it compares the local
// watermark against the remote last-modified time, pulls new bookmarks,
// drops repeats within the batch and turns each remaining bookmark into a
// link artifact on disk.
package syncer

import (
	"context"
	"time"
)

// Bookmark is one remote bookmark record. Description doubles as the title
// and the identity key.
type Bookmark struct {
	URL         string
	Description string
	Extended    string
	Tags        []string
	Time        time.Time
}

// Remote is the bookmark service.
type Remote interface {
	// LastModified returns the time of the most recent change on the remote.
	LastModified(ctx context.Context) (time.Time, error)
	// Posts returns every bookmark modified at or after since, optionally
	// restricted to a single tag.
	Posts(ctx context.Context, since time.Time, tag string) ([]Bookmark, error)
}

// LinkWriter creates or overwrites a platform link file at path.
type LinkWriter interface {
	WriteLink(path, url string) error
}

// Annotator attaches tag and comment metadata to an existing file.
type Annotator interface {
	SetTags(path string, tags []string) error
	SetComment(path, text string) error
}

// WatermarkStore persists the "synchronized up to" timestamp.
type WatermarkStore interface {
	// Read returns the stored watermark, or the Unix epoch when none exists.
	Read(ctx context.Context) (time.Time, error)
	Write(ctx context.Context, t time.Time) error
}

// Deduplicator reports whether an identity key is new in the current run.
type Deduplicator interface {
	Seen(key string) bool
	Duplicates() int
	Len() int
}

// Sanitizer maps an identity key to the artifact path.
type Sanitizer interface {
	Path(key string) string
}

// Ledger records produced artifacts. Optional. isNew reports whether the
// artifact's identity had not been recorded before.
type Ledger interface {
	RecordArtifact(ctx context.Context, a Artifact) (isNew bool, err error)
}

// Artifact describes one link file produced by a run.
type Artifact struct {
	Path     string
	Bookmark Bookmark
	SyncedAt time.Time
}

// IdentityFunc derives the dedup key of a bookmark.
type IdentityFunc func(Bookmark) string

// DescriptionIdentity keys bookmarks by their description text, matching
// how the remote service models them.
func DescriptionIdentity(b Bookmark) string {
	return b.Description
}

// Epoch is the watermark of a collection that was never synced.
var Epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
