package artifact

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"howett.net/plist"

	"github.com/user/pinsync/internal/syncer"
)

// Extended attribute names used for metadata.
const (
	DarwinTagAttr  = "com.apple.metadata:_kMDItemUserTags"
	XDGTagAttr     = "user.xdg.tags"
	XDGCommentAttr = "user.xdg.comment"
)

var errUnsupported = errors.New("extended attributes are not supported on this platform")

// TagFormat selects how a tag list is serialized into an attribute.
type TagFormat int

const (
	// TagsPlist is a binary property list array, as Finder stores tags.
	TagsPlist TagFormat = iota
	// TagsComma is a comma separated list, the freedesktop convention.
	TagsComma
)

// EncodeTags serializes tags in the given format.
func EncodeTags(tags []string, format TagFormat) ([]byte, error) {
	switch format {
	case TagsPlist:
		return plist.Marshal(tags, plist.BinaryFormat)
	case TagsComma:
		return []byte(strings.Join(tags, ",")), nil
	default:
		return nil, fmt.Errorf("unknown tag format %d", format)
	}
}

// DecodeTags is the inverse of EncodeTags.
func DecodeTags(data []byte, format TagFormat) ([]string, error) {
	switch format {
	case TagsPlist:
		var tags []string
		if _, err := plist.Unmarshal(data, &tags); err != nil {
			return nil, err
		}
		return tags, nil
	case TagsComma:
		if len(data) == 0 {
			return nil, nil
		}
		return strings.Split(string(data), ","), nil
	default:
		return nil, fmt.Errorf("unknown tag format %d", format)
	}
}

// XattrAnnotator stores tags and comments in extended attributes.
type XattrAnnotator struct {
	TagAttr     string
	TagFormat   TagFormat
	CommentAttr string
}

// SetTags replaces the tag attribute. An empty list removes it.
func (a *XattrAnnotator) SetTags(path string, tags []string) error {
	if len(tags) == 0 {
		return removeXattr(path, a.TagAttr)
	}
	data, err := EncodeTags(tags, a.TagFormat)
	if err != nil {
		return err
	}
	if err := setXattr(path, a.TagAttr, data); err != nil {
		return fmt.Errorf("failed to set tags on %s: %w", path, err)
	}
	return nil
}

// Tags reads back the tag attribute of path.
func (a *XattrAnnotator) Tags(path string) ([]string, error) {
	data, err := getXattr(path, a.TagAttr)
	if err != nil {
		return nil, err
	}
	return DecodeTags(data, a.TagFormat)
}

func (a *XattrAnnotator) SetComment(path, text string) error {
	if err := setXattr(path, a.CommentAttr, []byte(text)); err != nil {
		return fmt.Errorf("failed to set comment on %s: %w", path, err)
	}
	return nil
}

// finderScript sets a Finder comment. Arguments are passed through argv so
// no quoting of user text is needed.
var finderScript = []string{
	"-e", "on run argv",
	"-e", `tell application "Finder" to set comment of (POSIX file (item 1 of argv) as alias) to (item 2 of argv)`,
	"-e", "end run",
}

// FinderAnnotator writes tags as xattrs and comments through Finder, which
// keeps comments in its own store rather than on the file.
type FinderAnnotator struct {
	XattrAnnotator
	run func(name string, args ...string) error
}

func NewFinderAnnotator() *FinderAnnotator {
	return &FinderAnnotator{
		XattrAnnotator: XattrAnnotator{TagAttr: DarwinTagAttr, TagFormat: TagsPlist},
		run:            runCommand,
	}
}

func (a *FinderAnnotator) SetComment(path, text string) error {
	args := append(append([]string{}, finderScript...), path, text)
	if err := a.run("osascript", args...); err != nil {
		return fmt.Errorf("failed to set Finder comment on %s: %w", path, err)
	}
	return nil
}

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Noop discards metadata. Used when annotation is disabled.
type Noop struct{}

func (Noop) SetTags(string, []string) error { return nil }
func (Noop) SetComment(string, string) error { return nil }

// NewAnnotator picks the metadata backend for goos.
func NewAnnotator(enabled bool, goos string) syncer.Annotator {
	if !enabled {
		return Noop{}
	}
	if goos == "darwin" {
		return NewFinderAnnotator()
	}
	return &XattrAnnotator{TagAttr: XDGTagAttr, TagFormat: TagsComma, CommentAttr: XDGCommentAttr}
}
