package syncer

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLen keeps name plus ".webloc" under the 255 character limit some
// filesystems (HFS+) impose.
const MaxNameLen = 248

// WeblocExt is the extension of the link artifacts.
const WeblocExt = ".webloc"

// MaxNameBytes keeps name plus ".webloc" within the 255 byte NAME_MAX of
// Linux filesystems.
const MaxNameBytes = 255 - len(WeblocExt)

// Sanitize turns free-form description text into a file name: path
// separators become spaces and the result is cut to at most MaxNameLen
// runes and MaxNameBytes bytes on a rune boundary, with trailing whitespace
// stripped after a cut. Distinct inputs may collide.
func Sanitize(description string) string {
	cleaned := strings.ReplaceAll(description, "/", " ")
	cut := false
	if runes := []rune(cleaned); len(runes) > MaxNameLen {
		cleaned = string(runes[:MaxNameLen])
		cut = true
	}
	if len(cleaned) > MaxNameBytes {
		end := MaxNameBytes
		for end > 0 && !utf8.RuneStart(cleaned[end]) {
			end--
		}
		cleaned = cleaned[:end]
		cut = true
	}
	if cut {
		cleaned = strings.TrimRightFunc(cleaned, unicode.IsSpace)
	}
	return cleaned
}

// Namer places sanitized names in a directory with a fixed extension.
type Namer struct {
	Dir string
	Ext string
}

func NewNamer(dir string) *Namer {
	return &Namer{Dir: dir, Ext: WeblocExt}
}

// Path returns the artifact path for key.
func (n *Namer) Path(key string) string {
	return filepath.Join(n.Dir, Sanitize(key)+n.Ext)
}
