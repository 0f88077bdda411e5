// Package artifact writes the on-disk side of a sync: .webloc link files
// and the tag and comment metadata attached to them.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// webloc is the property list macOS uses for internet location files.
type webloc struct {
	URL string `plist:"URL"`
}

// WeblocWriter writes XML property list link files. It implements
// syncer.LinkWriter.
type WeblocWriter struct {
	// Perm is the mode of created files. Defaults to 0644.
	Perm os.FileMode
}

func NewWeblocWriter() *WeblocWriter {
	return &WeblocWriter{Perm: 0644}
}

// WriteLink creates or replaces the link file at path. The file is written
// to a temporary sibling and renamed into place.
func (w *WeblocWriter) WriteLink(path, url string) error {
	data, err := EncodeWebloc(url)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".pinsync-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	perm := w.Perm
	if perm == 0 {
		perm = 0644
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// EncodeWebloc renders the property list for url.
func EncodeWebloc(url string) ([]byte, error) {
	return plist.MarshalIndent(webloc{URL: url}, plist.XMLFormat, "\t")
}

// DecodeWebloc returns the URL stored in a link file's contents.
func DecodeWebloc(data []byte) (string, error) {
	var w webloc
	if _, err := plist.Unmarshal(data, &w); err != nil {
		return "", err
	}
	return w.URL, nil
}
