package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/pinsync/internal/logging"
	"github.com/user/pinsync/internal/syncer"
)

// LastUpdatedKey is the metadata key holding the sync watermark.
const LastUpdatedKey = "last_updated"

// Watermark stores the sync watermark as an RFC 3339 string in the
// metadata table.
type Watermark struct {
	store *Store
	key   string
	log   *slog.Logger
}

func NewWatermark(store *Store, logger *slog.Logger) *Watermark {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watermark{store: store, key: LastUpdatedKey, log: logger}
}

// Read returns the stored watermark or the epoch when nothing usable is
// stored. Only database errors are returned.
func (w *Watermark) Read(ctx context.Context) (time.Time, error) {
	value, err := w.store.GetMetadata(ctx, w.key)
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return syncer.Epoch, nil
	}
	t, err := ParseTimestamp(value)
	if err != nil {
		w.log.Warn("ignoring unparseable watermark", slog.String("value", value), logging.Err(err))
		return syncer.Epoch, nil
	}
	return t, nil
}

func (w *Watermark) Write(ctx context.Context, t time.Time) error {
	return w.store.SetMetadata(ctx, w.key, t.Format(time.RFC3339Nano))
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
