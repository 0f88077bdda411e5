package db

import "time"

// Bookmark is a ledger row: one artifact produced by a sync run.
type Bookmark struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Extended    string    `json:"extended,omitempty"`
	Tags        string    `json:"tags,omitempty"` // space separated, as the remote sends them
	Path        string    `json:"path"`
	PostedAt    time.Time `json:"posted_at,omitempty"`
	SyncedAt    time.Time `json:"synced_at"`
}
