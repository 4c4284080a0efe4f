package domain

import "time"

// Link associates one chat-platform account with one content-site account.
// Links are append/delete-only; a row is never updated in place. Duplicate
// pairs are tolerated in storage and deduplicated at read time.
type Link struct {
	ContentID    int64
	ChatID       string
	ChatUsername string
	CreatedAt    time.Time
}
