package domain

import "time"

// Ban is the payload of an external ban event.
type Ban struct {
	UserID   int64  `json:"user_id"`
	BannerID int64  `json:"banner_id"`
	Reason   string `json:"reason"`
}

// BanRecord schedules an automatic unban for a content account. Rows are
// swept by a periodic job once ExpiresAt has passed and deleted on manual
// unban.
type BanRecord struct {
	ContentID int64
	ExpiresAt time.Time
}
