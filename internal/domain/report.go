package domain

// Report mirrors the content site's moderation report payload. The bridge
// only reads reports; the site owns their lifecycle.
type Report struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Claimant string `json:"claimant"`
	Target   string `json:"target"`
	UserID   int64  `json:"user_id"`
	User     string `json:"user"`
	Reason   string `json:"reason"`
}

// TicketMirror maps one report to the single chat message that represents it.
// The message id must always name a message this process created or has since
// verified and replaced.
type TicketMirror struct {
	ReportID      int64
	ChatMessageID string
}
