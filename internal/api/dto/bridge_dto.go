package dto

import (
	"time"

	"github.com/spec-kit/moderation-bridge/internal/domain"
)

// LoginRequest exchanges the operator token for a JWT.
type LoginRequest struct {
	Token string `json:"token"`
}

// LoginResponse carries the issued JWT.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CreateLinkRequest associates a chat account with a content account.
type CreateLinkRequest struct {
	ContentID    int64  `json:"content_id"`
	ChatID       string `json:"chat_id"`
	ChatUsername string `json:"chat_username"`
}

// LinkResponse is one persisted link.
type LinkResponse struct {
	ContentID    int64     `json:"content_id"`
	ChatID       string    `json:"chat_id"`
	ChatUsername string    `json:"chat_username"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewLinkResponse converts a domain link.
func NewLinkResponse(link domain.Link) LinkResponse {
	return LinkResponse{
		ContentID:    link.ContentID,
		ChatID:       link.ChatID,
		ChatUsername: link.ChatUsername,
		CreatedAt:    link.CreatedAt,
	}
}

// AltNodeResponse is one vertex of a resolved alt tree.
type AltNodeResponse struct {
	Space  string            `json:"space"`
	ID     string            `json:"id"`
	Banned bool              `json:"banned"`
	Alts   []AltNodeResponse `json:"alts,omitempty"`
}

// NewAltNodeResponse converts a resolved tree.
func NewAltNodeResponse(node *domain.AltNode) AltNodeResponse {
	resp := AltNodeResponse{
		Space:  string(node.Ref.Space),
		ID:     node.Ref.ID,
		Banned: node.Banned,
	}
	for _, child := range node.Children {
		resp.Alts = append(resp.Alts, NewAltNodeResponse(child))
	}
	return resp
}

// CreatePhraseRequest registers a phrase subscription.
type CreatePhraseRequest struct {
	Owner  string `json:"owner"`
	Phrase string `json:"phrase"`
}

// PhraseResponse is one phrase subscription.
type PhraseResponse struct {
	ID     int64  `json:"id"`
	Owner  string `json:"owner"`
	Phrase string `json:"phrase"`
}

// NewPhraseResponse converts a domain subscription.
func NewPhraseResponse(sub domain.PhraseSubscription) PhraseResponse {
	return PhraseResponse{ID: sub.ID, Owner: sub.Owner, Phrase: sub.Phrase}
}

// ScheduleUnbanRequest records an automatic unban.
type ScheduleUnbanRequest struct {
	ContentID int64     `json:"content_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BanRecordResponse is one scheduled unban.
type BanRecordResponse struct {
	ContentID int64     `json:"content_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewBanRecordResponse converts a domain record.
func NewBanRecordResponse(record domain.BanRecord) BanRecordResponse {
	return BanRecordResponse{ContentID: record.ContentID, ExpiresAt: record.ExpiresAt}
}
