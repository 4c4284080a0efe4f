// Package chat abstracts the capability surface the bridge consumes from the
// real-time chat platform. Absent members and missing messages are reported
// as empty results, never as errors.
package chat

import "context"

// EmbedField is one labelled value inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Embed is the rich body of a mirrored report message.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	AuthorName  string       `json:"-"`
	AuthorURL   string       `json:"-"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// MessagePayload is the sendable content of a chat message. Mention lists
// whitelist which accounts and roles a message may ping.
type MessagePayload struct {
	Content        string
	Embed          *Embed
	MentionUserIDs []string
	MentionRoleIDs []string
}

// Message is a fetched chat message, reduced to what the bridge inspects.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
}

// Client is the chat platform capability surface. Implementations must bound
// every call with the context deadline.
type Client interface {
	// BanStatus reports whether the account is banned from the guild.
	BanStatus(ctx context.Context, accountID string) (bool, error)
	// RemoveMember kicks the account with an audit reason. Removing an
	// absent member is a no-op.
	RemoveMember(ctx context.Context, accountID, reason string) error
	// Unban lifts a guild ban. Unbanning an account that is not banned is a
	// no-op.
	Unban(ctx context.Context, accountID, reason string) error
	// SendMessage posts payload to the channel and returns the new message id.
	SendMessage(ctx context.Context, channelID string, payload MessagePayload) (string, error)
	// FetchMessage returns nil without error when the message is gone.
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	EditMessage(ctx context.Context, channelID, messageID string, payload MessagePayload) error
}
