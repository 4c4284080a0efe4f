package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/config"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// RESTClient talks to the chat platform's HTTP API directly.
type RESTClient struct {
	baseURL string
	token   string
	guildID string
	client  *http.Client
	logger  *zap.Logger
}

// NewRESTClient creates a chat platform client from configuration.
func NewRESTClient(cfg config.ChatConfig, logger *zap.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.BotToken,
		guildID: cfg.GuildID,
		client:  &http.Client{Timeout: cfg.RequestTimeout()},
		logger:  logger,
	}
}

type wireMessage struct {
	ID     string `json:"id"`
	Author struct {
		ID string `json:"id"`
	} `json:"author"`
}

type wireAllowedMentions struct {
	Users []string `json:"users,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type wireEmbedAuthor struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type wireEmbed struct {
	Embed
	Author *wireEmbedAuthor `json:"author,omitempty"`
}

type wirePayload struct {
	Content         string               `json:"content,omitempty"`
	Embeds          []wireEmbed          `json:"embeds,omitempty"`
	AllowedMentions *wireAllowedMentions `json:"allowed_mentions,omitempty"`
}

func encodePayload(payload MessagePayload) wirePayload {
	wire := wirePayload{Content: payload.Content}
	if payload.Embed != nil {
		embed := wireEmbed{Embed: *payload.Embed}
		if payload.Embed.AuthorName != "" {
			embed.Author = &wireEmbedAuthor{Name: payload.Embed.AuthorName, URL: payload.Embed.AuthorURL}
		}
		wire.Embeds = []wireEmbed{embed}
	}
	if len(payload.MentionUserIDs) > 0 || len(payload.MentionRoleIDs) > 0 {
		wire.AllowedMentions = &wireAllowedMentions{
			Users: payload.MentionUserIDs,
			Roles: payload.MentionRoleIDs,
		}
	}
	return wire
}

// BanStatus reports guild-ban membership. A missing ban entry means not
// banned.
func (c *RESTClient) BanStatus(ctx context.Context, accountID string) (bool, error) {
	status, _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/bans/%s", c.guildID, url.PathEscape(accountID)), nil, "")
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, util.NewExternalUnavailable("chat platform", fmt.Errorf("ban status: http %d", status))
	}
}

// RemoveMember kicks the account. A 404 means the member is already gone.
func (c *RESTClient) RemoveMember(ctx context.Context, accountID, reason string) error {
	status, _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/guilds/%s/members/%s", c.guildID, url.PathEscape(accountID)), nil, reason)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound || status < 300 {
		return nil
	}
	return util.NewExternalUnavailable("chat platform", fmt.Errorf("remove member: http %d", status))
}

// Unban lifts a guild ban. A 404 means no ban existed.
func (c *RESTClient) Unban(ctx context.Context, accountID, reason string) error {
	status, _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/guilds/%s/bans/%s", c.guildID, url.PathEscape(accountID)), nil, reason)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound || status < 300 {
		return nil
	}
	return util.NewExternalUnavailable("chat platform", fmt.Errorf("unban: http %d", status))
}

// SendMessage posts payload and returns the created message id.
func (c *RESTClient) SendMessage(ctx context.Context, channelID string, payload MessagePayload) (string, error) {
	status, body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channelID), encodePayload(payload), "")
	if err != nil {
		return "", err
	}
	if status >= 300 {
		return "", util.NewExternalUnavailable("chat platform", fmt.Errorf("send message: http %d", status))
	}
	var msg wireMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("decode sent message: %w", err)
	}
	return msg.ID, nil
}

// FetchMessage returns nil when the message was deleted.
func (c *RESTClient) FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error) {
	status, body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), nil, "")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status >= 300 {
		return nil, util.NewExternalUnavailable("chat platform", fmt.Errorf("fetch message: http %d", status))
	}
	var msg wireMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("decode fetched message: %w", err)
	}
	return &Message{ID: msg.ID, ChannelID: channelID, AuthorID: msg.Author.ID}, nil
}

// EditMessage replaces the content of an existing message.
func (c *RESTClient) EditMessage(ctx context.Context, channelID, messageID string, payload MessagePayload) error {
	status, _, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), encodePayload(payload), "")
	if err != nil {
		return err
	}
	if status >= 300 {
		return util.NewExternalUnavailable("chat platform", fmt.Errorf("edit message: http %d", status))
	}
	return nil
}

func (c *RESTClient) do(ctx context.Context, method, path string, body any, auditReason string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auditReason != "" {
		req.Header.Set("X-Audit-Log-Reason", url.PathEscape(auditReason))
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, util.NewExternalUnavailable("chat platform", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, util.NewExternalUnavailable("chat platform", err)
	}

	c.logger.Debug("chat api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return resp.StatusCode, data, nil
}
