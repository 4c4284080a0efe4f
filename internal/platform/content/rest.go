package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/config"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// RESTClient reads from the content site's JSON API.
type RESTClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
}

// NewRESTClient creates a content-site client from configuration.
func NewRESTClient(cfg config.ContentConfig, logger *zap.Logger) *RESTClient {
	return &RESTClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.RequestTimeout()},
		logger:    logger,
	}
}

// GetAccountProfile returns nil when the account does not exist.
func (c *RESTClient) GetAccountProfile(ctx context.Context, id int64) (*Profile, error) {
	body, err := c.get(ctx, fmt.Sprintf("/users/%d.json", id))
	if err != nil || body == nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %d: %w", id, err)
	}
	return &profile, nil
}

// GetPost returns nil when the post does not exist.
func (c *RESTClient) GetPost(ctx context.Context, id int64) (*Post, error) {
	return c.decodePost(c.get(ctx, fmt.Sprintf("/posts/%d.json", id)))
}

// GetPostByHash looks a post up by its md5. Returns nil when unknown.
func (c *RESTClient) GetPostByHash(ctx context.Context, md5 string) (*Post, error) {
	return c.decodePost(c.get(ctx, "/posts.json?md5="+url.QueryEscape(md5)))
}

func (c *RESTClient) decodePost(body []byte, err error) (*Post, error) {
	if err != nil || body == nil {
		return nil, err
	}
	var wrapper struct {
		Post *Post `json:"post"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return wrapper.Post, nil
}

func (c *RESTClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, util.NewExternalUnavailable("content site", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		c.logger.Debug("content api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, util.NewExternalUnavailable("content site", fmt.Errorf("get %s: http %d", path, resp.StatusCode))
	}

	return io.ReadAll(resp.Body)
}

// PostURL returns the public link for a post, using the safe mirror for
// safe-rated posts.
func PostURL(post *Post, baseURL, safeBaseURL string) string {
	base := baseURL
	if post != nil && post.Rating == RatingSafe && safeBaseURL != "" {
		base = safeBaseURL
	}
	id := int64(0)
	if post != nil {
		id = post.ID
	}
	return strings.TrimRight(base, "/") + "/posts/" + strconv.FormatInt(id, 10)
}
