// Package content wraps the content site's read-only API.
package content

import "context"

// Profile is a content-site account profile.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsBanned bool   `json:"is_banned"`
}

// Post is a content-site post, reduced to what policy checks need.
type Post struct {
	ID     int64               `json:"id"`
	Rating string              `json:"rating"`
	Tags   map[string][]string `json:"tags"`
}

// Client is the content-site capability surface. Absent entities come back
// as nil without error.
type Client interface {
	GetAccountProfile(ctx context.Context, id int64) (*Profile, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	GetPostByHash(ctx context.Context, md5 string) (*Post, error)
}
