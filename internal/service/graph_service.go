package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/platform/content"
	"github.com/spec-kit/moderation-bridge/internal/repository"
)

// GraphResolver walks the chat/content link graph and builds the connected
// component of a seed account as an annotated tree. One generic walk covers
// both spaces; the edge lookup is symmetric over the tagged AccountRef.
type GraphResolver struct {
	links    repository.LinkRepository
	chat     chat.Client
	content  content.Client
	depthCap int
	logger   *zap.Logger
}

// NewGraphResolver constructs a resolver. depthCap bounds expansion on
// degenerate clusters; nodes beyond the cap are returned unexpanded.
func NewGraphResolver(links repository.LinkRepository, chatClient chat.Client, contentClient content.Client, depthCap int, logger *zap.Logger) *GraphResolver {
	if depthCap <= 0 {
		depthCap = 5
	}
	return &GraphResolver{
		links:    links,
		chat:     chatClient,
		content:  contentClient,
		depthCap: depthCap,
		logger:   logger,
	}
}

// Resolve expands the link graph around seed, depth-first, visiting each
// (space,id) pair at most once across the whole traversal. Ban checks fail
// open: a failed or timed-out check annotates the node as not banned and
// never aborts sibling branches.
func (g *GraphResolver) Resolve(ctx context.Context, seed domain.AccountRef) (*domain.AltNode, error) {
	visited := map[domain.AccountRef]bool{seed: true}
	return g.walk(ctx, seed, 1, visited)
}

func (g *GraphResolver) walk(ctx context.Context, ref domain.AccountRef, depth int, visited map[domain.AccountRef]bool) (*domain.AltNode, error) {
	node := &domain.AltNode{Ref: ref, Banned: g.banned(ctx, ref)}

	if depth >= g.depthCap {
		g.logger.Debug("graph depth cap reached",
			zap.String("space", string(ref.Space)),
			zap.String("id", ref.ID))
		return node, nil
	}

	neighbors, err := g.neighbors(ctx, ref)
	if err != nil {
		return nil, err
	}

	for _, next := range neighbors {
		if visited[next] {
			continue
		}
		visited[next] = true
		child, err := g.walk(ctx, next, depth+1, visited)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// neighbors is the symmetric edge lookup: chat accounts link to content
// accounts and vice versa.
func (g *GraphResolver) neighbors(ctx context.Context, ref domain.AccountRef) ([]domain.AccountRef, error) {
	switch ref.Space {
	case domain.SpaceChat:
		contentIDs, err := g.links.ContentIDsFor(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		refs := make([]domain.AccountRef, 0, len(contentIDs))
		for _, id := range contentIDs {
			refs = append(refs, domain.ContentRef(id))
		}
		return refs, nil
	default:
		contentID, ok := ref.ContentID()
		if !ok {
			return nil, nil
		}
		chatIDs, err := g.links.ChatIDsFor(ctx, contentID)
		if err != nil {
			return nil, err
		}
		refs := make([]domain.AccountRef, 0, len(chatIDs))
		for _, id := range chatIDs {
			refs = append(refs, domain.ChatRef(id))
		}
		return refs, nil
	}
}

func (g *GraphResolver) banned(ctx context.Context, ref domain.AccountRef) bool {
	switch ref.Space {
	case domain.SpaceChat:
		banned, err := g.chat.BanStatus(ctx, ref.ID)
		if err != nil {
			g.logger.Warn("ban check failed, treating as not banned",
				zap.String("chat_id", ref.ID), zap.Error(err))
			return false
		}
		return banned
	default:
		contentID, ok := ref.ContentID()
		if !ok {
			return false
		}
		profile, err := g.content.GetAccountProfile(ctx, contentID)
		if err != nil {
			g.logger.Warn("profile fetch failed, treating as not banned",
				zap.Int64("content_id", contentID), zap.Error(err))
			return false
		}
		return profile != nil && profile.IsBanned
	}
}

// FlattenContentIDs collects the distinct content-site account ids of a
// resolved tree, sorted ascending.
func FlattenContentIDs(root *domain.AltNode) []int64 {
	seen := make(map[int64]struct{})
	var collect func(node *domain.AltNode)
	collect = func(node *domain.AltNode) {
		if node == nil {
			return
		}
		if id, ok := node.Ref.ContentID(); ok {
			seen[id] = struct{}{}
		}
		for _, child := range node.Children {
			collect(child)
		}
	}
	collect(root)

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
