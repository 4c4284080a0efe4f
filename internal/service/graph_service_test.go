package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/platform/content"
)

func newResolver(links *fakeLinkRepo, chatClient *fakeChatClient, contentClient *fakeContentClient, depthCap int) *GraphResolver {
	return NewGraphResolver(links, chatClient, contentClient, depthCap, zap.NewNop())
}

func flattenRefs(root *domain.AltNode) map[domain.AccountRef]bool {
	refs := make(map[domain.AccountRef]bool)
	var collect func(node *domain.AltNode)
	collect = func(node *domain.AltNode) {
		if node == nil {
			return
		}
		refs[node.Ref] = node.Banned
		for _, child := range node.Children {
			collect(child)
		}
	}
	collect(root)
	return refs
}

func TestResolveWalksLinkedAccounts(t *testing.T) {
	links := newFakeLinkRepo(
		linkPair{contentID: 5, chatID: "111"},
		linkPair{contentID: 5, chatID: "222"},
		linkPair{contentID: 9, chatID: "222"},
	)
	contentClient := newFakeContentClient()
	contentClient.profiles[9] = &content.Profile{ID: 9, Name: "user9", IsBanned: true}

	resolver := newResolver(links, newFakeChatClient(), contentClient, 10)

	root, err := resolver.Resolve(context.Background(), domain.ChatRef("111"))
	require.NoError(t, err)

	refs := flattenRefs(root)
	assert.Len(t, refs, 4)
	assert.Contains(t, refs, domain.ChatRef("111"))
	assert.Contains(t, refs, domain.ContentRef(5))
	assert.Contains(t, refs, domain.ChatRef("222"))
	assert.Contains(t, refs, domain.ContentRef(9))

	assert.False(t, refs[domain.ContentRef(5)])
	assert.True(t, refs[domain.ContentRef(9)])

	assert.Equal(t, []int64{5, 9}, FlattenContentIDs(root))
}

func TestResolveTerminatesOnCycles(t *testing.T) {
	// Complete bipartite cluster: every chat account links every content
	// account, so every pair of vertices lies on a cycle.
	links := newFakeLinkRepo(
		linkPair{contentID: 1, chatID: "a"},
		linkPair{contentID: 2, chatID: "a"},
		linkPair{contentID: 1, chatID: "b"},
		linkPair{contentID: 2, chatID: "b"},
	)
	resolver := newResolver(links, newFakeChatClient(), newFakeContentClient(), 10)

	root, err := resolver.Resolve(context.Background(), domain.ContentRef(1))
	require.NoError(t, err)

	refs := flattenRefs(root)
	assert.Len(t, refs, 4, "each account visited exactly once")
}

func TestResolveDepthCap(t *testing.T) {
	// A long chain; with cap 2 only the seed and its direct neighbors appear.
	links := newFakeLinkRepo(
		linkPair{contentID: 1, chatID: "a"},
		linkPair{contentID: 2, chatID: "a"},
		linkPair{contentID: 2, chatID: "b"},
		linkPair{contentID: 3, chatID: "b"},
	)
	resolver := newResolver(links, newFakeChatClient(), newFakeContentClient(), 2)

	root, err := resolver.Resolve(context.Background(), domain.ContentRef(1))
	require.NoError(t, err)

	require.Len(t, root.Children, 1)
	assert.Equal(t, domain.ChatRef("a"), root.Children[0].Ref)
	assert.Empty(t, root.Children[0].Children, "nodes at the cap stay unexpanded")
}

func TestResolveBanCheckFailsOpen(t *testing.T) {
	links := newFakeLinkRepo(linkPair{contentID: 1, chatID: "a"})
	chatClient := newFakeChatClient()
	chatClient.banErr = errors.New("gateway timeout")
	contentClient := newFakeContentClient()
	contentClient.profileErr = errors.New("service unavailable")

	resolver := newResolver(links, chatClient, contentClient, 10)

	root, err := resolver.Resolve(context.Background(), domain.ChatRef("a"))
	require.NoError(t, err)

	for ref, banned := range flattenRefs(root) {
		assert.False(t, banned, "ref %v must not be marked banned on a failed check", ref)
	}
}

func TestResolveSeedIndependence(t *testing.T) {
	// The vertex set of a resolved component must not depend on which of its
	// members seeds the walk.
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		links := newFakeLinkRepo()
		contentCount := 1 + rng.Intn(5)
		chatCount := 1 + rng.Intn(5)
		for c := 1; c <= contentCount; c++ {
			for h := 1; h <= chatCount; h++ {
				if rng.Intn(3) == 0 {
					links.pairs = append(links.pairs, linkPair{
						contentID: int64(c),
						chatID:    fmt.Sprintf("chat%d", h),
					})
				}
			}
		}
		if len(links.pairs) == 0 {
			continue
		}

		resolver := newResolver(links, newFakeChatClient(), newFakeContentClient(), 50)

		first := links.pairs[0]
		seedA := domain.ContentRef(first.contentID)
		seedB := domain.ChatRef(first.chatID)

		rootA, err := resolver.Resolve(context.Background(), seedA)
		require.NoError(t, err)
		rootB, err := resolver.Resolve(context.Background(), seedB)
		require.NoError(t, err)

		refsA := flattenRefs(rootA)
		refsB := flattenRefs(rootB)
		require.Equal(t, len(refsA), len(refsB), "component size differs between seeds (case %d)", i)
		for ref := range refsA {
			assert.Contains(t, refsB, ref, "case %d", i)
		}
	}
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	links := newFakeLinkRepo(linkPair{contentID: 1, chatID: "a"})
	links.err = errors.New("connection refused")
	resolver := newResolver(links, newFakeChatClient(), newFakeContentClient(), 10)

	_, err := resolver.Resolve(context.Background(), domain.ChatRef("a"))
	assert.Error(t, err)
}

func TestFlattenContentIDsSortsAndDeduplicates(t *testing.T) {
	root := &domain.AltNode{
		Ref: domain.ContentRef(9),
		Children: []*domain.AltNode{
			{Ref: domain.ChatRef("x"), Children: []*domain.AltNode{
				{Ref: domain.ContentRef(2)},
			}},
			{Ref: domain.ContentRef(2)},
		},
	}
	assert.Equal(t, []int64{2, 9}, FlattenContentIDs(root))
}
