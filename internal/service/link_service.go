package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/repository"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// LinkService exposes link management and alt lookups to the operational API.
type LinkService struct {
	links    repository.LinkRepository
	bans     repository.BanRepository
	phrases  repository.PhraseRepository
	resolver *GraphResolver
	depthCap int
}

// LinkDependencies bundles storage for the link service.
type LinkDependencies struct {
	LinkRepo   repository.LinkRepository
	BanRepo    repository.BanRepository
	PhraseRepo repository.PhraseRepository
	Resolver   *GraphResolver
	DepthCap   int
}

// NewLinkService constructs the service.
func NewLinkService(deps LinkDependencies) *LinkService {
	depthCap := deps.DepthCap
	if depthCap <= 0 {
		depthCap = 5
	}
	return &LinkService{
		links:    deps.LinkRepo,
		bans:     deps.BanRepo,
		phrases:  deps.PhraseRepo,
		resolver: deps.Resolver,
		depthCap: depthCap,
	}
}

// CreateLink persists a new account association.
func (s *LinkService) CreateLink(ctx context.Context, contentID int64, chatID, chatUsername string) (*domain.Link, error) {
	if contentID <= 0 || strings.TrimSpace(chatID) == "" {
		return nil, util.NewValidationError("content id and chat id are required", nil)
	}
	link := &domain.Link{
		ContentID:    contentID,
		ChatID:       chatID,
		ChatUsername: chatUsername,
	}
	if err := s.links.Put(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// RemoveLink deletes an association.
func (s *LinkService) RemoveLink(ctx context.Context, contentID int64, chatID string) error {
	err := s.links.Remove(ctx, contentID, chatID)
	if util.IsNotFound(err) {
		return util.NewNotFound("link", map[string]any{"content_id": contentID, "chat_id": chatID})
	}
	return err
}

// ListLinks returns all links for a chat account.
func (s *LinkService) ListLinks(ctx context.Context, chatID string) ([]domain.Link, error) {
	return s.links.ListFor(ctx, chatID)
}

// AltTree resolves the full annotated alt tree for a seed account.
func (s *LinkService) AltTree(ctx context.Context, seed domain.AccountRef) (*domain.AltNode, error) {
	return s.resolver.Resolve(ctx, seed)
}

// AltContentIDs computes the flattened content-id closure around a seed,
// using the SQL form of the traversal. It returns the same vertex set as
// flattening a resolver walk with the same depth cap.
func (s *LinkService) AltContentIDs(ctx context.Context, seed string) ([]int64, error) {
	pairs, err := s.links.CombinedIDs(ctx, seed, s.depthCap)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(pairs))
	var ids []int64
	for _, pair := range pairs {
		if _, ok := seen[pair.ContentID]; ok {
			continue
		}
		seen[pair.ContentID] = struct{}{}
		ids = append(ids, pair.ContentID)
	}
	return ids, nil
}

// ScheduleUnban records an automatic unban for a content account.
func (s *LinkService) ScheduleUnban(ctx context.Context, contentID int64, expiresAt time.Time) error {
	if contentID <= 0 {
		return util.NewValidationError("content id is required", nil)
	}
	if !expiresAt.After(time.Now()) {
		return util.NewValidationError("expiry must be in the future", nil)
	}
	return s.bans.Put(ctx, &domain.BanRecord{ContentID: contentID, ExpiresAt: expiresAt})
}

// CancelUnban removes a scheduled unban, e.g. after a manual unban.
func (s *LinkService) CancelUnban(ctx context.Context, contentID int64) error {
	err := s.bans.Delete(ctx, contentID)
	if util.IsNotFound(err) {
		return util.NewNotFound("ban record", map[string]any{"content_id": contentID})
	}
	return err
}

// ListScheduledUnbans lists all pending ban records.
func (s *LinkService) ListScheduledUnbans(ctx context.Context) ([]domain.BanRecord, error) {
	return s.bans.List(ctx)
}

// CreatePhrase registers a phrase subscription.
func (s *LinkService) CreatePhrase(ctx context.Context, owner, phrase string) (*domain.PhraseSubscription, error) {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(phrase) == "" {
		return nil, util.NewValidationError("owner and phrase are required", nil)
	}
	sub := &domain.PhraseSubscription{Owner: owner, Phrase: phrase}
	if err := s.phrases.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// DeletePhrase removes a phrase subscription.
func (s *LinkService) DeletePhrase(ctx context.Context, id int64) error {
	err := s.phrases.Delete(ctx, id)
	if util.IsNotFound(err) {
		return util.NewNotFound("phrase subscription", map[string]any{"id": id})
	}
	return err
}

// ListPhrases lists all phrase subscriptions.
func (s *LinkService) ListPhrases(ctx context.Context) ([]domain.PhraseSubscription, error) {
	return s.phrases.ListAll(ctx)
}
