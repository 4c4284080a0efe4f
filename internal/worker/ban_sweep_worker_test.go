package worker

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/observability"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/repository"
)

type fakeBanRepo struct {
	records map[int64]domain.BanRecord
}

func newFakeBanRepo(records ...domain.BanRecord) *fakeBanRepo {
	repo := &fakeBanRepo{records: make(map[int64]domain.BanRecord)}
	for _, record := range records {
		repo.records[record.ContentID] = record
	}
	return repo
}

func (f *fakeBanRepo) Put(ctx context.Context, record *domain.BanRecord) error {
	f.records[record.ContentID] = *record
	return nil
}

func (f *fakeBanRepo) Delete(ctx context.Context, contentID int64) error {
	if _, ok := f.records[contentID]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.records, contentID)
	return nil
}

func (f *fakeBanRepo) List(ctx context.Context) ([]domain.BanRecord, error) {
	var records []domain.BanRecord
	for _, record := range f.records {
		records = append(records, record)
	}
	return records, nil
}

func (f *fakeBanRepo) ExpiredBefore(ctx context.Context, cutoff time.Time) ([]domain.BanRecord, error) {
	var records []domain.BanRecord
	for _, record := range f.records {
		if !record.ExpiresAt.After(cutoff) {
			records = append(records, record)
		}
	}
	return records, nil
}

type staticLinkRepo struct {
	byContent map[int64][]string
}

func (s *staticLinkRepo) Put(ctx context.Context, link *domain.Link) error { return nil }
func (s *staticLinkRepo) Remove(ctx context.Context, contentID int64, chatID string) error {
	return nil
}
func (s *staticLinkRepo) ContentIDsFor(ctx context.Context, chatID string) ([]int64, error) {
	return nil, nil
}
func (s *staticLinkRepo) ChatIDsFor(ctx context.Context, contentID int64) ([]string, error) {
	return s.byContent[contentID], nil
}
func (s *staticLinkRepo) ListFor(ctx context.Context, chatID string) ([]domain.Link, error) {
	return nil, nil
}
func (s *staticLinkRepo) CombinedIDs(ctx context.Context, seed string, depthCap int) ([]repository.CombinedID, error) {
	return nil, nil
}

type unbanCall struct {
	accountID string
	reason    string
}

type sweepChatClient struct {
	unbanned []unbanCall
	unbanErr error
}

func (c *sweepChatClient) BanStatus(ctx context.Context, accountID string) (bool, error) {
	return false, nil
}
func (c *sweepChatClient) RemoveMember(ctx context.Context, accountID, reason string) error {
	return nil
}
func (c *sweepChatClient) Unban(ctx context.Context, accountID, reason string) error {
	if c.unbanErr != nil {
		return c.unbanErr
	}
	c.unbanned = append(c.unbanned, unbanCall{accountID: accountID, reason: reason})
	return nil
}
func (c *sweepChatClient) SendMessage(ctx context.Context, channelID string, payload chat.MessagePayload) (string, error) {
	return "", nil
}
func (c *sweepChatClient) FetchMessage(ctx context.Context, channelID, messageID string) (*chat.Message, error) {
	return nil, nil
}
func (c *sweepChatClient) EditMessage(ctx context.Context, channelID, messageID string, payload chat.MessagePayload) error {
	return nil
}

func newSweepWorker(bans *fakeBanRepo, links *staticLinkRepo, chatClient *sweepChatClient) *BanSweepWorker {
	return NewBanSweepWorker(bans, links, chatClient, time.Minute, observability.NewMetrics(), zap.NewNop())
}

func TestSweepLiftsExpiredBans(t *testing.T) {
	bans := newFakeBanRepo(
		domain.BanRecord{ContentID: 5, ExpiresAt: time.Now().Add(-time.Hour)},
		domain.BanRecord{ContentID: 6, ExpiresAt: time.Now().Add(time.Hour)},
	)
	links := &staticLinkRepo{byContent: map[int64][]string{5: {"a", "b"}}}
	chatClient := &sweepChatClient{}

	newSweepWorker(bans, links, chatClient).Sweep(context.Background())

	require.Len(t, chatClient.unbanned, 2)
	assert.Equal(t, "Scheduled ban expired", chatClient.unbanned[0].reason)

	_, stillScheduled := bans.records[6]
	assert.True(t, stillScheduled, "unexpired record untouched")
	_, pruned := bans.records[5]
	assert.False(t, pruned, "expired record removed after unban")
}

func TestSweepKeepsRecordWhenUnbanFails(t *testing.T) {
	bans := newFakeBanRepo(domain.BanRecord{ContentID: 5, ExpiresAt: time.Now().Add(-time.Hour)})
	links := &staticLinkRepo{byContent: map[int64][]string{5: {"a"}}}
	chatClient := &sweepChatClient{unbanErr: assert.AnError}

	newSweepWorker(bans, links, chatClient).Sweep(context.Background())

	_, kept := bans.records[5]
	assert.True(t, kept, "record retried on the next sweep")
}

func TestSweepPrunesRecordWithoutLinks(t *testing.T) {
	bans := newFakeBanRepo(domain.BanRecord{ContentID: 5, ExpiresAt: time.Now().Add(-time.Hour)})
	links := &staticLinkRepo{byContent: map[int64][]string{}}
	chatClient := &sweepChatClient{}

	newSweepWorker(bans, links, chatClient).Sweep(context.Background())

	assert.Empty(t, chatClient.unbanned)
	_, kept := bans.records[5]
	assert.False(t, kept, "nothing left to unban, record dropped")
}
