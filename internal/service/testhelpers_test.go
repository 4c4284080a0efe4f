package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/platform/content"
	"github.com/spec-kit/moderation-bridge/internal/repository"
)

type linkPair struct {
	contentID int64
	chatID    string
}

// fakeLinkRepo holds links in memory and serves symmetric edge lookups.
type fakeLinkRepo struct {
	mu    sync.Mutex
	pairs []linkPair
	err   error
}

func newFakeLinkRepo(pairs ...linkPair) *fakeLinkRepo {
	return &fakeLinkRepo{pairs: pairs}
}

func (f *fakeLinkRepo) Put(ctx context.Context, link *domain.Link) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs = append(f.pairs, linkPair{contentID: link.ContentID, chatID: link.ChatID})
	link.CreatedAt = time.Now()
	return nil
}

func (f *fakeLinkRepo) Remove(ctx context.Context, contentID int64, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, pair := range f.pairs {
		if pair.contentID == contentID && pair.chatID == chatID {
			f.pairs = append(f.pairs[:i], f.pairs[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeLinkRepo) ContentIDsFor(ctx context.Context, chatID string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[int64]struct{})
	var ids []int64
	for _, pair := range f.pairs {
		if pair.chatID != chatID {
			continue
		}
		if _, ok := seen[pair.contentID]; ok {
			continue
		}
		seen[pair.contentID] = struct{}{}
		ids = append(ids, pair.contentID)
	}
	return ids, nil
}

func (f *fakeLinkRepo) ChatIDsFor(ctx context.Context, contentID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, pair := range f.pairs {
		if pair.contentID != contentID {
			continue
		}
		if _, ok := seen[pair.chatID]; ok {
			continue
		}
		seen[pair.chatID] = struct{}{}
		ids = append(ids, pair.chatID)
	}
	return ids, nil
}

func (f *fakeLinkRepo) ListFor(ctx context.Context, chatID string) ([]domain.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var links []domain.Link
	for _, pair := range f.pairs {
		if pair.chatID == chatID {
			links = append(links, domain.Link{ContentID: pair.contentID, ChatID: pair.chatID})
		}
	}
	return links, nil
}

func (f *fakeLinkRepo) CombinedIDs(ctx context.Context, seed string, depthCap int) ([]repository.CombinedID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []repository.CombinedID
	for _, pair := range f.pairs {
		result = append(result, repository.CombinedID{ContentID: pair.contentID, ChatID: pair.chatID})
	}
	return result, nil
}

// fakeMirrorRepo keeps the report-to-message mapping in a map.
type fakeMirrorRepo struct {
	mu       sync.Mutex
	mirrors  map[int64]string
	puts     int
	replaces int
}

func newFakeMirrorRepo() *fakeMirrorRepo {
	return &fakeMirrorRepo{mirrors: make(map[int64]string)}
}

func (f *fakeMirrorRepo) Get(ctx context.Context, reportID int64) (*domain.TicketMirror, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messageID, ok := f.mirrors[reportID]
	if !ok {
		return nil, nil
	}
	return &domain.TicketMirror{ReportID: reportID, ChatMessageID: messageID}, nil
}

func (f *fakeMirrorRepo) Put(ctx context.Context, reportID int64, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mirrors[reportID] = messageID
	f.puts++
	return nil
}

func (f *fakeMirrorRepo) Replace(ctx context.Context, reportID int64, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mirrors[reportID] = messageID
	f.replaces++
	return nil
}

func (f *fakeMirrorRepo) Delete(ctx context.Context, reportID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.mirrors, reportID)
	return nil
}

// fakePhraseRepo serves a static subscription list.
type fakePhraseRepo struct {
	subs   []domain.PhraseSubscription
	nextID int64
}

func (f *fakePhraseRepo) Create(ctx context.Context, sub *domain.PhraseSubscription) error {
	f.nextID++
	sub.ID = f.nextID
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakePhraseRepo) Delete(ctx context.Context, id int64) error {
	for i, sub := range f.subs {
		if sub.ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakePhraseRepo) ListAll(ctx context.Context) ([]domain.PhraseSubscription, error) {
	return f.subs, nil
}

func (f *fakePhraseRepo) ListByOwner(ctx context.Context, owner string) ([]domain.PhraseSubscription, error) {
	var subs []domain.PhraseSubscription
	for _, sub := range f.subs {
		if sub.Owner == owner {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

type removal struct {
	accountID string
	reason    string
}

type sentMessage struct {
	channelID string
	payload   chat.MessagePayload
	messageID string
}

// fakeChatClient records every side effect. New messages are authored by
// selfID, mimicking a bot posting as itself.
type fakeChatClient struct {
	mu        sync.Mutex
	selfID    string
	bannedIDs map[string]bool
	banErr    error
	sendErr   error
	fetchErr  error
	nextID    int
	messages  map[string]*chat.Message
	sent      []sentMessage
	edits     []string
	removed   []removal
	unbanned  []removal
}

func newFakeChatClient() *fakeChatClient {
	return &fakeChatClient{
		selfID:    "bot-1",
		bannedIDs: make(map[string]bool),
		messages:  make(map[string]*chat.Message),
	}
}

func (f *fakeChatClient) BanStatus(ctx context.Context, accountID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.banErr != nil {
		return false, f.banErr
	}
	return f.bannedIDs[accountID], nil
}

func (f *fakeChatClient) RemoveMember(ctx context.Context, accountID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, removal{accountID: accountID, reason: reason})
	return nil
}

func (f *fakeChatClient) Unban(ctx context.Context, accountID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbanned = append(f.unbanned, removal{accountID: accountID, reason: reason})
	return nil
}

func (f *fakeChatClient) SendMessage(ctx context.Context, channelID string, payload chat.MessagePayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextID++
	messageID := fmt.Sprintf("msg-%d", f.nextID)
	f.messages[messageID] = &chat.Message{ID: messageID, ChannelID: channelID, AuthorID: f.selfID}
	f.sent = append(f.sent, sentMessage{channelID: channelID, payload: payload, messageID: messageID})
	return messageID, nil
}

func (f *fakeChatClient) FetchMessage(ctx context.Context, channelID, messageID string) (*chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.messages[messageID], nil
}

func (f *fakeChatClient) EditMessage(ctx context.Context, channelID, messageID string, payload chat.MessagePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, messageID)
	return nil
}

// fakeContentClient serves static profiles and posts.
type fakeContentClient struct {
	profiles   map[int64]*content.Profile
	posts      map[int64]*content.Post
	profileErr error
	postErr    error
}

func newFakeContentClient() *fakeContentClient {
	return &fakeContentClient{
		profiles: make(map[int64]*content.Profile),
		posts:    make(map[int64]*content.Post),
	}
}

func (f *fakeContentClient) GetAccountProfile(ctx context.Context, id int64) (*content.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profiles[id], nil
}

func (f *fakeContentClient) GetPost(ctx context.Context, id int64) (*content.Post, error) {
	if f.postErr != nil {
		return nil, f.postErr
	}
	return f.posts[id], nil
}

func (f *fakeContentClient) GetPostByHash(ctx context.Context, md5 string) (*content.Post, error) {
	return nil, nil
}
