package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/observability"
)

type recordingHandler struct {
	reports []ReportUpdate
	bans    []BanUpdate
	err     error
}

func (h *recordingHandler) HandleReportUpdate(ctx context.Context, update ReportUpdate) error {
	h.reports = append(h.reports, update)
	return h.err
}

func (h *recordingHandler) HandleBanUpdate(ctx context.Context, update BanUpdate) error {
	h.bans = append(h.bans, update)
	return h.err
}

func newTestSubscriber(handler Handler) *Subscriber {
	return NewSubscriber(nil, handler, 16, zap.NewNop(), observability.NewMetrics())
}

func TestDispatchReportUpdate(t *testing.T) {
	handler := &recordingHandler{}
	sub := newTestSubscriber(handler)

	payload := `{"action":"create","report":{"id":10,"category":"comment","user":"alice","reason":"spam"}}`
	sub.dispatch(context.Background(), TopicReportUpdates, payload)

	require.Len(t, handler.reports, 1)
	assert.Equal(t, ActionCreate, handler.reports[0].Action)
	assert.Equal(t, int64(10), handler.reports[0].Report.ID)
	assert.Equal(t, "spam", handler.reports[0].Report.Reason)
	assert.Empty(t, handler.bans)
}

func TestDispatchBanUpdate(t *testing.T) {
	handler := &recordingHandler{}
	sub := newTestSubscriber(handler)

	payload := `{"action":"create","ban":{"user_id":5,"banner_id":77,"reason":"evasion"}}`
	sub.dispatch(context.Background(), TopicBanUpdates, payload)

	require.Len(t, handler.bans, 1)
	assert.Equal(t, int64(5), handler.bans[0].Ban.UserID)
	assert.Equal(t, int64(77), handler.bans[0].Ban.BannerID)
	assert.Empty(t, handler.reports)
}

func TestDispatchUnknownTopicIgnored(t *testing.T) {
	handler := &recordingHandler{}
	sub := newTestSubscriber(handler)

	sub.dispatch(context.Background(), "mystery_topic", `{}`)

	assert.Empty(t, handler.reports)
	assert.Empty(t, handler.bans)
}

func TestDispatchMalformedPayloadIgnored(t *testing.T) {
	handler := &recordingHandler{}
	sub := newTestSubscriber(handler)

	sub.dispatch(context.Background(), TopicReportUpdates, `{"action":`)

	assert.Empty(t, handler.reports)
}

func TestDispatchHandlerErrorDoesNotPanic(t *testing.T) {
	handler := &recordingHandler{err: assert.AnError}
	sub := newTestSubscriber(handler)

	assert.NotPanics(t, func() {
		sub.dispatch(context.Background(), TopicReportUpdates, `{"action":"update","report":{"id":1}}`)
	})
	assert.Len(t, handler.reports, 1)
}
