package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/observability"
)

// Handler consumes decoded bus events. Errors are logged by the subscriber;
// they never stop consumption.
type Handler interface {
	HandleReportUpdate(ctx context.Context, update ReportUpdate) error
	HandleBanUpdate(ctx context.Context, update BanUpdate) error
}

// Subscriber consumes the report_updates and ban_updates topics from Redis
// pub/sub through a bounded channel and dispatches by topic.
type Subscriber struct {
	client    *redis.Client
	handler   Handler
	queueSize int
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewSubscriber builds a subscriber. queueSize bounds the in-flight buffer
// between the bus and the handler.
func NewSubscriber(client *redis.Client, handler Handler, queueSize int, logger *zap.Logger, metrics *observability.Metrics) *Subscriber {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Subscriber{
		client:    client,
		handler:   handler,
		queueSize: queueSize,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run consumes events until ctx is cancelled. Events are handled one at a
// time; per-report serialization beyond that is the handler's concern.
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, TopicReportUpdates, TopicBanUpdates)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	s.logger.Info("subscribed to event bus",
		zap.Strings("topics", []string{TopicReportUpdates, TopicBanUpdates}))

	ch := pubsub.Channel(redis.WithChannelSize(s.queueSize))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.dispatch(ctx, msg.Channel, msg.Payload)
		}
	}
}

func (s *Subscriber) dispatch(ctx context.Context, topic, payload string) {
	eventID := uuid.NewString()
	logger := s.logger.With(zap.String("event_id", eventID), zap.String("topic", topic))
	s.metrics.RecordEvent(topic)

	var err error
	switch topic {
	case TopicReportUpdates:
		var update ReportUpdate
		if err = json.Unmarshal([]byte(payload), &update); err == nil {
			err = s.handler.HandleReportUpdate(ctx, update)
		}
	case TopicBanUpdates:
		var update BanUpdate
		if err = json.Unmarshal([]byte(payload), &update); err == nil {
			err = s.handler.HandleBanUpdate(ctx, update)
		}
	default:
		logger.Warn("unknown topic")
		return
	}

	if err != nil {
		logger.Error("event handling failed", zap.Error(err))
		return
	}
	logger.Debug("event handled")
}
