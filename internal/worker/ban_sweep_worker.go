package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/observability"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/repository"
)

// BanSweepWorker periodically lifts expired scheduled bans. The platform
// unban for every directly-linked chat account happens before the record is
// pruned; if any unban fails, the record stays for the next sweep.
type BanSweepWorker struct {
	bans     repository.BanRepository
	links    repository.LinkRepository
	chat     chat.Client
	interval time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewBanSweepWorker constructs the worker.
func NewBanSweepWorker(bans repository.BanRepository, links repository.LinkRepository, chatClient chat.Client, interval time.Duration, metrics *observability.Metrics, logger *zap.Logger) *BanSweepWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &BanSweepWorker{
		bans:     bans,
		links:    links,
		chat:     chatClient,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (w *BanSweepWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep processes every ban record past its expiry.
func (w *BanSweepWorker) Sweep(ctx context.Context) {
	expired, err := w.bans.ExpiredBefore(ctx, time.Now())
	if err != nil {
		w.logger.Error("failed to load expired bans", zap.Error(err))
		return
	}

	for _, record := range expired {
		chatIDs, err := w.links.ChatIDsFor(ctx, record.ContentID)
		if err != nil {
			w.logger.Error("failed to resolve links for expired ban",
				zap.Int64("content_id", record.ContentID), zap.Error(err))
			continue
		}

		failed := false
		for _, chatID := range chatIDs {
			if err := w.chat.Unban(ctx, chatID, "Scheduled ban expired"); err != nil {
				w.logger.Error("failed to lift expired ban",
					zap.Int64("content_id", record.ContentID),
					zap.String("chat_id", chatID),
					zap.Error(err))
				failed = true
			}
		}
		if failed {
			// Retry on the next sweep rather than dropping the record.
			continue
		}

		if err := w.bans.Delete(ctx, record.ContentID); err != nil {
			w.logger.Error("failed to prune ban record",
				zap.Int64("content_id", record.ContentID), zap.Error(err))
			continue
		}
		w.metrics.RecordOutcome(observability.OutcomeSweepUnban)
		w.logger.Info("lifted expired ban",
			zap.Int64("content_id", record.ContentID),
			zap.Int("chat_accounts", len(chatIDs)))
	}
}
