package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/events"
	"github.com/spec-kit/moderation-bridge/internal/observability"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/repository"
)

// TicketProjector maintains the single mirrored chat message per report.
// Per report id the lifecycle is: no mirror -> mirrored(msg); updates edit
// the message in place, unless it went missing or was authored by someone
// else, in which case a fresh message is created and the mapping replaced.
type TicketProjector struct {
	mirrors   repository.MirrorRepository
	chat      chat.Client
	renderer  *TicketRenderer
	channelID string
	botUserID string
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewTicketProjector constructs the projector.
func NewTicketProjector(mirrors repository.MirrorRepository, chatClient chat.Client, renderer *TicketRenderer, channelID, botUserID string, metrics *observability.Metrics, logger *zap.Logger) *TicketProjector {
	return &TicketProjector{
		mirrors:   mirrors,
		chat:      chatClient,
		renderer:  renderer,
		channelID: channelID,
		botUserID: botUserID,
		metrics:   metrics,
		logger:    logger,
	}
}

// Apply projects one report event onto the mirror message. The caller must
// serialize Apply calls sharing a report id; the read-check-act sequence here
// is not atomic.
func (p *TicketProjector) Apply(ctx context.Context, action events.Action, report domain.Report) error {
	if action == events.ActionCreate {
		return p.post(ctx, report)
	}
	return p.update(ctx, report)
}

func (p *TicketProjector) post(ctx context.Context, report domain.Report) error {
	mirror, err := p.mirrors.Get(ctx, report.ID)
	if err != nil {
		return fmt.Errorf("load mirror for report %d: %w", report.ID, err)
	}
	if mirror != nil {
		// Redelivered create; the mirror already exists.
		return p.update(ctx, report)
	}

	embed := p.renderer.RenderEmbed(ctx, report)
	messageID, err := p.chat.SendMessage(ctx, p.channelID, chat.MessagePayload{Embed: embed})
	if err != nil {
		return fmt.Errorf("mirror report %d: %w", report.ID, err)
	}
	if err := p.mirrors.Put(ctx, report.ID, messageID); err != nil {
		return fmt.Errorf("store mirror for report %d: %w", report.ID, err)
	}
	p.metrics.RecordOutcome(observability.OutcomeMirrorCreated)
	p.logger.Info("mirrored report",
		zap.Int64("report_id", report.ID),
		zap.String("message_id", messageID))
	return nil
}

func (p *TicketProjector) update(ctx context.Context, report domain.Report) error {
	mirror, err := p.mirrors.Get(ctx, report.ID)
	if err != nil {
		return fmt.Errorf("load mirror for report %d: %w", report.ID, err)
	}
	if mirror == nil {
		// Update for a report we never mirrored; treat as create.
		return p.post(ctx, report)
	}

	embed := p.renderer.RenderEmbed(ctx, report)

	message, err := p.chat.FetchMessage(ctx, p.channelID, mirror.ChatMessageID)
	if err != nil {
		return fmt.Errorf("fetch mirror message for report %d: %w", report.ID, err)
	}

	if message == nil || message.AuthorID != p.botUserID {
		// The mirrored message is gone or not ours. Discard the mapping and
		// start a fresh message.
		messageID, err := p.chat.SendMessage(ctx, p.channelID, chat.MessagePayload{Embed: embed})
		if err != nil {
			return fmt.Errorf("recreate mirror for report %d: %w", report.ID, err)
		}
		if err := p.mirrors.Replace(ctx, report.ID, messageID); err != nil {
			return fmt.Errorf("replace mirror for report %d: %w", report.ID, err)
		}
		p.metrics.RecordOutcome(observability.OutcomeMirrorRecreated)
		p.logger.Info("recreated mirror",
			zap.Int64("report_id", report.ID),
			zap.String("old_message_id", mirror.ChatMessageID),
			zap.String("message_id", messageID))
		return nil
	}

	if err := p.chat.EditMessage(ctx, p.channelID, mirror.ChatMessageID, chat.MessagePayload{Embed: embed}); err != nil {
		return fmt.Errorf("edit mirror for report %d: %w", report.ID, err)
	}
	p.metrics.RecordOutcome(observability.OutcomeMirrorEdited)
	return nil
}
