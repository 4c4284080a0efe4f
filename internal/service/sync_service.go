package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/cache"
	"github.com/spec-kit/moderation-bridge/internal/config"
	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/events"
	"github.com/spec-kit/moderation-bridge/internal/observability"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/repository"
)

const lockStripes = 64

// EventSyncService consumes external moderation events and applies their
// side effects: ban creations remove directly-linked chat accounts; report
// events maintain the mirror message and, on create, fan out phrase alerts.
type EventSyncService struct {
	links     repository.LinkRepository
	phrases   repository.PhraseRepository
	projector *TicketProjector
	alerts    *PhraseAlertEngine
	chat      chat.Client
	seen      *cache.TTLCache
	cfg       config.ChatConfig
	baseURL   string
	metrics   *observability.Metrics
	logger    *zap.Logger

	// Striped by report id: events sharing a report id are serialized even
	// when the bus dispatches concurrently.
	locks [lockStripes]sync.Mutex
}

// NewEventSyncService constructs the service. seen suppresses duplicate
// create alerts under at-least-once delivery.
func NewEventSyncService(
	links repository.LinkRepository,
	phrases repository.PhraseRepository,
	projector *TicketProjector,
	alerts *PhraseAlertEngine,
	chatClient chat.Client,
	seen *cache.TTLCache,
	chatCfg config.ChatConfig,
	contentBaseURL string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *EventSyncService {
	return &EventSyncService{
		links:     links,
		phrases:   phrases,
		projector: projector,
		alerts:    alerts,
		chat:      chatClient,
		seen:      seen,
		cfg:       chatCfg,
		baseURL:   strings.TrimRight(contentBaseURL, "/"),
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleBanUpdate removes every chat account directly linked to a banned
// content account. Ban deletions are intentionally not mirrored: removal
// does not imply un-removal should be automatic.
func (s *EventSyncService) HandleBanUpdate(ctx context.Context, update events.BanUpdate) error {
	if update.Action != events.ActionCreate {
		s.logger.Debug("ignoring ban event",
			zap.String("action", string(update.Action)),
			zap.Int64("content_id", update.Ban.UserID))
		return nil
	}

	chatIDs, err := s.links.ChatIDsFor(ctx, update.Ban.UserID)
	if err != nil {
		return fmt.Errorf("look up links for banned account %d: %w", update.Ban.UserID, err)
	}
	if len(chatIDs) == 0 {
		return nil
	}

	reason := fmt.Sprintf("Banned on the content site by %s/users/%d. Reason:\n%s",
		s.baseURL, update.Ban.BannerID, update.Ban.Reason)

	for _, chatID := range chatIDs {
		// Removing an already-absent member is a no-op inside the client.
		if err := s.chat.RemoveMember(ctx, chatID, reason); err != nil {
			s.logger.Error("failed to remove linked chat account",
				zap.String("chat_id", chatID),
				zap.Int64("content_id", update.Ban.UserID),
				zap.Error(err))
			continue
		}
		s.metrics.RecordOutcome(observability.OutcomeMemberRemoved)
		s.logger.Info("removed linked chat account",
			zap.String("chat_id", chatID),
			zap.Int64("content_id", update.Ban.UserID))
	}
	return nil
}

// HandleReportUpdate serializes per report id, projects the event onto the
// mirror message and, on create, evaluates phrase alerts.
func (s *EventSyncService) HandleReportUpdate(ctx context.Context, update events.ReportUpdate) error {
	lock := &s.locks[stripeFor(update.Report.ID)]
	lock.Lock()
	defer lock.Unlock()

	if err := s.projector.Apply(ctx, update.Action, update.Report); err != nil {
		return err
	}

	if update.Action != events.ActionCreate {
		return nil
	}

	suppressKey := "report_alert:" + strconv.FormatInt(update.Report.ID, 10)
	if s.seen.Contains(suppressKey) {
		s.logger.Debug("duplicate report create, alert suppressed",
			zap.Int64("report_id", update.Report.ID))
		return nil
	}
	s.seen.Set(suppressKey)

	return s.sendAlerts(ctx, update.Report)
}

func (s *EventSyncService) sendAlerts(ctx context.Context, report domain.Report) error {
	subs, err := s.phrases.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load phrase subscriptions: %w", err)
	}

	alerts := s.alerts.Evaluate(subs, report)
	if len(alerts) == 0 {
		return nil
	}

	var content strings.Builder
	var userIDs, roleIDs []string
	for _, alert := range alerts {
		var mention string
		if alert.Target.Kind == TargetRole {
			if s.cfg.AdminRoleID == "" {
				continue
			}
			mention = "<@&" + s.cfg.AdminRoleID + ">"
			roleIDs = appendUnique(roleIDs, s.cfg.AdminRoleID)
		} else {
			mention = "<@" + alert.Target.AccountID + ">"
			userIDs = appendUnique(userIDs, alert.Target.AccountID)
		}
		content.WriteString(mention + ": " + alert.Excerpt + "\n")
	}
	if content.Len() == 0 {
		return nil
	}

	_, err = s.chat.SendMessage(ctx, s.cfg.ReportsChannelID, chat.MessagePayload{
		Content:        content.String(),
		MentionUserIDs: userIDs,
		MentionRoleIDs: roleIDs,
	})
	if err != nil {
		return fmt.Errorf("send phrase alerts for report %d: %w", report.ID, err)
	}
	s.metrics.RecordOutcome(observability.OutcomeAlertSent)
	return nil
}

func stripeFor(reportID int64) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d", reportID)
	return h.Sum32() % lockStripes
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
