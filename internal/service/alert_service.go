package service

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/pkg/util"
)

// TargetKind distinguishes role-level from individual alert targets.
type TargetKind string

const (
	TargetRole    TargetKind = "role"
	TargetAccount TargetKind = "account"
)

// AlertTarget names who should be notified for a matched phrase.
type AlertTarget struct {
	Kind      TargetKind
	AccountID string
}

// Alert is one phrase match against a report.
type Alert struct {
	Target  AlertTarget
	Excerpt string
}

// redactedLabel replaces highly sensitive matched text so it is never echoed
// back into chat.
const redactedLabel = "Code Red"

var redactedPhrases = map[string]struct{}{
	"underage porn": {},
	"child porn":    {},
	"cp":            {},
}

// PhraseAlertEngine matches report reasons against phrase subscriptions.
type PhraseAlertEngine struct {
	logger *zap.Logger
}

// NewPhraseAlertEngine constructs the engine.
func NewPhraseAlertEngine(logger *zap.Logger) *PhraseAlertEngine {
	return &PhraseAlertEngine{logger: logger}
}

// Evaluate checks every subscription against the report reason. Literal
// phrases match by case-insensitive containment; /pattern/ phrases compile
// as case-insensitive regular expressions and match on first occurrence. A
// subscription with an invalid pattern is skipped (logged); the remaining
// subscriptions still evaluate.
func (e *PhraseAlertEngine) Evaluate(subs []domain.PhraseSubscription, report domain.Report) []Alert {
	var alerts []Alert
	for _, sub := range subs {
		excerpt, matched := e.match(sub, report.Reason)
		if !matched {
			continue
		}
		alerts = append(alerts, Alert{Target: targetFor(sub.Owner), Excerpt: excerpt})
	}
	return alerts
}

func (e *PhraseAlertEngine) match(sub domain.PhraseSubscription, reason string) (string, bool) {
	if !sub.IsRegex() {
		if strings.Contains(strings.ToLower(reason), strings.ToLower(sub.Phrase)) {
			return redact(sub.Phrase), true
		}
		return "", false
	}

	pattern := sub.Phrase[1:strings.LastIndex(sub.Phrase, "/")]
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		e.logger.Warn("skipping malformed phrase subscription",
			zap.Int64("subscription_id", sub.ID),
			zap.Error(util.NewMalformedSubscription(sub.Phrase, err)))
		return "", false
	}

	// FindStringIndex distinguishes no match from an empty match, which
	// patterns like /x*/ legitimately produce.
	loc := re.FindStringIndex(reason)
	if loc == nil {
		return "", false
	}
	match := reason[loc[0]:loc[1]]
	return fmt.Sprintf("%s (regex match: `%s`)", redact(match), sub.Phrase), true
}

func targetFor(owner string) AlertTarget {
	if owner == domain.PhraseOwnerAdmin {
		return AlertTarget{Kind: TargetRole}
	}
	return AlertTarget{Kind: TargetAccount, AccountID: owner}
}

func redact(match string) string {
	if _, ok := redactedPhrases[strings.ToLower(match)]; ok {
		return redactedLabel
	}
	return match
}
