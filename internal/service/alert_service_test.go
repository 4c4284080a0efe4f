package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/domain"
)

func TestEvaluateLiteralPhrase(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: "1234", Phrase: "spam"},
		{ID: 2, Owner: "5678", Phrase: "offtopic"},
	}
	report := domain.Report{ID: 10, Reason: "This is SPAM content"}

	alerts := engine.Evaluate(subs, report)
	require.Len(t, alerts, 1)
	assert.Equal(t, TargetAccount, alerts[0].Target.Kind)
	assert.Equal(t, "1234", alerts[0].Target.AccountID)
	assert.Equal(t, "spam", alerts[0].Excerpt)
}

func TestEvaluateAdminOwnerTargetsRole(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: domain.PhraseOwnerAdmin, Phrase: "dmca"},
	}
	alerts := engine.Evaluate(subs, domain.Report{Reason: "possible DMCA issue"})
	require.Len(t, alerts, 1)
	assert.Equal(t, TargetRole, alerts[0].Target.Kind)
	assert.Empty(t, alerts[0].Target.AccountID)
}

func TestEvaluateRegexPhrase(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: domain.PhraseOwnerAdmin, Phrase: `/\bcp\b/i`},
	}
	alerts := engine.Evaluate(subs, domain.Report{Reason: "user is posting CP links"})
	require.Len(t, alerts, 1)
	assert.Equal(t, "Code Red (regex match: `/\\bcp\\b/i`)", alerts[0].Excerpt)
}

func TestEvaluateRegexDoesNotMatchSubstrings(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: domain.PhraseOwnerAdmin, Phrase: `/\bcp\b/i`},
	}
	alerts := engine.Evaluate(subs, domain.Report{Reason: "copy of a picture"})
	assert.Empty(t, alerts)
}

func TestEvaluateRegexEmptyMatchStillAlerts(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: "7", Phrase: "/x*/"},
	}
	alerts := engine.Evaluate(subs, domain.Report{Reason: "yyy"})
	require.Len(t, alerts, 1, "an empty match is still a match")
	assert.Equal(t, " (regex match: `/x*/`)", alerts[0].Excerpt)
}

func TestEvaluateLiteralRedaction(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: "99", Phrase: "child porn"},
	}
	alerts := engine.Evaluate(subs, domain.Report{Reason: "reporting CHILD PORN here"})
	require.Len(t, alerts, 1)
	assert.Equal(t, "Code Red", alerts[0].Excerpt)
}

func TestEvaluateSkipsMalformedPattern(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: "1", Phrase: "/(/"},
		{ID: 2, Owner: "2", Phrase: "spam"},
	}
	alerts := engine.Evaluate(subs, domain.Report{Reason: "spam ( everywhere"})
	require.Len(t, alerts, 1, "valid subscriptions still evaluate")
	assert.Equal(t, "2", alerts[0].Target.AccountID)
}

func TestEvaluateNoMatches(t *testing.T) {
	engine := NewPhraseAlertEngine(zap.NewNop())

	subs := []domain.PhraseSubscription{
		{ID: 1, Owner: "1", Phrase: "spam"},
	}
	assert.Empty(t, engine.Evaluate(subs, domain.Report{Reason: "perfectly fine"}))
}
