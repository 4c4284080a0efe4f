package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhraseSubscriptionIsRegex(t *testing.T) {
	cases := []struct {
		phrase   string
		expected bool
	}{
		{"spam", false},
		{"/a/", true},
		{"/a/i", true},
		{`/\bcp\b/i`, true},
		{"/", false},
		{"//", false},
		{"/a/x", false},
		{"a/b/", false},
	}

	for _, tc := range cases {
		sub := PhraseSubscription{Phrase: tc.phrase}
		assert.Equal(t, tc.expected, sub.IsRegex(), "phrase %q", tc.phrase)
	}
}
