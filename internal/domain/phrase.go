package domain

import "strings"

// PhraseOwnerAdmin subscribes the admin role rather than an individual
// chat account.
const PhraseOwnerAdmin = "admin"

// PhraseSubscription requests an alert whenever a report reason matches a
// phrase. A phrase is either a literal (case-insensitive substring) or a
// "/pattern/" regular expression.
type PhraseSubscription struct {
	ID     int64
	Owner  string
	Phrase string
}

// IsRegex reports whether the phrase uses the /pattern/ form. An optional
// trailing "i" flag is accepted; matching is case-insensitive either way.
func (p PhraseSubscription) IsRegex() bool {
	if !strings.HasPrefix(p.Phrase, "/") || len(p.Phrase) < 3 {
		return false
	}
	idx := strings.LastIndex(p.Phrase, "/")
	return idx > 0 && (idx == len(p.Phrase)-1 || p.Phrase[idx+1:] == "i")
}
