package domain

import "strconv"

// Space tags which identity space an account id belongs to.
type Space string

const (
	SpaceChat    Space = "chat"
	SpaceContent Space = "content"
)

// AccountRef is a tagged account id. It is comparable, so a resolution pass
// can use it directly as the key of its visited set.
type AccountRef struct {
	Space Space
	ID    string
}

// ChatRef builds a reference to a chat-platform account.
func ChatRef(id string) AccountRef {
	return AccountRef{Space: SpaceChat, ID: id}
}

// ContentRef builds a reference to a content-site account.
func ContentRef(id int64) AccountRef {
	return AccountRef{Space: SpaceContent, ID: strconv.FormatInt(id, 10)}
}

// ContentID returns the numeric content-site id when the reference points at
// the content space.
func (r AccountRef) ContentID() (int64, bool) {
	if r.Space != SpaceContent {
		return 0, false
	}
	id, err := strconv.ParseInt(r.ID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// AltNode is one vertex of a resolved alt tree. Trees are built fresh per
// resolution call and never persisted.
type AltNode struct {
	Ref      AccountRef
	Banned   bool
	Children []*AltNode
}
