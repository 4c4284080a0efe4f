package content

// Tags that must never receive an auto-generated link regardless of rating.
var blacklistedTags = []string{}

// Tags blacklisted on anything but safe-rated posts.
var blacklistedNonSafeTags = []string{"young"}

// RatingSafe is the content site's all-ages rating.
const RatingSafe = "s"

// Restricted reports whether a post's auto-generated link must be reverted
// to plain text.
func Restricted(post *Post) bool {
	if post == nil {
		return false
	}
	for _, tags := range post.Tags {
		if containsAny(tags, blacklistedTags) {
			return true
		}
		if post.Rating != RatingSafe && containsAny(tags, blacklistedNonSafeTags) {
			return true
		}
	}
	return false
}

func containsAny(tags, banned []string) bool {
	for _, tag := range tags {
		for _, b := range banned {
			if tag == b {
				return true
			}
		}
	}
	return false
}
