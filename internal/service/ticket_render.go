package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-bridge/internal/domain"
	"github.com/spec-kit/moderation-bridge/internal/platform/chat"
	"github.com/spec-kit/moderation-bridge/internal/platform/content"
)

const (
	colorUnclaimed       = 0xFF0000
	colorClaimed         = 0x00FFFF
	unclaimedPlaceholder = "<Unclaimed>"
	ellipsis             = "..."
)

// refPattern rewrites one kind of cross-reference in report text to a link.
type refPattern struct {
	re     *regexp.Regexp
	path   string
	escape func(string) string
	post   bool
}

var refPatterns = []refPattern{
	{re: regexp.MustCompile(`(?i)blip #([0-9]+)`), path: "/blips/"},
	{re: regexp.MustCompile(`(?i)comment #([0-9]+)`), path: "/comments/"},
	{re: regexp.MustCompile(`(?i)topic #([0-9]+)`), path: "/forum_topics/"},
	{re: regexp.MustCompile(`(?i)pool #([0-9]+)`), path: "/pools/"},
	{re: regexp.MustCompile(`(?i)post #([0-9]+)`), path: "/posts/", post: true},
	{re: regexp.MustCompile(`(?i)record #([0-9]+)`), path: "/user_feedbacks/"},
	{re: regexp.MustCompile(`(?i)set #([0-9]+)`), path: "/post_sets/"},
	{re: regexp.MustCompile(`(?i)takedown #([0-9]+)`), path: "/takedowns/"},
	{re: regexp.MustCompile(`(?i)ticket #([0-9]+)`), path: "/tickets/"},
	{re: regexp.MustCompile(`(?i)user #([0-9]+)`), path: "/users/"},
	{re: regexp.MustCompile(`(?i)\[\[((?:\S| )+?)\]\]`), path: "/wiki_pages/", escape: url.PathEscape},
	{re: regexp.MustCompile(`(?i)\{\{((?:\S| )+?)\}\}`), path: "/posts?tags=", escape: url.QueryEscape},
}

// quotedLinkRe matches the site's "label":url link syntax, with or without
// brackets around the target.
var quotedLinkRe = regexp.MustCompile(`(?i)"((?:\S| )+?)":\[?((?:https?://[\w./?=#&%]+)|/[\w./?=#]+)\]?`)

var titleTemplates = map[string]string{
	"blip":    "Blip by %s",
	"comment": "Comment by %s",
	"dmail":   "DMail sent by %s",
	"forum":   "Forum post by %s",
	"pool":    "Pool %s",
	"post":    "Post uploaded by %s",
	"set":     "Wow, a rare set report! %s",
	"user":    "User %s",
	"wiki":    "Wiki page %s",
}

// TicketRenderer turns a report into the embed mirrored into chat.
type TicketRenderer struct {
	content          content.Client
	baseURL          string
	safeBaseURL      string
	descriptionLimit int
	logger           *zap.Logger
}

// NewTicketRenderer constructs a renderer. safeBaseURL is the all-ages mirror
// used for safe-rated post links; descriptionLimit caps rendered description
// length in characters.
func NewTicketRenderer(contentClient content.Client, baseURL, safeBaseURL string, descriptionLimit int, logger *zap.Logger) *TicketRenderer {
	if descriptionLimit <= 0 {
		descriptionLimit = 500
	}
	return &TicketRenderer{
		content:          contentClient,
		baseURL:          strings.TrimRight(baseURL, "/"),
		safeBaseURL:      strings.TrimRight(safeBaseURL, "/"),
		descriptionLimit: descriptionLimit,
		logger:           logger,
	}
}

// RenderEmbed builds the full mirrored representation of a report.
func (r *TicketRenderer) RenderEmbed(ctx context.Context, report domain.Report) *chat.Embed {
	color := colorUnclaimed
	claimant := unclaimedPlaceholder
	if report.Claimant != "" {
		color = colorClaimed
		claimant = report.Claimant
	}

	return &chat.Embed{
		Title:       renderTitle(report),
		URL:         fmt.Sprintf("%s/tickets/%d", r.baseURL, report.ID),
		Description: r.renderDescription(ctx, report.Reason),
		AuthorName:  report.User,
		AuthorURL:   fmt.Sprintf("%s/users/%d", r.baseURL, report.UserID),
		Color:       color,
		Fields: []chat.EmbedField{
			{Name: "Type", Value: report.Category, Inline: true},
			{Name: "Status", Value: report.Status, Inline: true},
			{Name: "Claimed By", Value: claimant, Inline: true},
		},
	}
}

func renderTitle(report domain.Report) string {
	if report.Target != "" {
		if tmpl, ok := titleTemplates[report.Category]; ok {
			return fmt.Sprintf(tmpl, report.Target)
		}
	}
	return fmt.Sprintf("%s report by %s", capitalizeWords(report.Category), report.User)
}

// capitalizeWords uppercases the first letter of each space-separated word.
func capitalizeWords(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// candidate is one pending cross-reference replacement, positioned in the
// source text.
type candidate struct {
	start, end int
	label      string
	replaced   string
	postID     int64
}

// renderDescription rewrites recognized cross-references in reason as links
// and truncates the result without ever cutting inside a replacement.
func (r *TicketRenderer) renderDescription(ctx context.Context, reason string) string {
	candidates := r.collect(reason)
	kept := r.applyPostPolicy(ctx, candidates)

	var b strings.Builder
	spans := make([][2]int, 0, len(kept))
	last := 0
	for _, c := range kept {
		b.WriteString(reason[last:c.start])
		outStart := b.Len()
		b.WriteString(c.replaced)
		spans = append(spans, [2]int{outStart, b.Len()})
		last = c.end
	}
	b.WriteString(reason[last:])
	out := b.String()

	if utf8.RuneCountInString(reason) <= r.descriptionLimit {
		return out
	}

	byteLimit := byteOffsetOfRune(out, r.descriptionLimit)
	for _, span := range spans {
		if span[0] < byteLimit && span[1] >= byteLimit {
			return out[:span[1]] + ellipsis
		}
	}
	return out[:byteLimit] + ellipsis
}

// collect gathers non-overlapping replacement candidates, earliest first.
func (r *TicketRenderer) collect(reason string) []candidate {
	var candidates []candidate

	for _, pattern := range refPatterns {
		for _, m := range pattern.re.FindAllStringSubmatchIndex(reason, -1) {
			whole := reason[m[0]:m[1]]
			group := reason[m[2]:m[3]]
			value := group
			if pattern.escape != nil {
				value = pattern.escape(group)
			}
			c := candidate{
				start:    m[0],
				end:      m[1],
				label:    whole,
				replaced: fmt.Sprintf("[%s](%s%s%s)", whole, r.baseURL, pattern.path, value),
			}
			if pattern.post {
				if id, err := strconv.ParseInt(group, 10, 64); err == nil {
					c.postID = id
				}
			}
			candidates = append(candidates, c)
		}
	}

	for _, m := range quotedLinkRe.FindAllStringSubmatchIndex(reason, -1) {
		label := reason[m[2]:m[3]]
		target := reason[m[4]:m[5]]
		if strings.HasPrefix(target, "/") {
			target = r.baseURL + target
		}
		candidates = append(candidates, candidate{
			start:    m[0],
			end:      m[1],
			replaced: fmt.Sprintf("[%s](%s)", label, target),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].start < candidates[j].start })

	kept := candidates[:0]
	lastEnd := -1
	for _, c := range candidates {
		if c.start < lastEnd {
			continue
		}
		kept = append(kept, c)
		lastEnd = c.end
	}
	return kept
}

// applyPostPolicy drops the replacement for any post reference that resolves
// to restricted content, and for any reference whose lookup failed: a working
// link to disallowed content must never be emitted. A missing post keeps its
// link; only that single reference is affected either way. Safe-rated posts
// link through the all-ages mirror.
func (r *TicketRenderer) applyPostPolicy(ctx context.Context, candidates []candidate) []candidate {
	kept := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.postID != 0 {
			post, err := r.content.GetPost(ctx, c.postID)
			if err != nil {
				r.logger.Warn("post lookup failed, leaving reference as plain text",
					zap.Int64("post_id", c.postID), zap.Error(err))
				continue
			}
			if content.Restricted(post) {
				continue
			}
			if post != nil {
				c.replaced = fmt.Sprintf("[%s](%s)", c.label, content.PostURL(post, r.baseURL, r.safeBaseURL))
			}
		}
		kept = append(kept, c)
	}
	return kept
}

// byteOffsetOfRune returns the byte index of the n-th rune of s, or len(s)
// when s has fewer runes.
func byteOffsetOfRune(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}
