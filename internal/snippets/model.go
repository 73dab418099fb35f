package snippets

import (
	"sort"
	"strings"
	"time"
)

// Snippet is a stored knowledge snippet. Tags are exposed as a list but
// persisted as a single comma-joined text column.
type Snippet struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  *string    `json:"category"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type CreateSnippetRequest struct {
	Title    string
	Content  string
	Category *string
	Tags     []string
}

// UpdateSnippetRequest carries a partial update. A nil field means "leave
// unchanged"; a non-nil empty value clears the field. Tags follows the same
// rule with the nil slice standing in for "not supplied".
type UpdateSnippetRequest struct {
	Title    *string
	Content  *string
	Category *string
	Tags     []string
}

const tagDelimiter = ","

// encodeTags joins tags into the stored column form, trimming whitespace and
// dropping empties. Returns nil when nothing remains, so "no tags" and an
// absent column stay equivalent.
func encodeTags(tags []string) *string {
	if tags == nil {
		return nil
	}
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	enc := strings.Join(kept, tagDelimiter)
	return &enc
}

// decodeTags splits the stored column form back into a list. A tag that
// itself contains the delimiter does not survive the round trip; tag
// validation rejects such values before they are stored.
func decodeTags(enc *string) []string {
	if enc == nil || *enc == "" {
		return nil
	}
	parts := strings.Split(*enc, tagDelimiter)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func sortedTagSet(seen map[string]struct{}) []string {
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
