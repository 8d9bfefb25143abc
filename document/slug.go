package document

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Used when a title contains nothing that survives slugification.
const fallback_slug string = "untitled"

var re_separators = regexp.MustCompile(`[^a-z0-9]+`)

// type Slugger generates lowercase, hyphenated slugs that are unique across every call made on the same instance.
type Slugger struct {
	seen map[string]bool
}

func NewSlugger() *Slugger {

	s := &Slugger{
		seen: make(map[string]bool),
	}

	return s
}

// Slug returns a URL-safe slug for 'text'. If the slug has already been issued by 's'
// a numeric suffix ("-1", "-2", ...) is appended until the result is unique.
func (s *Slugger) Slug(text string) string {

	base := Slugify(text)
	slug := base

	for i := 1; s.seen[slug]; i++ {
		slug = base + "-" + strconv.Itoa(i)
	}

	s.seen[slug] = true
	return slug
}

// Slugify returns the (non-unique) slug for 'text'.
func Slugify(text string) string {

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)

	if err != nil {
		folded = text
	}

	folded = strings.ToLower(folded)
	slug := strings.Trim(re_separators.ReplaceAllString(folded, "-"), "-")

	if slug == "" {
		return fallback_slug
	}

	return slug
}
