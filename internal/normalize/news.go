package normalize

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"marketproxy/internal/provider"
)

const (
	// MaxItemsPerFeed caps how many headlines one feed contributes.
	MaxItemsPerFeed = 15
	// MaxDescriptionRunes is the hard cut applied to descriptions.
	MaxDescriptionRunes = 200
	// MinTitleRunes is exclusive: titles must be longer than this.
	MinTitleRunes = 10
)

// Feed extracts headlines from an RSS, Atom or JSON Feed document.
// XML feeds are read with tag patterns rather than an XML parser, so
// truncated or otherwise malformed documents still yield what they can.
func Feed(body []byte, source string) []provider.NewsItem {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeJSON:
		return jsonFeed(body, source)
	case gofeed.FeedTypeAtom:
		return markupFeed(string(body), source, "entry")
	case gofeed.FeedTypeRSS:
		return markupFeed(string(body), source, "item")
	default:
		if items := markupFeed(string(body), source, "item"); len(items) > 0 {
			return items
		}
		return markupFeed(string(body), source, "entry")
	}
}

var (
	blockStart = map[string]*regexp.Regexp{
		"item":  regexp.MustCompile(`(?i)<item[\s>/]`),
		"entry": regexp.MustCompile(`(?i)<entry[\s>/]`),
	}
	blockEnd = map[string]*regexp.Regexp{
		"item":  regexp.MustCompile(`(?i)</item\s*>`),
		"entry": regexp.MustCompile(`(?i)</entry\s*>`),
	}
	fieldPatterns = map[string]*regexp.Regexp{}

	atomHref   = regexp.MustCompile(`(?is)<link\b[^>]*?\bhref\s*=\s*["']([^"']+)["']`)
	anyURL     = regexp.MustCompile(`https?://[^\s<"']+`)
	markupTags = regexp.MustCompile(`<[^>]+>`)
)

func init() {
	for _, tag := range []string{"title", "description", "summary", "content", "link", "guid", "id", "pubDate", "published", "updated", "dc:date"} {
		fieldPatterns[tag] = regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(tag) + `(?:\s[^>]*)?>(?:\s*<!\[CDATA\[)?(.*?)(?:\]\]>\s*)?</` + regexp.QuoteMeta(tag) + `\s*>`)
	}
}

// blocks splits doc into the markup between each <tag ...> and its close,
// tolerating a missing close tag on the final block.
func blocks(doc, tag string) []string {
	starts := blockStart[tag].FindAllStringIndex(doc, -1)
	out := make([]string, 0, len(starts))
	for i, st := range starts {
		end := len(doc)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := doc[st[1]-1 : end]
		if loc := blockEnd[tag].FindStringIndex(block); loc != nil {
			block = block[:loc[0]]
		}
		out = append(out, block)
	}
	return out
}

func field(block string, tags ...string) string {
	for _, tag := range tags {
		m := fieldPatterns[tag].FindStringSubmatch(block)
		if m == nil {
			continue
		}
		if v := CleanText(m[1]); v != "" {
			return v
		}
	}
	return ""
}

func markupFeed(doc, source, tag string) []provider.NewsItem {
	var out []provider.NewsItem
	for _, block := range blocks(doc, tag) {
		if len(out) >= MaxItemsPerFeed {
			break
		}
		title := field(block, "title")
		if utf8.RuneCountInString(title) <= MinTitleRunes {
			continue
		}
		link := field(block, "link")
		if link == "" {
			if m := atomHref.FindStringSubmatch(block); m != nil {
				link = html.UnescapeString(strings.TrimSpace(m[1]))
			}
		}
		if link == "" {
			link = field(block, "guid", "id")
		}
		out = append(out, provider.NewsItem{
			Title:       title,
			Description: Truncate(field(block, "description", "summary", "content"), MaxDescriptionRunes),
			Link:        fallbackLink(link, block),
			Source:      source,
			PublishedAt: ParseTime(field(block, "pubDate", "published", "updated", "dc:date")),
		})
	}
	return out
}

func jsonFeed(body []byte, source string) []provider.NewsItem {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var out []provider.NewsItem
	for _, it := range feed.Items {
		if len(out) >= MaxItemsPerFeed {
			break
		}
		title := CleanText(it.Title)
		if utf8.RuneCountInString(title) <= MinTitleRunes {
			continue
		}
		desc := it.Description
		if desc == "" {
			desc = it.Content
		}
		var published time.Time
		switch {
		case it.PublishedParsed != nil:
			published = it.PublishedParsed.UTC()
		case it.UpdatedParsed != nil:
			published = it.UpdatedParsed.UTC()
		}
		out = append(out, provider.NewsItem{
			Title:       title,
			Description: Truncate(CleanText(desc), MaxDescriptionRunes),
			Link:        fallbackLink(strings.TrimSpace(it.Link), it.Link+" "+it.GUID),
			Source:      source,
			PublishedAt: published,
		})
	}
	return out
}

func fallbackLink(link, block string) string {
	if strings.HasPrefix(link, "http") {
		return link
	}
	if m := anyURL.FindString(block); m != "" {
		return m
	}
	return "#"
}

// CleanText removes CDATA markers and markup, decodes HTML entities
// (named and numeric) and collapses whitespace.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "<![CDATA[", "")
	s = strings.ReplaceAll(s, "]]>", "")
	s = markupTags.ReplaceAllString(s, " ")
	// decoded < and > are text, not markup
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n runes without regard to word boundaries.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var timeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"02 Jan 2006 15:04:05 MST",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTime parses the date formats seen in feeds. Unparsable input
// yields the zero time, which sorts last.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
