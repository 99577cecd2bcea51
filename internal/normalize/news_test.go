package normalize_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"marketproxy/internal/normalize"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <title>Markets Channel Title That Is Long</title>
  <link>https://example.com/channel</link>
  <item>
    <title><![CDATA[Fed holds rates steady &amp; signals patience]]></title>
    <link>https://example.com/fed</link>
    <description><![CDATA[<p>The central bank&#39;s decision&nbsp;was <b>widely</b> expected.</p>]]></description>
    <pubDate>Tue, 15 Oct 2024 14:30:00 +0000</pubDate>
  </item>
  <item>
    <title>Short</title>
    <link>https://example.com/short</link>
  </item>
  <item>
    <title>Chipmakers rally on strong AI demand outlook</title>
    <guid isPermaLink="false">tag-123</guid>
    <description>See https://example.com/chips for more</description>
    <dc:date>2024-10-15T16:00:00Z</dc:date>
  </item>
  <item>
    <title>Oil slides as inventories build for third week</title>
    <pubDate>not a date</pubDate>
  </item>
</channel>
</rss>`

func TestFeed_RSS(t *testing.T) {
	t.Parallel()

	items := normalize.Feed([]byte(rssDoc), "Reuters")
	require.Len(t, items, 3)

	require.Equal(t, "Fed holds rates steady & signals patience", items[0].Title)
	require.Equal(t, "https://example.com/fed", items[0].Link)
	require.Equal(t, "The central bank's decision was widely expected.", items[0].Description)
	require.Equal(t, "Reuters", items[0].Source)
	require.Equal(t, time.Date(2024, 10, 15, 14, 30, 0, 0, time.UTC), items[0].PublishedAt)

	// Assert: guid is not a URL, so the first URL in the block wins.
	require.Equal(t, "https://example.com/chips", items[1].Link)
	require.Equal(t, time.Date(2024, 10, 15, 16, 0, 0, 0, time.UTC), items[1].PublishedAt)

	require.Equal(t, "#", items[2].Link)
	require.True(t, items[2].PublishedAt.IsZero())
}

const atomDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title type="html">Treasury yields climb after jobs report &#8212; analysis</title>
    <link rel="alternate" href="https://example.com/yields?a=1&amp;b=2"/>
    <id>urn:uuid:1</id>
    <published>2024-10-14T09:00:00-04:00</published>
    <summary>Yields rose sharply.</summary>
  </entry>
</feed>`

func TestFeed_Atom(t *testing.T) {
	t.Parallel()

	items := normalize.Feed([]byte(atomDoc), "FT")
	require.Len(t, items, 1)
	require.Equal(t, "Treasury yields climb after jobs report — analysis", items[0].Title)
	require.Equal(t, "https://example.com/yields?a=1&b=2", items[0].Link)
	require.Equal(t, "Yields rose sharply.", items[0].Description)
	require.Equal(t, time.Date(2024, 10, 14, 13, 0, 0, 0, time.UTC), items[0].PublishedAt)
}

func TestFeed_MalformedXMLStillYieldsItems(t *testing.T) {
	t.Parallel()

	// Missing closing tags and an unescaped ampersand.
	doc := `<rss><channel><item><title>Banks & brokers report record trading revenue</title><link>https://example.com/banks</link>`
	items := normalize.Feed([]byte(doc), "WSJ")
	require.Len(t, items, 1)
	require.Equal(t, "Banks & brokers report record trading revenue", items[0].Title)
	require.Equal(t, "https://example.com/banks", items[0].Link)
}

func TestFeed_JSONFeed(t *testing.T) {
	t.Parallel()

	doc := `{"version":"https://jsonfeed.org/version/1.1","title":"JSON","items":[
		{"id":"1","url":"https://example.com/json-item","title":"Retail sales beat forecasts in September","content_text":"Strong consumer.","date_published":"2024-10-17T12:30:00Z"}
	]}`
	items := normalize.Feed([]byte(doc), "JSON")
	require.Len(t, items, 1)
	require.Equal(t, "Retail sales beat forecasts in September", items[0].Title)
	require.Equal(t, "https://example.com/json-item", items[0].Link)
	require.Equal(t, time.Date(2024, 10, 17, 12, 30, 0, 0, time.UTC), items[0].PublishedAt)
}

func TestFeed_CapsItemsPerFeed(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(`<rss><channel>`)
	for i := range 40 {
		fmt.Fprintf(&b, `<item><title>Headline number %02d about markets</title><link>https://example.com/%d</link></item>`, i, i)
	}
	b.WriteString(`</channel></rss>`)

	items := normalize.Feed([]byte(b.String()), "CNBC")
	require.Len(t, items, normalize.MaxItemsPerFeed)
	require.Equal(t, "Headline number 00 about markets", items[0].Title)
}

func TestFeed_TruncatesDescription(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 500)
	doc := `<rss><channel><item><title>Long description headline here</title><description>` + long + `</description></item></channel></rss>`
	items := normalize.Feed([]byte(doc), "X")
	require.Len(t, items, 1)
	require.Equal(t, strings.Repeat("é", normalize.MaxDescriptionRunes), items[0].Description)
}

func TestFeed_Idempotent(t *testing.T) {
	t.Parallel()

	require.Equal(t, normalize.Feed([]byte(rssDoc), "R"), normalize.Feed([]byte(rssDoc), "R"))
}

func TestFeed_NotAFeed(t *testing.T) {
	t.Parallel()

	require.Empty(t, normalize.Feed([]byte(`<html><body>Access denied</body></html>`), "X"))
	require.Empty(t, normalize.Feed(nil, "X"))
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"a &amp; b":                  "a & b",
		"&lt;i&gt;x&lt;/i&gt;":       "<i>x</i>",
		"EPS &lt; est, rev &gt; fcst": "EPS < est, rev > fcst",
		"&quot;q&quot; &#39;s&#39;":  `"q" 's'`,
		"one&nbsp;two":               "one two",
		"&#8220;smart&#x201D;":       "“smart”",
		"  spaced \n\t out  ":        "spaced out",
		"<![CDATA[<b>bold</b>]]>":    "bold",
	}
	for in, want := range tests {
		require.Equal(t, want, normalize.CleanText(in), "input %q", in)
	}
}

func TestFeed_KeepsDecodedComparisons(t *testing.T) {
	t.Parallel()

	doc := `<rss><channel><item><title>Rates &lt;5% but yields &gt;4% says Fed</title><link>https://example.com/rates</link></item></channel></rss>`
	items := normalize.Feed([]byte(doc), "Reuters")
	require.Len(t, items, 1)
	require.Equal(t, "Rates <5% but yields >4% says Fed", items[0].Title)
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	require.Equal(t, time.Date(2024, 10, 15, 14, 30, 0, 0, time.UTC), normalize.ParseTime("Tue, 15 Oct 2024 10:30:00 -0400"))
	require.Equal(t, time.Date(2024, 10, 15, 14, 30, 0, 0, time.UTC), normalize.ParseTime("2024-10-15T14:30:00Z"))
	require.True(t, normalize.ParseTime("yesterday").IsZero())
	require.True(t, normalize.ParseTime("").IsZero())
}
