package rss

import (
    "context"
    "time"

    "marketproxy/internal/normalize"
    "marketproxy/internal/provider"
)

// UserAgent identifies the proxy to feed hosts.
const UserAgent = "Mozilla/5.0 (compatible; SentinelBot/1.0)"

// Feed is one configured news source.
type Feed struct {
    Name string `json:"name" yaml:"name"`
    URL  string `json:"url" yaml:"url"`
}

// DefaultFeeds is the built-in feed list, in priority order for dedup.
var DefaultFeeds = []Feed{
    {Name: "Reuters", URL: "https://feeds.reuters.com/reuters/businessNews"},
    {Name: "Reuters Tech", URL: "https://feeds.reuters.com/reuters/technologyNews"},
    {Name: "Reuters Corp", URL: "https://feeds.reuters.com/reuters/companyNews"},
    {Name: "CNBC", URL: "https://www.cnbc.com/id/19854910/device/rss/rss.html"},
    {Name: "WSJ", URL: "https://feeds.a.dj.com/rss/RSSWSJD.xml"},
    {Name: "FT", URL: "https://www.ft.com/technology?format=rss"},
    {Name: "MarketWatch", URL: "https://www.marketwatch.com/rss/topstories"},
    {Name: "Bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss"},
    {Name: "TechCrunch", URL: "https://techcrunch.com/category/enterprise/feed/"},
}

// Provider fetches and normalizes a single feed.
type Provider struct {
    feed   Feed
    client *provider.Client
    spec   provider.Spec
}

func New(feed Feed, timeout time.Duration, client *provider.Client) *Provider {
    if timeout <= 0 { timeout = 8 * time.Second }
    return &Provider{
        feed:   feed,
        client: client,
        spec: provider.Spec{
            Name:     feed.Name,
            Endpoint: feed.URL,
            Timeout:  timeout,
            Headers:  map[string]string{"User-Agent": UserAgent},
        },
    }
}

// NewAll builds one provider per feed, keeping feed order.
func NewAll(feeds []Feed, timeout time.Duration, client *provider.Client) []provider.FeedProvider {
    out := make([]provider.FeedProvider, 0, len(feeds))
    for _, f := range feeds { out = append(out, New(f, timeout, client)) }
    return out
}

func (p *Provider) Name() string { return p.feed.Name }

func (p *Provider) Fetch(ctx context.Context) ([]provider.NewsItem, error) {
    body, err := p.client.Fetch(ctx, p.spec, nil)
    if err != nil { return nil, err }
    return normalize.Feed(body, p.feed.Name), nil
}
