package nasdaq

import (
    "context"
    "time"

    "marketproxy/internal/normalize"
    "marketproxy/internal/provider"
)

const defaultURL = "https://api.nasdaq.com/api/calendar/earnings?date={date}"

// Config controls the Nasdaq earnings calendar provider.
type Config struct {
    Name    string
    URL     string
    Timeout time.Duration
    Headers map[string]string // merged over the browser-like defaults
}

// Provider fetches one day of the Nasdaq earnings calendar.
type Provider struct {
    cfg    Config
    client *provider.Client
    spec   provider.Spec
}

func New(cfg Config, client *provider.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "Nasdaq" }
    if cfg.URL == "" { cfg.URL = defaultURL }
    if cfg.Timeout <= 0 { cfg.Timeout = 10 * time.Second }
    // Nasdaq rejects requests that do not look like they come from its own site.
    headers := map[string]string{
        "User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
        "Accept":          "application/json, text/plain, */*",
        "Accept-Language": "en-US,en;q=0.9",
        "Referer":         "https://www.nasdaq.com/",
        "Origin":          "https://www.nasdaq.com",
    }
    for k, v := range cfg.Headers { headers[k] = v }
    return &Provider{
        cfg:    cfg,
        client: client,
        spec: provider.Spec{
            Name:     cfg.Name,
            Endpoint: cfg.URL,
            Timeout:  cfg.Timeout,
            Headers:  headers,
        },
    }
}

func (p *Provider) Name() string { return p.cfg.Name }

// Fetch returns the calendar rows for date (YYYY-MM-DD).
func (p *Provider) Fetch(ctx context.Context, date string) ([]provider.EarningsRow, error) {
    body, err := p.client.FetchJSON(ctx, p.spec, map[string]string{"date": date})
    if err != nil { return nil, err }
    return normalize.EarningsRows(body), nil
}
