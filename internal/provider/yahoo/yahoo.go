package yahoo

import (
    "context"
    "strings"
    "time"

    "marketproxy/internal/normalize"
    "marketproxy/internal/provider"
)

const (
    defaultSparkURL = "https://query1.finance.yahoo.com/v8/finance/spark?symbols={symbols}&range=1d&interval=1m"
    defaultQuoteURL = "https://query2.finance.yahoo.com/v7/finance/quote?symbols={symbols}" +
        "&fields=regularMarketPrice,regularMarketChangePercent,regularMarketVolume,averageDailyVolume3Month"

    sparkUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
    quoteUserAgent = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

// Endpoint selects which Yahoo Finance API a tier calls.
type Endpoint int

const (
    // Spark is the v8 spark chart endpoint, tagged YF-RT.
    Spark Endpoint = iota
    // Quote is the v7 quote endpoint, tagged YF.
    Quote
)

// Config controls one Yahoo Finance tier.
type Config struct {
    Name      string
    Endpoint  Endpoint
    URL       string
    Timeout   time.Duration
    BatchCap  int
    UserAgent string
}

// Provider is a keyless Yahoo Finance price tier.
type Provider struct {
    cfg    Config
    client *provider.Client
    spec   provider.Spec
}

func New(cfg Config, client *provider.Client) *Provider {
    switch cfg.Endpoint {
    case Spark:
        if cfg.Name == "" { cfg.Name = "YahooSpark" }
        if cfg.URL == "" { cfg.URL = defaultSparkURL }
        if cfg.Timeout <= 0 { cfg.Timeout = 8 * time.Second }
        if cfg.UserAgent == "" { cfg.UserAgent = sparkUserAgent }
    default:
        cfg.Endpoint = Quote
        if cfg.Name == "" { cfg.Name = "YahooQuote" }
        if cfg.URL == "" { cfg.URL = defaultQuoteURL }
        if cfg.Timeout <= 0 { cfg.Timeout = 6 * time.Second }
        if cfg.BatchCap <= 0 { cfg.BatchCap = 10 }
        if cfg.UserAgent == "" { cfg.UserAgent = quoteUserAgent }
    }
    source := normalize.SourceYahooQuote
    if cfg.Endpoint == Spark { source = normalize.SourceYahooSpark }
    return &Provider{
        cfg:    cfg,
        client: client,
        spec: provider.Spec{
            Name:     cfg.Name,
            Endpoint: cfg.URL,
            Timeout:  cfg.Timeout,
            BatchCap: cfg.BatchCap,
            Headers: map[string]string{
                "User-Agent": cfg.UserAgent,
                "Accept":     "application/json",
            },
            Source: source,
        },
    }
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) BatchCap() int { return p.spec.BatchCap }

func (p *Provider) Fetch(ctx context.Context, symbols []string) ([]provider.Quote, error) {
    symbols = provider.Head(symbols, p.spec.BatchCap)
    body, err := p.client.FetchJSON(ctx, p.spec, map[string]string{"symbols": strings.Join(symbols, ",")})
    if err != nil { return nil, err }
    return normalize.Quotes(p.spec.Source, symbols, body), nil
}
