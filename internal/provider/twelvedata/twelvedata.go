package twelvedata

import (
    "context"
    "strings"
    "time"

    "marketproxy/internal/normalize"
    "marketproxy/internal/provider"
)

const (
    defaultPriceURL = "https://api.twelvedata.com/price?symbol={symbols}&apikey={apikey}"
    defaultQuoteURL = "https://api.twelvedata.com/quote?symbol={symbols}&apikey={apikey}"
)

// Config controls the Twelve Data tier.
type Config struct {
    Name     string
    APIKey   string // required; the tier is skipped without it
    PriceURL string
    QuoteURL string
    Timeout  time.Duration
    // BatchCap is the most symbols sent to /price in one call.
    BatchCap int
    // EnrichCap is the most symbols sent to /quote in one call.
    EnrichCap int
}

// Provider is the first price tier: a batch /price call with an optional
// /quote follow-up for change and volume.
type Provider struct {
    cfg    Config
    client *provider.Client
    price  provider.Spec
    quote  provider.Spec
}

func New(cfg Config, client *provider.Client) *Provider {
    if cfg.Name == "" { cfg.Name = "TwelveData" }
    if cfg.PriceURL == "" { cfg.PriceURL = defaultPriceURL }
    if cfg.QuoteURL == "" { cfg.QuoteURL = defaultQuoteURL }
    if cfg.Timeout <= 0 { cfg.Timeout = 8 * time.Second }
    if cfg.BatchCap <= 0 { cfg.BatchCap = 120 }
    if cfg.EnrichCap <= 0 { cfg.EnrichCap = 8 }
    p := &Provider{cfg: cfg, client: client}
    p.price = provider.Spec{
        Name:              cfg.Name,
        Endpoint:          cfg.PriceURL,
        Credential:        cfg.APIKey,
        RequireCredential: true,
        Timeout:           cfg.Timeout,
        BatchCap:          cfg.BatchCap,
        Source:            normalize.SourceTwelveData,
    }
    p.quote = p.price
    p.quote.Name = cfg.Name + "/quote"
    p.quote.Endpoint = cfg.QuoteURL
    p.quote.BatchCap = cfg.EnrichCap
    return p
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) BatchCap() int { return p.price.BatchCap }

func (p *Provider) EnrichCap() int { return p.quote.BatchCap }

// Fetch prices up to BatchCap symbols in a single call.
func (p *Provider) Fetch(ctx context.Context, symbols []string) ([]provider.Quote, error) {
    symbols = provider.Head(symbols, p.price.BatchCap)
    body, err := p.client.FetchJSON(ctx, p.price, map[string]string{"symbols": strings.Join(symbols, ",")})
    if err != nil { return nil, err }
    return normalize.TwelveDataPrices(symbols, body), nil
}

// Enrich fetches close, change and volume details for up to EnrichCap symbols.
func (p *Provider) Enrich(ctx context.Context, symbols []string) ([]provider.QuoteDetail, error) {
    symbols = provider.Head(symbols, p.quote.BatchCap)
    if len(symbols) == 0 { return nil, nil }
    body, err := p.client.FetchJSON(ctx, p.quote, map[string]string{"symbols": strings.Join(symbols, ",")})
    if err != nil { return nil, err }
    return normalize.TwelveDataQuotes(body), nil
}
