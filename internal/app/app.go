// Package app wires configuration into ready-to-use pipelines. Both the
// server and the fetch command build their providers here.
package app

import (
    "log/slog"
    "time"

    "marketproxy/internal/config"
    "marketproxy/internal/httpx"
    "marketproxy/internal/pipeline"
    "marketproxy/internal/provider"
    "marketproxy/internal/provider/nasdaq"
    "marketproxy/internal/provider/rss"
    "marketproxy/internal/provider/twelvedata"
    "marketproxy/internal/provider/yahoo"
)

// App holds one pipeline per request type.
type App struct {
    Prices   *pipeline.Prices
    Earnings *pipeline.Earnings
    News     *pipeline.News
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// NewHTTPClient is the shared outbound client. Providers that need a
// specific Accept or language override these defaults per request.
func NewHTTPClient(cfg config.Config) *httpx.Client {
    c := httpx.New(seconds(cfg.Server.RequestTimeoutSec))
    c.Headers = map[string]string{
        "Accept":          "*/*",
        "Accept-Language": "en-US,en;q=0.9",
    }
    return c
}

// New builds the providers described by cfg on top of httpClient.
func New(cfg config.Config, httpClient provider.HTTPClient, logger *slog.Logger) *App {
    if logger == nil { logger = slog.Default() }
    if httpClient == nil { httpClient = NewHTTPClient(cfg) }
    client := provider.NewClient(httpClient, provider.WithLogger(logger))
    opts := []pipeline.Option{pipeline.WithLogger(logger), pipeline.WithMaxArticles(cfg.News.MaxArticles)}

    if cfg.TwelveData.APIKey == "" {
        logger.Warn("TWELVE_DATA_KEY not set; Twelve Data tier will be skipped")
    }
    tiers := []provider.QuoteProvider{
        twelvedata.New(twelvedata.Config{
            APIKey:    cfg.TwelveData.APIKey,
            PriceURL:  cfg.TwelveData.PriceURL,
            QuoteURL:  cfg.TwelveData.QuoteURL,
            Timeout:   seconds(cfg.TwelveData.TimeoutSec),
            BatchCap:  cfg.TwelveData.BatchCap,
            EnrichCap: cfg.TwelveData.EnrichCap,
        }, client),
    }
    if cfg.Yahoo.SparkEnabled {
        tiers = append(tiers, yahoo.New(yahoo.Config{
            Endpoint: yahoo.Spark,
            URL:      cfg.Yahoo.SparkURL,
            Timeout:  seconds(cfg.Yahoo.SparkTimeoutSec),
        }, client))
    }
    tiers = append(tiers, yahoo.New(yahoo.Config{
        Endpoint: yahoo.Quote,
        URL:      cfg.Yahoo.QuoteURL,
        Timeout:  seconds(cfg.Yahoo.QuoteTimeoutSec),
        BatchCap: cfg.Yahoo.QuoteBatchCap,
    }, client))

    earnings := nasdaq.New(nasdaq.Config{
        URL:     cfg.Earnings.URL,
        Timeout: seconds(cfg.Earnings.TimeoutSec),
    }, client)

    return &App{
        Prices:   pipeline.NewPrices(tiers, opts...),
        Earnings: pipeline.NewEarnings(earnings, opts...),
        News:     pipeline.NewNews(rss.NewAll(cfg.News.Feeds, seconds(cfg.News.TimeoutSec), client), opts...),
    }
}
