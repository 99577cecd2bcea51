package provider

import (
    "context"
    "time"
)

// Quote is the normalized price record every price tier produces.
// A quote exists only when the upstream returned a numeric price;
// the remaining fields default to zero.
type Quote struct {
    Symbol        string  `json:"-"`
    Price         float64 `json:"price"`
    ChangePercent float64 `json:"chg"`
    Volume        int64   `json:"vol"`
    AverageVolume int64   `json:"avgVol"`
    Source        string  `json:"src"`
}

// QuoteDetail is a supplementary record from a detail endpoint, used to
// overwrite change/volume/price on an already resolved quote.
type QuoteDetail struct {
    Symbol        string
    Close         float64
    ChangePercent float64
    Volume        int64
    AverageVolume int64
}

// EarningsRow is one entry of an earnings calendar. Optional fields are
// passed through as the upstream sent them: a string or null.
type EarningsRow struct {
    Symbol              string  `json:"symbol"`
    Name                *string `json:"name"`
    EPSForecast         *string `json:"epsForecast"`
    LastYearEPS         *string `json:"lastYearEPS"`
    LastYearReportDate  *string `json:"lastYearReportDate"`
    FiscalQuarterEnding *string `json:"fiscalQuarterEnding"`
    EstimateCount       *string `json:"estimateCount"`
    MarketCap           *string `json:"marketCap"`
    AnnouncementTime    *string `json:"announcementTime"`
}

// NewsItem is one headline extracted from a feed.
type NewsItem struct {
    Title       string    `json:"title"`
    Description string    `json:"desc"`
    Link        string    `json:"link"`
    Source      string    `json:"source"`
    PublishedAt time.Time `json:"publishedAt,omitzero"`
}

// QuoteProvider is one price tier.
type QuoteProvider interface {
    Name() string
    // BatchCap is the most symbols a single Fetch accepts; <= 0 means unlimited.
    BatchCap() int
    Fetch(ctx context.Context, symbols []string) ([]Quote, error)
}

// Enricher is implemented by tiers that can follow a successful price call
// with a detail call for a subset of the symbols they resolved.
type Enricher interface {
    EnrichCap() int
    Enrich(ctx context.Context, symbols []string) ([]QuoteDetail, error)
}

// EarningsProvider fetches the earnings calendar for one ISO date.
type EarningsProvider interface {
    Name() string
    Fetch(ctx context.Context, date string) ([]EarningsRow, error)
}

// FeedProvider fetches one news feed.
type FeedProvider interface {
    Name() string
    Fetch(ctx context.Context) ([]NewsItem, error)
}

// Head returns at most n leading symbols; n <= 0 means all of them.
func Head(symbols []string, n int) []string {
    if n > 0 && len(symbols) > n { return symbols[:n] }
    return symbols
}
