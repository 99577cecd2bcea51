package pipeline

import (
    "context"

    "marketproxy/internal/provider"
)

// Earnings fetches an earnings calendar from a single provider, once.
type Earnings struct {
    provider provider.EarningsProvider
    settings
}

func NewEarnings(p provider.EarningsProvider, options ...Option) *Earnings {
    return &Earnings{provider: p, settings: newSettings(options)}
}

// Fetch returns the calendar for date. A provider failure yields ok=false
// with the error message; an empty calendar is still ok.
func (e *Earnings) Fetch(ctx context.Context, date string) EarningsEnvelope {
    env := EarningsEnvelope{Date: date, Rows: []provider.EarningsRow{}}
    rows, err := e.provider.Fetch(ctx, date)
    env.FetchedAt = FetchedAt(e.now())
    if err != nil {
        e.logger.Warn("earnings fetch failed", "provider", e.provider.Name(), "date", date, "error", err)
        env.Error = err.Error()
        return env
    }
    if rows != nil { env.Rows = rows }
    env.OK = true
    env.Count = len(env.Rows)
    return env
}
