package pipeline

import (
    "context"
    "errors"

    "marketproxy/internal/aggregate"
    "marketproxy/internal/provider"
)

// ErrNoPrices is reported when every tier left every symbol unresolved.
var ErrNoPrices = errors.New("no prices available from any provider")

// State is the progress of one price request through the tier list.
type State int

const (
    StatePending State = iota
    StatePartial
    StateResolved
    StateExhausted
)

func (s State) String() string {
    switch s {
    case StatePending:
        return "pending"
    case StatePartial:
        return "partial"
    case StateResolved:
        return "resolved"
    case StateExhausted:
        return "exhausted"
    default:
        return "unknown"
    }
}

// Prices resolves symbols against an ordered list of tiers. Earlier tiers
// have priority: a symbol resolved by one tier is never sent to, nor
// overwritten by, a later one.
type Prices struct {
    tiers []provider.QuoteProvider
    settings
}

func NewPrices(tiers []provider.QuoteProvider, options ...Option) *Prices {
    return &Prices{tiers: tiers, settings: newSettings(options)}
}

// Resolve runs the tier loop for symbols, which must already be parsed.
func (p *Prices) Resolve(ctx context.Context, symbols []string) PriceEnvelope {
    wanted := make(map[string]struct{}, len(symbols))
    for _, s := range symbols { wanted[s] = struct{}{} }
    resolved := make(map[string]provider.Quote, len(symbols))

    state := StatePending
    for _, tier := range p.tiers {
        remaining := aggregate.Unresolved(symbols, resolved)
        if len(remaining) == 0 { break }
        if err := ctx.Err(); err != nil {
            p.logger.Warn("price request abandoned", "error", err, "unresolved", len(remaining))
            break
        }
        batch := provider.Head(remaining, tier.BatchCap())
        quotes, err := tier.Fetch(ctx, batch)
        if err != nil {
            p.logTierError(tier.Name(), err)
            continue
        }
        added := aggregate.MergeQuotes(resolved, quotes, wanted)
        if e, ok := tier.(provider.Enricher); ok && len(added) > 0 {
            p.enrich(ctx, tier.Name(), e, resolved, added)
        }
        state = stateOf(len(resolved), len(symbols))
        p.logger.Debug("price tier done",
            "provider", tier.Name(),
            "requested", len(batch),
            "resolved", len(added),
            "state", state,
        )
    }
    if len(resolved) < len(symbols) {
        state = StateExhausted
    }

    env := PriceEnvelope{
        OK:        len(resolved) > 0,
        Prices:    resolved,
        Count:     len(resolved),
        FetchedAt: FetchedAt(p.now()),
    }
    switch {
    case !env.OK:
        env.Error = ErrNoPrices.Error()
        p.logger.Warn("price request failed", "symbols", len(symbols), "error", ErrNoPrices)
    case state == StateExhausted:
        p.logger.Info("price request partial", "unresolved", aggregate.Unresolved(symbols, resolved))
    }
    return env
}

// enrich is best effort: a failed detail call keeps the primary prices.
func (p *Prices) enrich(ctx context.Context, name string, e provider.Enricher, resolved map[string]provider.Quote, added []string) {
    details, err := e.Enrich(ctx, provider.Head(added, e.EnrichCap()))
    if err != nil {
        p.logTierError(name, err)
        return
    }
    n := aggregate.ApplyDetails(resolved, details)
    p.logger.Debug("price enrichment done", "provider", name, "enriched", n)
}

func (p *Prices) logTierError(name string, err error) {
    if provider.IsReason(err, provider.ReasonNoCredential) {
        p.logger.Debug("price tier skipped", "provider", name, "reason", provider.ReasonNoCredential)
        return
    }
    var pe *provider.Error
    if errors.As(err, &pe) {
        p.logger.Warn("price tier failed", "provider", name, "reason", pe.Reason, "status", pe.StatusCode, "error", err)
        return
    }
    p.logger.Warn("price tier failed", "provider", name, "error", err)
}

func stateOf(resolved, total int) State {
    switch {
    case resolved == 0:
        return StatePending
    case resolved < total:
        return StatePartial
    default:
        return StateResolved
    }
}
