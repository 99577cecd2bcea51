package aggregate

import (
    "marketproxy/internal/provider"
)

// MergeQuotes adds quotes to dst keyed by symbol. A symbol already present
// is never overwritten: earlier (higher priority) tiers win. When wanted is
// non-nil, quotes for symbols outside it are ignored.
// It returns the symbols newly added, in input order.
func MergeQuotes(dst map[string]provider.Quote, quotes []provider.Quote, wanted map[string]struct{}) []string {
    var added []string
    for _, q := range quotes {
        if q.Symbol == "" { continue }
        if wanted != nil {
            if _, ok := wanted[q.Symbol]; !ok { continue }
        }
        if _, exists := dst[q.Symbol]; exists { continue }
        dst[q.Symbol] = q
        added = append(added, q.Symbol)
    }
    return added
}

// ApplyDetails overwrites price, change and volume fields of quotes already
// in dst with detail records. Details for symbols not in dst are ignored,
// so enrichment can never resolve a symbol on its own.
func ApplyDetails(dst map[string]provider.Quote, details []provider.QuoteDetail) int {
    n := 0
    for _, d := range details {
        q, ok := dst[d.Symbol]
        if !ok { continue }
        q.Price = d.Close
        q.ChangePercent = d.ChangePercent
        q.Volume = d.Volume
        if d.AverageVolume > 0 { q.AverageVolume = d.AverageVolume }
        dst[d.Symbol] = q
        n++
    }
    return n
}

// Unresolved returns the symbols not yet present in resolved, preserving order.
func Unresolved(symbols []string, resolved map[string]provider.Quote) []string {
    out := make([]string, 0, len(symbols))
    for _, s := range symbols {
        if _, ok := resolved[s]; !ok { out = append(out, s) }
    }
    return out
}
