package normalize

import (
	"encoding/json"
	"sort"

	"marketproxy/internal/provider"
)

// Source tags stamped on quotes.
const (
	SourceTwelveData = "TD"
	SourceYahooSpark = "YF-RT"
	SourceYahooQuote = "YF"
)

// Quotes dispatches body to the normalizer for the given source tag.
// requested is only consulted for payloads that omit the symbol.
func Quotes(source string, requested []string, body []byte) []provider.Quote {
	switch source {
	case SourceTwelveData:
		return TwelveDataPrices(requested, body)
	case SourceYahooSpark:
		return YahooSpark(body)
	case SourceYahooQuote:
		return YahooQuotes(body)
	default:
		return nil
	}
}

type tdPrice struct {
	Price num `json:"price"`
	Code  num `json:"code"`
}

// TwelveDataPrices reads a /price response. A single requested symbol comes
// back as {"price": "1.23"}; several come back keyed by symbol, with failed
// symbols carrying an error code instead of a price.
func TwelveDataPrices(requested []string, body []byte) []provider.Quote {
	p := decode(body)
	switch p.shape {
	case ShapeSingle:
		if len(requested) != 1 {
			return nil
		}
		var v tdPrice
		if err := json.Unmarshal(body, &v); err != nil || !v.Price.ok {
			return nil
		}
		return []provider.Quote{{Symbol: requested[0], Price: v.Price.float(), Source: SourceTwelveData}}
	case ShapeKeyed:
		out := make([]provider.Quote, 0, len(p.fields))
		for _, sym := range sortedKeys(p.fields) {
			var v tdPrice
			if err := json.Unmarshal(p.fields[sym], &v); err != nil {
				continue
			}
			if !v.Price.ok || v.Code.ok {
				continue
			}
			out = append(out, provider.Quote{Symbol: sym, Price: v.Price.float(), Source: SourceTwelveData})
		}
		return out
	default:
		return nil
	}
}

type tdQuote struct {
	Symbol        string `json:"symbol"`
	Close         num    `json:"close"`
	PercentChange num    `json:"percent_change"`
	Volume        num    `json:"volume"`
	AverageVolume num    `json:"average_volume"`
}

func (q tdQuote) detail(sym string) (provider.QuoteDetail, bool) {
	if !q.Close.ok || sym == "" {
		return provider.QuoteDetail{}, false
	}
	return provider.QuoteDetail{
		Symbol:        sym,
		Close:         q.Close.float(),
		ChangePercent: q.PercentChange.float(),
		Volume:        q.Volume.int(),
		AverageVolume: q.AverageVolume.int(),
	}, true
}

// TwelveDataQuotes reads a /quote response: one object when a single symbol
// was requested, otherwise keyed by symbol. Records without a close are dropped.
func TwelveDataQuotes(body []byte) []provider.QuoteDetail {
	p := decode(body)
	switch p.shape {
	case ShapeSingle:
		var q tdQuote
		if err := json.Unmarshal(body, &q); err != nil {
			return nil
		}
		if d, ok := q.detail(q.Symbol); ok {
			return []provider.QuoteDetail{d}
		}
		return nil
	case ShapeKeyed:
		out := make([]provider.QuoteDetail, 0, len(p.fields))
		for _, sym := range sortedKeys(p.fields) {
			var q tdQuote
			if err := json.Unmarshal(p.fields[sym], &q); err != nil {
				continue
			}
			if d, ok := q.detail(sym); ok {
				out = append(out, d)
			}
		}
		return out
	default:
		return nil
	}
}

type yahooMeta struct {
	RegularMarketPrice         num `json:"regularMarketPrice"`
	RegularMarketChangePercent num `json:"regularMarketChangePercent"`
	RegularMarketVolume        num `json:"regularMarketVolume"`
	AverageDailyVolume3Month   num `json:"averageDailyVolume3Month"`
}

// YahooSpark reads a v8 spark response (spark.result[].response[0].meta).
func YahooSpark(body []byte) []provider.Quote {
	p := decode(body)
	if p.shape != ShapeResults {
		return nil
	}
	var container struct {
		Result []json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(p.fields["spark"], &container); err != nil {
		return nil
	}
	out := make([]provider.Quote, 0, len(container.Result))
	for _, raw := range container.Result {
		var item struct {
			Symbol   string `json:"symbol"`
			Response []struct {
				Meta yahooMeta `json:"meta"`
			} `json:"response"`
		}
		if err := json.Unmarshal(raw, &item); err != nil || item.Symbol == "" || len(item.Response) == 0 {
			continue
		}
		m := item.Response[0].Meta
		if !m.RegularMarketPrice.ok {
			continue
		}
		out = append(out, provider.Quote{
			Symbol:        item.Symbol,
			Price:         m.RegularMarketPrice.float(),
			ChangePercent: m.RegularMarketChangePercent.float(),
			Volume:        m.RegularMarketVolume.int(),
			AverageVolume: m.AverageDailyVolume3Month.int(),
			Source:        SourceYahooSpark,
		})
	}
	return out
}

// YahooQuotes reads a v7 quote response (quoteResponse.result[]). Price and
// change are rounded to two decimals.
func YahooQuotes(body []byte) []provider.Quote {
	p := decode(body)
	if p.shape != ShapeResults {
		return nil
	}
	var container struct {
		Result []json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(p.fields["quoteResponse"], &container); err != nil {
		return nil
	}
	out := make([]provider.Quote, 0, len(container.Result))
	for _, raw := range container.Result {
		var q struct {
			Symbol string `json:"symbol"`
			yahooMeta
		}
		if err := json.Unmarshal(raw, &q); err != nil || q.Symbol == "" || !q.RegularMarketPrice.ok {
			continue
		}
		out = append(out, provider.Quote{
			Symbol:        q.Symbol,
			Price:         q.RegularMarketPrice.round2(),
			ChangePercent: q.RegularMarketChangePercent.round2(),
			Volume:        q.RegularMarketVolume.int(),
			AverageVolume: q.AverageDailyVolume3Month.int(),
			Source:        SourceYahooQuote,
		})
	}
	return out
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
