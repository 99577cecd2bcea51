package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"marketproxy/internal/normalize"
	"marketproxy/internal/provider"
)

func TestDetectShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want normalize.Shape
	}{
		{"single price", `{"price":"189.91"}`, normalize.ShapeSingle},
		{"single quote", `{"symbol":"AAPL","close":"189.91"}`, normalize.ShapeSingle},
		{"keyed", `{"AAPL":{"price":"1"},"MSFT":{"price":"2"}}`, normalize.ShapeKeyed},
		{"yahoo results", `{"quoteResponse":{"result":[]}}`, normalize.ShapeResults},
		{"spark results", `{"spark":{"result":[]}}`, normalize.ShapeResults},
		{"error envelope", `{"code":401,"message":"bad key","status":"error"}`, normalize.ShapeUnknown},
		{"empty object", `{}`, normalize.ShapeUnknown},
		{"array", `[1,2]`, normalize.ShapeUnknown},
		{"garbage", `<html>`, normalize.ShapeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalize.DetectShape([]byte(tt.body)), "shape %s", normalize.DetectShape([]byte(tt.body)))
		})
	}
}

func TestTwelveDataPrices_SingleObject(t *testing.T) {
	t.Parallel()

	got := normalize.TwelveDataPrices([]string{"AAPL"}, []byte(`{"price":"189.91000"}`))
	require.Equal(t, []provider.Quote{{Symbol: "AAPL", Price: 189.91, Source: "TD"}}, got)

	// Assert: a single object cannot be attributed when several symbols were asked for.
	require.Empty(t, normalize.TwelveDataPrices([]string{"AAPL", "MSFT"}, []byte(`{"price":"189.91"}`)))
}

func TestTwelveDataPrices_KeyedSkipsErrors(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"MSFT": {"price": "415.50"},
		"AAPL": {"price": 189.5},
		"ZZZZ": {"code": 400, "message": "symbol not found", "status": "error"},
		"NOPE": {"price": ""},
		"BAD": "string"
	}`)
	got := normalize.TwelveDataPrices([]string{"AAPL", "MSFT", "ZZZZ", "NOPE", "BAD"}, body)
	require.Equal(t, []provider.Quote{
		{Symbol: "AAPL", Price: 189.5, Source: "TD"},
		{Symbol: "MSFT", Price: 415.5, Source: "TD"},
	}, got)
}

func TestTwelveDataQuotes(t *testing.T) {
	t.Parallel()

	single := normalize.TwelveDataQuotes([]byte(`{"symbol":"AAPL","close":"190.10","percent_change":"1.25","volume":"51234567","average_volume":"60000000"}`))
	require.Equal(t, []provider.QuoteDetail{{Symbol: "AAPL", Close: 190.10, ChangePercent: 1.25, Volume: 51234567, AverageVolume: 60000000}}, single)

	keyed := normalize.TwelveDataQuotes([]byte(`{
		"AAPL": {"symbol":"AAPL","close":"190.10","percent_change":"-0.5"},
		"MSFT": {"code":404,"message":"missing"}
	}`))
	require.Equal(t, []provider.QuoteDetail{{Symbol: "AAPL", Close: 190.10, ChangePercent: -0.5}}, keyed)
}

func TestYahooQuotes_RoundsAndDefaults(t *testing.T) {
	t.Parallel()

	body := []byte(`{"quoteResponse":{"result":[
		{"symbol":"AAPL","regularMarketPrice":189.98765,"regularMarketChangePercent":1.23456,"regularMarketVolume":1000,"averageDailyVolume3Month":2000},
		{"symbol":"MSFT","regularMarketPrice":415.1},
		{"symbol":"NOPX"},
		"not-an-object"
	],"error":null}}`)
	got := normalize.YahooQuotes(body)
	require.Equal(t, []provider.Quote{
		{Symbol: "AAPL", Price: 189.99, ChangePercent: 1.23, Volume: 1000, AverageVolume: 2000, Source: "YF"},
		{Symbol: "MSFT", Price: 415.1, Source: "YF"},
	}, got)
}

func TestYahooSpark(t *testing.T) {
	t.Parallel()

	body := []byte(`{"spark":{"result":[
		{"symbol":"AAPL","response":[{"meta":{"regularMarketPrice":189.9876,"regularMarketVolume":42}}]},
		{"symbol":"MSFT","response":[]},
		{"symbol":"TSLA","response":[{"meta":{}}]}
	],"error":null}}`)
	got := normalize.YahooSpark(body)
	require.Equal(t, []provider.Quote{{Symbol: "AAPL", Price: 189.9876, Volume: 42, Source: "YF-RT"}}, got)
}

func TestQuotes_Dispatch(t *testing.T) {
	t.Parallel()

	require.Len(t, normalize.Quotes("TD", []string{"AAPL"}, []byte(`{"price":"1"}`)), 1)
	require.Nil(t, normalize.Quotes("??", []string{"AAPL"}, []byte(`{"price":"1"}`)))
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	keyed := []byte(`{"C":{"price":"3"},"A":{"price":"1"},"B":{"price":"2"},"D":{"code":1}}`)
	require.Equal(t, normalize.TwelveDataPrices([]string{"A", "B", "C", "D"}, keyed), normalize.TwelveDataPrices([]string{"A", "B", "C", "D"}, keyed))

	yf := []byte(`{"quoteResponse":{"result":[{"symbol":"A","regularMarketPrice":1.005}]}}`)
	require.Equal(t, normalize.YahooQuotes(yf), normalize.YahooQuotes(yf))
}

func TestNormalize_TotalOnGarbage(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "null", "[]", "{", `{"quoteResponse":"x"}`, `{"spark":{"result":"x"}}`, `{"data":7}`} {
		require.NotPanics(t, func() {
			normalize.TwelveDataPrices([]string{"A"}, []byte(body))
			normalize.TwelveDataQuotes([]byte(body))
			normalize.YahooQuotes([]byte(body))
			normalize.YahooSpark([]byte(body))
			normalize.EarningsRows([]byte(body))
		}, "body %q", body)
	}
}
