package normalize

import (
	"encoding/json"
	"regexp"

	"marketproxy/internal/provider"
)

var nonSymbolChars = regexp.MustCompile(`[^A-Za-z0-9.]`)

// CleanEarningsSymbol strips everything but letters, digits and periods.
func CleanEarningsSymbol(s string) string {
	return nonSymbolChars.ReplaceAllString(s, "")
}

// EarningsRows reads a Nasdaq calendar response (data.rows[]). Rows whose
// symbol is empty after cleaning are discarded; other fields pass through
// as the upstream string or null.
func EarningsRows(body []byte) []provider.EarningsRow {
	p := decode(body)
	if p.shape != ShapeResults {
		return nil
	}
	var data struct {
		Rows []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(p.fields["data"], &data); err != nil {
		return nil
	}
	out := make([]provider.EarningsRow, 0, len(data.Rows))
	for _, rowRaw := range data.Rows {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(rowRaw, &raw); err != nil {
			continue
		}
		sym := rawString(raw["symbol"])
		if sym == nil {
			continue
		}
		clean := CleanEarningsSymbol(*sym)
		if clean == "" {
			continue
		}
		out = append(out, provider.EarningsRow{
			Symbol:              clean,
			Name:                rawString(raw["name"]),
			EPSForecast:         rawString(raw["epsForecast"]),
			LastYearEPS:         rawString(raw["lastYearEPS"]),
			LastYearReportDate:  rawString(raw["lastYearRptDt"]),
			FiscalQuarterEnding: rawString(raw["fiscalQuarterEnding"]),
			EstimateCount:       rawString(raw["noOfEsts"]),
			MarketCap:           rawString(raw["marketCap"]),
			AnnouncementTime:    rawString(raw["time"]),
		})
	}
	return out
}

// rawString returns a JSON string value as-is, null or a missing key as nil,
// and any other scalar as its literal text.
func rawString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	lit := string(raw)
	return &lit
}
