package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"marketproxy/internal/normalize"
)

const nasdaqCalendar = `{
  "data": {
    "asOf": "Thu, Oct 17, 2024",
    "headers": {"symbol": "Symbol"},
    "rows": [
      {"lastYearRptDt": "10/19/2023", "lastYearEPS": "$1.06", "time": "time-after-hours", "symbol": "NFLX", "name": "Netflix, Inc.", "marketCap": "$295,406,540,000", "fiscalQuarterEnding": "Sep/2024", "epsForecast": "$5.12", "noOfEsts": "11"},
      {"symbol": " brk/b* ", "name": "Berkshire", "epsForecast": null, "lastYearEPS": null, "noOfEsts": 3},
      {"symbol": "***", "name": "Garbage Row"},
      {"name": "No Symbol"},
      "not-a-row"
    ]
  },
  "message": null,
  "status": {"rCode": 200}
}`

func TestEarningsRows(t *testing.T) {
	t.Parallel()

	rows := normalize.EarningsRows([]byte(nasdaqCalendar))
	require.Len(t, rows, 2)

	nflx := rows[0]
	require.Equal(t, "NFLX", nflx.Symbol)
	require.Equal(t, "Netflix, Inc.", *nflx.Name)
	require.Equal(t, "$5.12", *nflx.EPSForecast)
	require.Equal(t, "$1.06", *nflx.LastYearEPS)
	require.Equal(t, "10/19/2023", *nflx.LastYearReportDate)
	require.Equal(t, "Sep/2024", *nflx.FiscalQuarterEnding)
	require.Equal(t, "11", *nflx.EstimateCount)
	require.Equal(t, "time-after-hours", *nflx.AnnouncementTime)

	brk := rows[1]
	require.Equal(t, "brkb", brk.Symbol)
	require.Nil(t, brk.EPSForecast)
	require.Nil(t, brk.LastYearEPS)
	require.Nil(t, brk.AnnouncementTime)
	require.Equal(t, "3", *brk.EstimateCount, "non-string scalars pass through as their literal text")
}

func TestEarningsRows_NullRows(t *testing.T) {
	t.Parallel()

	require.Empty(t, normalize.EarningsRows([]byte(`{"data":{"rows":null},"status":{"rCode":200}}`)))
	require.Empty(t, normalize.EarningsRows([]byte(`{"data":null}`)))
}

func TestCleanEarningsSymbol(t *testing.T) {
	t.Parallel()

	require.Equal(t, "BRK.B", normalize.CleanEarningsSymbol(" BRK.B "))
	require.Equal(t, "", normalize.CleanEarningsSymbol("$-"))
}
