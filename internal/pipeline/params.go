package pipeline

import (
    "regexp"
    "strings"
    "time"
)

const (
    // maxSymbolsParam caps the raw symbols parameter after cleaning.
    maxSymbolsParam = 200
    dateLayout      = "2006-01-02"
)

var (
    symbolsStrip = regexp.MustCompile(`[^A-Z,.\-]`)
    datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParamError rejects a request before any provider is contacted.
type ParamError struct {
    Param   string
    Message string
}

func (e *ParamError) Error() string { return e.Message }

// ParseSymbols turns the raw symbols parameter into an ordered, duplicate
// free list. Characters outside [A-Z.-] are stripped, not rejected.
func ParseSymbols(raw string) ([]string, error) {
    clean := symbolsStrip.ReplaceAllString(strings.ToUpper(raw), "")
    if len(clean) > maxSymbolsParam { clean = clean[:maxSymbolsParam] }
    seen := make(map[string]struct{})
    var out []string
    for _, s := range strings.Split(clean, ",") {
        if s == "" { continue }
        if _, dup := seen[s]; dup { continue }
        seen[s] = struct{}{}
        out = append(out, s)
    }
    if len(out) == 0 {
        return nil, &ParamError{Param: "symbols", Message: "symbols param required"}
    }
    return out, nil
}

// ParseDate validates an ISO calendar date. An empty value resolves to
// today (UTC) when defaultToday is set.
func ParseDate(raw string, defaultToday bool, now time.Time) (string, error) {
    raw = strings.TrimSpace(raw)
    if raw == "" && defaultToday {
        return now.UTC().Format(dateLayout), nil
    }
    if !datePattern.MatchString(raw) {
        return "", &ParamError{Param: "date", Message: "date param required (YYYY-MM-DD)"}
    }
    if _, err := time.Parse(dateLayout, raw); err != nil {
        return "", &ParamError{Param: "date", Message: "invalid date " + raw}
    }
    return raw, nil
}
