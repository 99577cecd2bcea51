package pipeline

import (
    "time"

    "marketproxy/internal/provider"
)

// fetchedAtLayout is ISO-8601 in UTC with millisecond precision.
const fetchedAtLayout = "2006-01-02T15:04:05.000Z"

// FetchedAt formats t the way every envelope stamps it.
func FetchedAt(t time.Time) string { return t.UTC().Format(fetchedAtLayout) }

// PriceEnvelope is the response to a price request.
type PriceEnvelope struct {
    OK        bool                      `json:"ok"`
    Prices    map[string]provider.Quote `json:"prices"`
    Count     int                       `json:"count"`
    FetchedAt string                    `json:"fetchedAt"`
    Error     string                    `json:"error,omitempty"`
}

// EarningsEnvelope is the response to an earnings calendar request.
type EarningsEnvelope struct {
    OK        bool                   `json:"ok"`
    Date      string                 `json:"date"`
    Rows      []provider.EarningsRow `json:"rows"`
    Count     int                    `json:"count"`
    FetchedAt string                 `json:"fetchedAt"`
    Error     string                 `json:"error,omitempty"`
}

// FeedError reports one feed that produced nothing.
type FeedError struct {
    Feed  string `json:"feed"`
    Error string `json:"error"`
}

// NewsEnvelope is the response to a news request. It is always ok.
type NewsEnvelope struct {
    OK        bool                `json:"ok"`
    Articles  []provider.NewsItem `json:"articles"`
    Count     int                 `json:"count"`
    Sources   []string            `json:"sources"`
    Errors    []FeedError         `json:"errors,omitempty"`
    FetchedAt string              `json:"fetchedAt"`
}

// ErrorEnvelope is returned for rejected parameters.
type ErrorEnvelope struct {
    OK    bool   `json:"ok"`
    Error string `json:"error"`
}
