package aggregate

import (
    "sort"
    "strings"
    "unicode"

    "marketproxy/internal/provider"
)

const (
    // NewsKeyRunes is how much of the normalized title takes part in dedup.
    NewsKeyRunes = 60
    // DefaultMaxArticles bounds the merged news output.
    DefaultMaxArticles = 150
)

// NewsKey is the near-duplicate key for a headline: lowercased, all
// whitespace removed, first NewsKeyRunes runes.
func NewsKey(title string) string {
    var b strings.Builder
    n := 0
    for _, r := range strings.ToLower(title) {
        if unicode.IsSpace(r) { continue }
        if n == NewsKeyRunes { break }
        b.WriteRune(r)
        n++
    }
    return b.String()
}

// MergeNews flattens lists in order, keeps the first item per NewsKey,
// sorts newest first (unknown timestamps last, ties keep merge order)
// and truncates to max. max <= 0 means DefaultMaxArticles.
func MergeNews(lists [][]provider.NewsItem, max int) []provider.NewsItem {
    if max <= 0 { max = DefaultMaxArticles }
    seen := make(map[string]struct{})
    out := make([]provider.NewsItem, 0)
    for _, list := range lists {
        for _, it := range list {
            key := NewsKey(it.Title)
            if _, dup := seen[key]; dup { continue }
            seen[key] = struct{}{}
            out = append(out, it)
        }
    }
    sort.SliceStable(out, func(i, j int) bool {
        return out[i].PublishedAt.After(out[j].PublishedAt)
    })
    if len(out) > max { out = out[:max] }
    return out
}
