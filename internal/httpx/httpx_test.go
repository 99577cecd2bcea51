package httpx

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"
)

func TestDoFillsDefaultHeaders(t *testing.T) {
    var gotUA, gotAccept string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotUA = r.Header.Get("User-Agent")
        gotAccept = r.Header.Get("Accept")
    }))
    defer srv.Close()

    c := New(5 * time.Second)
    c.Headers = map[string]string{"Accept": "application/json"}
    req, _ := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
    res, err := c.Do(req)
    if err != nil { t.Fatalf("do: %v", err) }
    res.Body.Close()
    if gotUA != DefaultUserAgent { t.Fatalf("user agent %q", gotUA) }
    if gotAccept != "application/json" { t.Fatalf("accept %q", gotAccept) }
}

func TestDoKeepsRequestHeaders(t *testing.T) {
    var gotUA, gotAccept string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotUA = r.Header.Get("User-Agent")
        gotAccept = r.Header.Get("Accept")
    }))
    defer srv.Close()

    c := New(5 * time.Second)
    c.Headers = map[string]string{"Accept": "application/json"}
    req, _ := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
    req.Header.Set("User-Agent", "custom/2")
    req.Header.Set("Accept", "application/rss+xml")
    res, err := c.Do(req)
    if err != nil { t.Fatalf("do: %v", err) }
    res.Body.Close()
    if gotUA != "custom/2" || gotAccept != "application/rss+xml" {
        t.Fatalf("headers overridden: ua=%q accept=%q", gotUA, gotAccept)
    }
}
