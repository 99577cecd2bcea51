package main

import (
    "encoding/json"
    "errors"
    "log/slog"
    "net/http"
    "time"

    "marketproxy/internal/app"
    "marketproxy/internal/config"
    "marketproxy/internal/pipeline"
    "marketproxy/internal/version"
)

const (
    cachePrices   = "s-maxage=30, stale-while-revalidate=10"
    cacheEarnings = "s-maxage=300, stale-while-revalidate=600"
    cacheNews     = "s-maxage=120, stale-while-revalidate=300"
)

type server struct {
    app    *app.App
    cfg    config.Config
    logger *slog.Logger
    now    func() time.Time
}

type indexResponse struct {
    Name      string   `json:"name"`
    Version   string   `json:"version"`
    Status    string   `json:"status"`
    Endpoints []string `json:"endpoints"`
    Time      string   `json:"time"`
}

func (s *server) routes() http.Handler {
    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "text/plain; charset=utf-8")
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("/api/prices", s.handlePrices)
    mux.HandleFunc("/api/earnings", s.handleEarnings)
    mux.HandleFunc("/api/news", s.handleNews)
    mux.HandleFunc("/api", s.handleIndex)
    mux.HandleFunc("/{$}", s.handleIndex)
    return withRequestID(withCORS(withJSONHeaders(withGzip(recoverPanic(s.logger, onlyGET(mux))))))
}

func (s *server) handlePrices(w http.ResponseWriter, r *http.Request) {
    symbols, err := pipeline.ParseSymbols(r.URL.Query().Get("symbols"))
    if err != nil {
        s.badRequest(w, r, err)
        return
    }
    // Tiers carry their own deadlines; the request context only reports
    // client disconnects.
    env := s.app.Prices.Resolve(r.Context(), symbols)
    s.logger.Info("prices", "request_id", requestID(r.Context()), "symbols", len(symbols), "count", env.Count, "ok", env.OK)
    w.Header().Set("Cache-Control", cachePrices)
    writeJSON(w, http.StatusOK, env)
}

func (s *server) handleEarnings(w http.ResponseWriter, r *http.Request) {
    date, err := pipeline.ParseDate(r.URL.Query().Get("date"), s.cfg.Earnings.DefaultToday, s.now())
    if err != nil {
        s.badRequest(w, r, err)
        return
    }
    env := s.app.Earnings.Fetch(r.Context(), date)
    s.logger.Info("earnings", "request_id", requestID(r.Context()), "date", date, "count", env.Count, "ok", env.OK)
    w.Header().Set("Cache-Control", cacheEarnings)
    writeJSON(w, http.StatusOK, env)
}

func (s *server) handleNews(w http.ResponseWriter, r *http.Request) {
    env := s.app.News.Fetch(r.Context())
    s.logger.Info("news", "request_id", requestID(r.Context()), "count", env.Count, "failed_feeds", len(env.Errors))
    w.Header().Set("Cache-Control", cacheNews)
    writeJSON(w, http.StatusOK, env)
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, indexResponse{
        Name:    "marketproxy",
        Version: version.Version,
        Status:  "online",
        Endpoints: []string{
            "GET /api/prices?symbols=AAPL,MSFT - latest prices with tiered fallback",
            "GET /api/earnings?date=YYYY-MM-DD - earnings calendar",
            "GET /api/news - merged financial headlines",
        },
        Time: pipeline.FetchedAt(s.now()),
    })
}

func (s *server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
    msg := err.Error()
    var pe *pipeline.ParamError
    if errors.As(err, &pe) { msg = pe.Message }
    s.logger.Info("rejected request", "request_id", requestID(r.Context()), "path", r.URL.Path, "error", msg)
    writeJSON(w, http.StatusBadRequest, pipeline.ErrorEnvelope{OK: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}
