package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log/slog"
    "os"
    "time"

    "marketproxy/internal/app"
    "marketproxy/internal/config"
    "marketproxy/internal/pipeline"
)

func main() {
    var kind string
    var symbolsCSV string
    var date string
    var timeout int
    var configPath string
    var verbose bool

    flag.StringVar(&kind, "kind", "prices", "what to fetch: prices, earnings or news")
    flag.StringVar(&symbolsCSV, "symbols", getenv("SYMBOLS", "AAPL,MSFT"), "comma-separated ticker symbols")
    flag.StringVar(&date, "date", "", "earnings date (YYYY-MM-DD); empty means today")
    flag.IntVar(&timeout, "timeout", getenvInt("FETCH_TIMEOUT_SEC", 0), "overall timeout seconds; 0 allows the full tier chain")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json or config.yaml (optional)")
    flag.BoolVar(&verbose, "v", false, "debug logging")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { fatal("config: %v", err) }
    if verbose { cfg.Log.Level = "debug" }
    logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))

    a := app.New(cfg, nil, logger)
    limit := cfg.MaxRequestDuration()
    if timeout > 0 { limit = time.Duration(timeout) * time.Second }
    ctx, cancel := context.WithTimeout(context.Background(), limit)
    defer cancel()

    var out any
    switch kind {
    case "prices":
        symbols, err := pipeline.ParseSymbols(symbolsCSV)
        if err != nil { fatal("%v", err) }
        out = a.Prices.Resolve(ctx, symbols)
    case "earnings":
        d, err := pipeline.ParseDate(date, true, time.Now())
        if err != nil { fatal("%v", err) }
        out = a.Earnings.Fetch(ctx, d)
    case "news":
        out = a.News.Fetch(ctx)
    default:
        fatal("unknown -kind %q", kind)
    }

    b, _ := json.MarshalIndent(out, "", "  ")
    fmt.Println(string(b))
}

func fatal(format string, args ...any) {
    fmt.Fprintf(os.Stderr, format+"\n", args...)
    os.Exit(1)
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
