package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "slices"
    "strings"
    "time"

    "gopkg.in/yaml.v3"

    "marketproxy/internal/provider/rss"
)

type Server struct {
    Port               string `json:"port" yaml:"port"`
    // RequestTimeoutSec bounds a single outbound HTTP call. Requests as a
    // whole are bounded by MaxRequestDuration.
    RequestTimeoutSec  int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
    ShutdownTimeoutSec int    `json:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
}

type TwelveData struct {
    APIKey     string `json:"api_key" yaml:"api_key"`
    PriceURL   string `json:"price_url" yaml:"price_url"`
    QuoteURL   string `json:"quote_url" yaml:"quote_url"`
    TimeoutSec int    `json:"timeout_sec" yaml:"timeout_sec"`
    BatchCap   int    `json:"batch_cap" yaml:"batch_cap"`
    EnrichCap  int    `json:"enrich_cap" yaml:"enrich_cap"`
}

type Yahoo struct {
    SparkEnabled    bool   `json:"spark_enabled" yaml:"spark_enabled"`
    SparkURL        string `json:"spark_url" yaml:"spark_url"`
    SparkTimeoutSec int    `json:"spark_timeout_sec" yaml:"spark_timeout_sec"`
    QuoteURL        string `json:"quote_url" yaml:"quote_url"`
    QuoteTimeoutSec int    `json:"quote_timeout_sec" yaml:"quote_timeout_sec"`
    QuoteBatchCap   int    `json:"quote_batch_cap" yaml:"quote_batch_cap"`
}

type Earnings struct {
    URL          string `json:"url" yaml:"url"`
    TimeoutSec   int    `json:"timeout_sec" yaml:"timeout_sec"`
    DefaultToday bool   `json:"default_today" yaml:"default_today"`
}

type News struct {
    TimeoutSec  int        `json:"timeout_sec" yaml:"timeout_sec"`
    MaxArticles int        `json:"max_articles" yaml:"max_articles"`
    Feeds       []rss.Feed `json:"feeds" yaml:"feeds"`
}

type Log struct {
    Level string `json:"level" yaml:"level"`
}

type Config struct {
    Server     Server     `json:"server" yaml:"server"`
    TwelveData TwelveData `json:"twelvedata" yaml:"twelvedata"`
    Yahoo      Yahoo      `json:"yahoo" yaml:"yahoo"`
    Earnings   Earnings   `json:"earnings" yaml:"earnings"`
    News       News       `json:"news" yaml:"news"`
    Log        Log        `json:"log" yaml:"log"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 25, ShutdownTimeoutSec: 5},
        TwelveData: TwelveData{
            TimeoutSec: 8,
            BatchCap:   120,
            EnrichCap:  8,
        },
        Yahoo: Yahoo{
            SparkEnabled:    true,
            SparkTimeoutSec: 8,
            QuoteTimeoutSec: 6,
            QuoteBatchCap:   10,
        },
        Earnings: Earnings{TimeoutSec: 10},
        News: News{
            TimeoutSec:  8,
            MaxArticles: 150,
            Feeds:       slices.Clone(rss.DefaultFeeds),
        },
        Log: Log{Level: "info"},
    }
}

// Load reads a JSON or YAML config from path. If path is empty, config.json,
// config.yaml and config.yml are tried in that order; a missing file yields
// defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        for _, candidate := range []string{"config.json", "config.yaml", "config.yml"} {
            if _, err := os.Stat(candidate); err == nil {
                path = candidate
                break
            }
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := decode(path, b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    if err := cfg.Validate(); err != nil {
        return cfg, fmt.Errorf("invalid config: %w", err)
    }
    return cfg, nil
}

// decode picks the format from the file extension. YAML files may reference
// environment variables as ${VAR}.
func decode(path string, b []byte, cfg *Config) error {
    switch strings.ToLower(filepath.Ext(path)) {
    case ".yaml", ".yml":
        return yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), cfg)
    default:
        return json.Unmarshal(b, cfg)
    }
}

func (c Config) Validate() error {
    var errs []error
    if strings.TrimSpace(c.Server.Port) == "" { errs = append(errs, errors.New("server.port is empty")) }
    if c.Server.RequestTimeoutSec <= 0 { errs = append(errs, errors.New("server.request_timeout_sec must be positive")) }
    for name, v := range map[string]int{
        "twelvedata.timeout_sec":  c.TwelveData.TimeoutSec,
        "yahoo.spark_timeout_sec": c.Yahoo.SparkTimeoutSec,
        "yahoo.quote_timeout_sec": c.Yahoo.QuoteTimeoutSec,
        "earnings.timeout_sec":    c.Earnings.TimeoutSec,
        "news.timeout_sec":        c.News.TimeoutSec,
    } {
        if v <= 0 { errs = append(errs, fmt.Errorf("%s must be positive", name)) }
    }
    for i, f := range c.News.Feeds {
        if f.Name == "" || f.URL == "" {
            errs = append(errs, fmt.Errorf("news.feeds[%d] needs a name and a url", i))
        }
    }
    var lvl slog.Level
    if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
        errs = append(errs, fmt.Errorf("log.level: %w", err))
    }
    return errors.Join(errs...)
}

// MaxRequestDuration is the longest a single API request can legitimately
// take: the price tiers run one after another (Twelve Data twice when it
// enriches), while earnings and news are a single round each.
func (c Config) MaxRequestDuration() time.Duration {
    prices := 2*c.TwelveData.TimeoutSec + c.Yahoo.QuoteTimeoutSec
    if c.Yahoo.SparkEnabled { prices += c.Yahoo.SparkTimeoutSec }
    return time.Duration(max(prices, c.Earnings.TimeoutSec, c.News.TimeoutSec)) * time.Second
}

// LogLevel returns the configured slog level, info when unparsable.
func (c Config) LogLevel() slog.Level {
    var lvl slog.Level
    if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil { return slog.LevelInfo }
    return lvl
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("TWELVE_DATA_KEY"); v != "" { cfg.TwelveData.APIKey = v }
    if v := os.Getenv("TWELVE_DATA_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.TwelveData.TimeoutSec = x }
    }
    if v := os.Getenv("YAHOO_SPARK_ENABLED"); v != "" {
        switch strings.ToLower(v) {
        case "1","true","yes","y": cfg.Yahoo.SparkEnabled = true
        case "0","false","no","n": cfg.Yahoo.SparkEnabled = false
        }
    }
    if v := os.Getenv("YAHOO_SPARK_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Yahoo.SparkTimeoutSec = x }
    }
    if v := os.Getenv("YAHOO_QUOTE_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Yahoo.QuoteTimeoutSec = x }
    }
    if v := os.Getenv("NASDAQ_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Earnings.TimeoutSec = x }
    }
    if v := os.Getenv("EARNINGS_DEFAULT_TODAY"); v != "" {
        switch strings.ToLower(v) {
        case "1","true","yes","y": cfg.Earnings.DefaultToday = true
        case "0","false","no","n": cfg.Earnings.DefaultToday = false
        }
    }
    if v := os.Getenv("NEWS_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.News.TimeoutSec = x }
    }
    if v := os.Getenv("NEWS_MAX_ARTICLES"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.News.MaxArticles = x }
    }
    // NEWS_FEEDS is "Name=URL;Name=URL".
    if v := os.Getenv("NEWS_FEEDS"); v != "" { cfg.News.Feeds = parseFeeds(v) }
    if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Log.Level = v }
}

func parseFeeds(s string) []rss.Feed {
    var out []rss.Feed
    for _, part := range strings.Split(s, ";") {
        name, url, ok := strings.Cut(strings.TrimSpace(part), "=")
        name, url = strings.TrimSpace(name), strings.TrimSpace(url)
        if !ok || name == "" || url == "" { continue }
        out = append(out, rss.Feed{Name: name, URL: url})
    }
    return out
}
