package pipeline

import (
    "context"
    "errors"

    "golang.org/x/sync/errgroup"

    "marketproxy/internal/aggregate"
    "marketproxy/internal/provider"
)

// News fans out to every feed, waits for all of them and merges the results.
type News struct {
    feeds []provider.FeedProvider
    settings
}

func NewNews(feeds []provider.FeedProvider, options ...Option) *News {
    return &News{feeds: feeds, settings: newSettings(options)}
}

// Fetch always succeeds; feeds that failed are listed in Errors.
func (n *News) Fetch(ctx context.Context) NewsEnvelope {
    results := make([][]provider.NewsItem, len(n.feeds))
    failures := make([]error, len(n.feeds))

    // Goroutines never return an error so one failed feed cannot cancel the rest.
    var g errgroup.Group
    for i, feed := range n.feeds {
        g.Go(func() error {
            results[i], failures[i] = feed.Fetch(ctx)
            return nil
        })
    }
    _ = g.Wait()

    env := NewsEnvelope{OK: true, Sources: []string{}}
    lists := make([][]provider.NewsItem, 0, len(n.feeds))
    for i, feed := range n.feeds {
        if err := failures[i]; err != nil {
            n.logger.Warn("news feed failed", "feed", feed.Name(), "error", err)
            env.Errors = append(env.Errors, FeedError{Feed: feed.Name(), Error: feedMessage(err)})
            continue
        }
        env.Sources = append(env.Sources, feed.Name())
        lists = append(lists, results[i])
    }
    env.Articles = aggregate.MergeNews(lists, n.maxArticles)
    env.Count = len(env.Articles)
    env.FetchedAt = FetchedAt(n.now())
    n.logger.Debug("news merged", "feeds", len(n.feeds), "failed", len(env.Errors), "articles", env.Count)
    return env
}

func feedMessage(err error) string {
    var pe *provider.Error
    if errors.As(err, &pe) { return pe.Detail() }
    return err.Error()
}
