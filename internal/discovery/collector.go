package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"AppScanner/internal/domain"
	"AppScanner/internal/ports"
)

// Collector queries the keyword and similar-apps channels against the store.
type Collector struct {
	store   ports.AppStore
	limits  Limits
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewCollector paces store calls so that consecutive requests are at least delay apart.
func NewCollector(store ports.AppStore, limits Limits, delay time.Duration, logger *slog.Logger) *Collector {
	return &Collector{
		store:   store,
		limits:  limits,
		limiter: NewPacer(delay),
		logger:  logger,
	}
}

// NewPacer returns a limiter allowing one request per delay; zero delay disables pacing.
func NewPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Collect runs every channel once. Failed lookups contribute empty results; only context
// cancellation is returned as an error.
func (c *Collector) Collect(ctx context.Context, seeded, keywords []string) (Channels, error) {
	ch := Channels{Seeded: append([]string(nil), seeded...)}

	c.debug("keyword discovery", "keywords", len(keywords))
	for _, kw := range keywords {
		if err := c.limiter.Wait(ctx); err != nil {
			return ch, fmt.Errorf("keyword %q: %w", kw, err)
		}

		refs, err := c.store.Search(ctx, kw, c.limits.AppsPerKeyword)
		if err != nil {
			c.warn("keyword search failed", "keyword", kw, "error", err)
			refs = nil
		}
		ch.Keywords = append(ch.Keywords, KeywordResult{Keyword: kw, IDs: refIDs(refs)})
		c.debug("keyword results", "keyword", kw, "count", len(refs))
	}

	parents := prefix(seeded, c.limits.SimilarSeedLimit)
	c.debug("similar discovery", "parents", len(parents))
	for _, parent := range parents {
		if err := c.limiter.Wait(ctx); err != nil {
			return ch, fmt.Errorf("similar to %s: %w", parent, err)
		}

		refs, err := c.store.SimilarApps(ctx, parent)
		if err != nil {
			c.warn("similar apps failed", "app_id", parent, "error", err)
			refs = nil
		}
		ch.Similar = append(ch.Similar, SimilarResult{ParentID: parent, IDs: refIDs(refs)})
		if len(refs) > 0 {
			c.debug("similar results", "app_id", parent, "count", len(refs))
		}
	}

	return ch, nil
}

func refIDs(refs []domain.AppRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

func (c *Collector) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Collector) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
