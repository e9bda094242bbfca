package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"AppScanner/internal/discovery"
	"AppScanner/internal/domain"
	"AppScanner/internal/metrics"
	"AppScanner/internal/ports"
	"AppScanner/internal/relevance"
	"AppScanner/internal/themes"
)

// FetcherDeps wires the collaborators of the fetch stage.
type FetcherDeps struct {
	Store      ports.AppStore
	Classifier *relevance.Classifier
	Aggregator *themes.Aggregator
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
	Clock      func() time.Time
}

// FetchOptions configure the fetch stage.
type FetchOptions struct {
	Concurrency     int
	MinTotalReviews int
	RequestDelay    time.Duration
	Reviews         ReviewOptions
}

// Fetcher turns discovered entities into app records under a concurrency cap.
type Fetcher struct {
	store      ports.AppStore
	classifier *relevance.Classifier
	aggregator *themes.Aggregator
	metrics    *metrics.Recorder
	logger     *slog.Logger
	clock      func() time.Time
	opts       FetchOptions
}

// NewFetcher constructs the fetch stage; concurrency below 1 is raised to 1.
func NewFetcher(deps FetcherDeps, opts FetchOptions) *Fetcher {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Fetcher{
		store:      deps.Store,
		classifier: deps.Classifier,
		aggregator: deps.Aggregator,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		clock:      clock,
		opts:       opts,
	}
}

// ProcessAll runs Process for every entity with at most Concurrency in flight.
// Results arrive in completion order.
func (f *Fetcher) ProcessAll(ctx context.Context, entities []domain.DiscoveredEntity) []domain.Result {
	sink := &resultSink{results: make([]domain.Result, 0, len(entities))}

	var g errgroup.Group
	g.SetLimit(f.opts.Concurrency)
	for _, entity := range entities {
		g.Go(func() error {
			sink.add(f.Process(ctx, entity))
			return nil
		})
	}
	_ = g.Wait()

	return sink.snapshot()
}

// Process fetches and aggregates one entity. It never panics or returns an error directly:
// every failure is folded into the Result.
func (f *Fetcher) Process(ctx context.Context, entity domain.DiscoveredEntity) (res domain.Result) {
	started := time.Now()
	res.AppID = entity.ID
	defer func() {
		f.metrics.ObserveResult(res, time.Since(started))
	}()

	if err := ctx.Err(); err != nil {
		res.Skip, res.Err = domain.SkipCanceled, err
		return res
	}

	pacer := discovery.NewPacer(f.opts.RequestDelay)
	log := f.entityLogger(entity.ID)

	if err := pacer.Wait(ctx); err != nil {
		res.Skip, res.Err = domain.SkipCanceled, err
		return res
	}
	meta, err := f.store.AppDetails(ctx, entity.ID)
	if err != nil {
		log.Warn("app details failed", "error", err)
		res.Skip, res.Err = domain.SkipMetadataFailed, fmt.Errorf("app details: %w", err)
		return res
	}

	if meta.ReviewsTotal < f.opts.MinTotalReviews {
		log.Debug("below review threshold", "reviews_total", meta.ReviewsTotal, "min", f.opts.MinTotalReviews)
		res.Skip = domain.SkipBelowMinReviews
		return res
	}

	if !entity.Verified && f.classifier != nil {
		verdict := f.classifier.Classify(entity.ID, meta.Title, meta.Description)
		if !verdict.Relevant {
			log.Debug("filtered as irrelevant", "title", meta.Title, "reason", verdict.Reason, "positive_hits", verdict.PositiveHits)
			res.Skip = domain.SkipIrrelevant
			return res
		}
	}

	reviews, err := FetchReviews(ctx, f.store, entity.ID, f.opts.Reviews, pacer)
	if err != nil {
		f.metrics.PageError()
		log.Warn("review pagination stopped early", "collected", len(reviews), "error", err)
	}
	f.metrics.AddReviews(len(reviews))

	summary := f.aggregator.Aggregate(reviews)

	res.Record = &domain.AppRecord{
		AppID:     entity.ID,
		FetchedAt: f.clock().UTC(),
		Sources:   append([]string(nil), entity.Sources...),
		Verified:  entity.Verified,
		App:       meta,
		Summary:   summary,
		Reviews:   reviews,
	}
	log.Info("app recorded", "title", meta.Title, "score", meta.Score, "reviews", len(reviews))
	return res
}

func (f *Fetcher) entityLogger(id string) *slog.Logger {
	if f.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.logger.With("app_id", id)
}

type resultSink struct {
	mu      sync.Mutex
	results []domain.Result
}

func (s *resultSink) add(r domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultSink) snapshot() []domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Result, len(s.results))
	copy(out, s.results)
	return out
}
