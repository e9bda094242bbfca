package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"AppScanner/internal/config"
	"AppScanner/internal/discovery"
	"AppScanner/internal/domain"
	"AppScanner/internal/infrastructure/googleplay"
	"AppScanner/internal/infrastructure/report"
	"AppScanner/internal/infrastructure/scheduler"
	"AppScanner/internal/infrastructure/telegram"
	"AppScanner/internal/logging"
	"AppScanner/internal/metrics"
	"AppScanner/internal/ports"
	"AppScanner/internal/relevance"
	"AppScanner/internal/themes"
	"AppScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// New validates the configuration and builds a runnable application against Google Play.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store := googleplay.NewClient(googleplay.Options{
		BaseURL:      cfg.Store.BaseURL,
		Lang:         cfg.Store.Lang,
		Country:      cfg.Store.Country,
		RequestDelay: cfg.Fetch.RequestDelay,
		HTTPClient:   &http.Client{Timeout: cfg.Store.Timeout},
		Logger:       baseLogger.With("component", "store.googleplay"),
	})

	return NewWithStore(cfg, store, baseLogger)
}

// NewWithStore builds the application around an arbitrary data source.
func NewWithStore(cfg config.Config, store ports.AppStore, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	aggregator, err := themes.NewAggregator(cfg.Themes.Taxonomy, cfg.ThemeLimits())
	if err != nil {
		return nil, err
	}
	recorder := metrics.New()

	collector := discovery.NewCollector(store, cfg.DiscoveryLimits(), cfg.Fetch.RequestDelay,
		baseLogger.With("component", "discovery"))

	fetcher := usecase.NewFetcher(usecase.FetcherDeps{
		Store:      store,
		Classifier: relevance.NewClassifier(cfg.RelevanceRules()),
		Aggregator: aggregator,
		Metrics:    recorder,
		Logger:     baseLogger.With("component", "fetcher"),
	}, usecase.FetchOptions{
		Concurrency:     cfg.Fetch.Concurrency,
		MinTotalReviews: cfg.Fetch.MinTotalReviews,
		RequestDelay:    cfg.Fetch.RequestDelay,
		Reviews: usecase.ReviewOptions{
			Max:      cfg.Fetch.MaxReviewsPerApp,
			PageSize: cfg.Fetch.PageSize,
			Sort:     cfg.ReviewSort(),
		},
	})

	var writers []ports.RecordWriter
	if cfg.Output.JSON {
		writers = append(writers, report.NewJSONWriter(cfg.Output.Dir, cfg.Output.PerApp))
	}
	if cfg.Output.CSV {
		writers = append(writers, report.NewCSVWriter(cfg.Output.Dir))
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Collector: collector,
		Fetcher:   fetcher,
		Writers:   writers,
		Notifier:  notifier,
		Metrics:   recorder,
		Logger:    baseLogger.With("component", "pipeline"),
	}, usecase.PipelineConfig{
		Seeded:      cfg.Discovery.SeededAppIDs,
		Keywords:    cfg.Discovery.Keywords,
		Limits:      cfg.DiscoveryLimits(),
		MetricsFile: cfg.Output.MetricsFile,
	})

	a := &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}
	if cfg.Scheduler.Enabled {
		driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
		a.scheduler = usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))
	}
	return a, nil
}

// Run performs a single collection, or keeps running scheduled collections until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler == nil {
		_, err := a.RunOnce(ctx)
		return err
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression)
	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// RunOnce executes the pipeline a single time.
func (a *Application) RunOnce(ctx context.Context) (domain.RunReport, error) {
	return a.pipeline.Run(ctx)
}
