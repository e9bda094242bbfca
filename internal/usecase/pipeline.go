package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"AppScanner/internal/discovery"
	"AppScanner/internal/domain"
	"AppScanner/internal/metrics"
	"AppScanner/internal/ports"
)

// PipelineDeps wires all driven adapters into the run orchestration.
type PipelineDeps struct {
	Collector *discovery.Collector
	Fetcher   *Fetcher
	Writers   []ports.RecordWriter
	Notifier  ports.Notifier
	Metrics   *metrics.Recorder
	Logger    *slog.Logger
	Clock     func() time.Time
}

// PipelineConfig carries the discovery inputs and output locations of a run.
type PipelineConfig struct {
	Seeded      []string
	Keywords    []string
	Limits      discovery.Limits
	MetricsFile string
}

// Pipeline sequences discovery, merge, fetch, sort and emit.
type Pipeline struct {
	collector *discovery.Collector
	fetcher   *Fetcher
	writers   []ports.RecordWriter
	notifier  ports.Notifier
	metrics   *metrics.Recorder
	logger    *slog.Logger
	clock     func() time.Time
	cfg       PipelineConfig
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps, cfg PipelineConfig) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		collector: deps.Collector,
		fetcher:   deps.Fetcher,
		writers:   deps.Writers,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		clock:     clock,
		cfg:       cfg,
	}
}

// Run executes one full collection. Per-app failures never abort the run; the returned error
// covers cancellation during discovery and output failures only.
func (p *Pipeline) Run(ctx context.Context) (domain.RunReport, error) {
	if p.collector == nil || p.fetcher == nil {
		return domain.RunReport{}, errors.New("pipeline is not configured")
	}

	stats := domain.RunStats{
		RunID:     uuid.NewString(),
		StartedAt: p.clock().UTC(),
		Skipped:   map[domain.SkipReason]int{},
	}
	log := p.runLogger(stats.RunID)

	log.Info("discovery started", "seeded", len(p.cfg.Seeded), "keywords", len(p.cfg.Keywords))
	channels, err := p.collector.Collect(ctx, p.cfg.Seeded, p.cfg.Keywords)
	if err != nil {
		return domain.RunReport{Stats: stats}, fmt.Errorf("discovery: %w", err)
	}

	merged := discovery.Merge(channels, p.cfg.Limits)
	stats.TotalDiscovered = merged.Len()
	p.metrics.SetDiscovered(merged.Len())
	log.Info("discovery merged", "total_discovered", merged.Len())

	results := p.fetcher.ProcessAll(ctx, merged.List())

	records := make([]domain.AppRecord, 0, len(results))
	for _, res := range results {
		if res.OK() {
			records = append(records, *res.Record)
			continue
		}
		stats.Skipped[res.Skip]++
	}
	SortRecords(records)

	stats.FilteredOut = stats.Skipped[domain.SkipIrrelevant]
	stats.FinalCount = len(records)
	stats.FinishedAt = p.clock().UTC()
	p.metrics.RunFinished(stats.FinishedAt)

	log.Info("run summary",
		"total_discovered", stats.TotalDiscovered,
		"filtered_out", stats.FilteredOut,
		"final_count", stats.FinalCount,
		"duration", stats.FinishedAt.Sub(stats.StartedAt).String())

	report := domain.RunReport{Records: records, Stats: stats}
	return report, p.emit(ctx, report)
}

func (p *Pipeline) emit(ctx context.Context, report domain.RunReport) error {
	var errs []error
	for _, w := range p.writers {
		if err := w.Write(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("write report: %w", err))
		}
	}

	if err := p.metrics.WriteTextfile(p.cfg.MetricsFile); err != nil {
		errs = append(errs, fmt.Errorf("write metrics: %w", err))
	}

	if p.notifier != nil {
		if err := p.notifier.PublishSummary(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("publish summary: %w", err))
		}
	}

	return errors.Join(errs...)
}

// SortRecords orders by total review count descending, then by app id.
func SortRecords(records []domain.AppRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].App.ReviewsTotal != records[j].App.ReviewsTotal {
			return records[i].App.ReviewsTotal > records[j].App.ReviewsTotal
		}
		return records[i].AppID < records[j].AppID
	})
}

func (p *Pipeline) runLogger(runID string) *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger.With("run_id", runID)
}
