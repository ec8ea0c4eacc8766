package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/temperature-dashboard/internal/domain"
	"github.com/couchcryptid/temperature-dashboard/internal/observability"
)

// Extractor reads one wide dataset from its source.
type Extractor interface {
	Extract(ctx context.Context) (domain.WideTable, error)
}

// Transformer turns the bar-chart and map datasets into a Snapshot.
type Transformer interface {
	Transform(bars, maps domain.WideTable) (Snapshot, error)
}

// Loader publishes the tidy records to a downstream sink.
type Loader interface {
	Load(ctx context.Context, records []domain.TidyRecord) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	maxAttempts    = 5
)

// Pipeline runs the extract-transform-load cycle once at startup and holds
// the resulting Snapshot.
type Pipeline struct {
	bars        Extractor
	maps        Extractor
	transformer Transformer
	loader      Loader // optional
	logger      *slog.Logger
	metrics     *observability.Metrics

	snapshot atomic.Pointer[Snapshot]
	backoff  time.Duration
}

// New creates a Pipeline. Pass a nil loader to skip publishing.
func New(bars, maps Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		bars:        bars,
		maps:        maps,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		backoff:     initialBackoff,
	}
}

// CheckReadiness returns nil once the snapshot has been built.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.snapshot.Load() == nil {
		return errors.New("datasets have not been loaded yet")
	}
	return nil
}

// Snapshot returns the built state, or nil before Run has succeeded.
func (p *Pipeline) Snapshot() *Snapshot {
	return p.snapshot.Load()
}

// Run loads both datasets concurrently, transforms them and publishes the
// tidy records. Extract and transform errors abort; publish errors are logged
// and counted since the dashboard can serve without the sink.
func (p *Pipeline) Run(ctx context.Context) (*Snapshot, error) {
	start := domain.Now()

	var bars, maps domain.WideTable
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bars, err = p.bars.Extract(gctx)
		if err != nil {
			return fmt.Errorf("extract bar-chart dataset: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		maps, err = p.maps.Extract(gctx)
		if err != nil {
			return fmt.Errorf("extract map dataset: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap, err := p.transformer.Transform(bars, maps)
	if err != nil {
		return nil, err
	}

	p.metrics.DatasetRows.WithLabelValues("tidy").Set(float64(len(snap.Tidy.Records)))
	p.metrics.DatasetRows.WithLabelValues("map").Set(float64(len(maps.Rows)))
	p.metrics.DatasetCountries.Set(float64(len(snap.Tidy.Countries())))
	p.metrics.MapYears.Set(float64(len(snap.MapYears)))

	if p.loader != nil {
		if err := p.publish(ctx, snap.Tidy.Records); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("publishing tidy records failed, continuing without sink", "error", err)
		}
	}

	p.snapshot.Store(&snap)
	p.metrics.DashboardReady.Set(1)
	p.metrics.LoadDuration.Observe(domain.Now().Sub(start).Seconds())
	p.logger.Info("dashboard data ready",
		"tidy_records", len(snap.Tidy.Records),
		"map_years", len(snap.MapYears),
	)
	return &snap, nil
}

// publish loads the records with exponential backoff between attempts.
func (p *Pipeline) publish(ctx context.Context, records []domain.TidyRecord) error {
	backoff := p.backoff
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = p.loader.Load(ctx, records); err == nil {
			p.metrics.RecordsPublished.Add(float64(len(records)))
			return nil
		}
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish failed", "error", err, "attempt", attempt, "records", len(records))

		if attempt == maxAttempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return err
}
