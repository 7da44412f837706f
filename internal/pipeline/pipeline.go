package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
	"github.com/couchcryptid/recruiting-territories-service/internal/observability"
)

// DatasetLoader supplies the current recruits and teams tables.
type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// ConnectionPublisher ships the aggregated connections of a run downstream.
type ConnectionPublisher interface {
	PublishConnections(ctx context.Context, runID string, f domain.Filter, conns []domain.ConnectionCount) error
}

// Pipeline runs territory computations against the loaded dataset.
type Pipeline struct {
	loader       DatasetLoader
	publisher    ConnectionPublisher
	defaultTeams []string
	logger       *slog.Logger
	metrics      *observability.Metrics
	ready        atomic.Bool
}

// New creates a Pipeline. publisher may be nil to disable publishing.
func New(loader DatasetLoader, publisher ConnectionPublisher, defaultTeams []string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:       loader,
		publisher:    publisher,
		defaultTeams: defaultTeams,
		logger:       logger,
		metrics:      metrics,
	}
}

// CheckReadiness returns nil once a dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Ready reports whether a dataset has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Warm loads the dataset ahead of the first request.
func (p *Pipeline) Warm(ctx context.Context) error {
	_, err := p.dataset(ctx)
	return err
}

func (p *Pipeline) dataset(ctx context.Context) (*domain.Dataset, error) {
	ds, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if !p.ready.Swap(true) {
		p.metrics.PipelineReady.Set(1)
	}
	return ds, nil
}

// DefaultFilter is the initial selection, restricted to default teams that
// exist in the dataset.
func (p *Pipeline) DefaultFilter(ctx context.Context) (domain.Filter, error) {
	ds, err := p.dataset(ctx)
	if err != nil {
		return domain.Filter{}, err
	}
	teams := make([]string, 0, len(p.defaultTeams))
	for _, s := range p.defaultTeams {
		if _, ok := ds.Team(s); ok {
			teams = append(teams, s)
		} else {
			p.logger.Warn("default team not in teams table", "school", s)
		}
	}
	return domain.DefaultFilter(teams), nil
}

// Teams lists the team catalogue.
func (p *Pipeline) Teams(ctx context.Context) ([]domain.Team, error) {
	ds, err := p.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Teams, nil
}

// Territories runs the filter and aggregation pipeline for f and publishes
// the aggregated connections when a publisher is configured. Publish failures
// are logged and never fail the run.
func (p *Pipeline) Territories(ctx context.Context, f domain.Filter) (domain.Territories, error) {
	start := time.Now()
	ds, err := p.dataset(ctx)
	if err != nil {
		p.observe("territories", start, err)
		return domain.Territories{}, err
	}

	t, err := domain.BuildTerritories(ds, f)
	p.observe("territories", start, err)
	if err != nil {
		return domain.Territories{}, err
	}

	runID := uuid.NewString()
	p.metrics.ConnectionRows.Observe(float64(t.ConnectionRows))
	p.metrics.DistanceEvaluations.Add(float64(t.DistanceEvaluations))
	p.logger.Info("territories computed",
		"run_id", runID,
		"teams", len(t.Teams),
		"recruits", len(t.Recruits),
		"connections", len(t.Connections),
		"distance_evaluations", t.DistanceEvaluations,
		"duration", time.Since(start),
	)

	p.publish(ctx, runID, t)
	return t, nil
}

func (p *Pipeline) publish(ctx context.Context, runID string, t domain.Territories) {
	if p.publisher == nil || len(t.Connections) == 0 {
		return
	}
	if err := p.publisher.PublishConnections(ctx, runID, t.Filter, t.Connections); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish connections failed", "run_id", runID, "error", err)
		return
	}
	p.metrics.ConnectionsPublished.Add(float64(len(t.Connections)))
}

// Histogram returns the commit-distance drill-down for school.
func (p *Pipeline) Histogram(ctx context.Context, f domain.Filter, school string) (domain.Histogram, error) {
	start := time.Now()
	ds, err := p.dataset(ctx)
	if err != nil {
		p.observe("histogram", start, err)
		return domain.Histogram{}, err
	}
	h, err := domain.DistanceHistogram(ds, f, school)
	p.observe("histogram", start, err)
	return h, err
}

// Destinations returns the top-destinations drill-down for school.
func (p *Pipeline) Destinations(ctx context.Context, f domain.Filter, school string) (domain.Destinations, error) {
	start := time.Now()
	ds, err := p.dataset(ctx)
	if err != nil {
		p.observe("destinations", start, err)
		return domain.Destinations{}, err
	}
	d, err := domain.TopDestinations(ds, f, school)
	p.observe("destinations", start, err)
	return d, err
}

// Export returns the filtered recruit rows and their download filename.
// school, when set, must be a known team and only names the file.
func (p *Pipeline) Export(ctx context.Context, f domain.Filter, school string) ([]domain.Recruit, string, error) {
	start := time.Now()
	recruits, filename, err := p.export(ctx, f, school)
	p.observe("export", start, err)
	return recruits, filename, err
}

func (p *Pipeline) export(ctx context.Context, f domain.Filter, school string) ([]domain.Recruit, string, error) {
	ds, err := p.dataset(ctx)
	if err != nil {
		return nil, "", err
	}
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, "", err
	}
	if school != "" {
		if _, ok := ds.Team(school); !ok {
			return nil, "", fmt.Errorf("%w: %q", domain.ErrUnknownTeam, school)
		}
	}
	return domain.FilterRecruits(ds.Recruits, f), domain.NewLabels(f).DownloadFilename(school), nil
}

func (p *Pipeline) observe(operation string, start time.Time, err error) {
	p.metrics.RequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	p.metrics.Requests.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoData):
		return "no_data"
	case errors.Is(err, domain.ErrInvalidFilter), errors.Is(err, domain.ErrUnknownTeam):
		return "invalid"
	default:
		return "error"
	}
}
