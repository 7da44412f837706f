package csvdata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/recruiting-territories-service/internal/domain"
	"github.com/couchcryptid/recruiting-territories-service/internal/observability"
)

// Options configures a Loader.
type Options struct {
	RecruitsURL  string
	TeamsURL     string
	FetchTimeout time.Duration
	OrphanPolicy domain.OrphanPolicy
	Geocoder     domain.Geocoder // optional; fills in hometowns without coordinates
}

// Loader fetches and parses the recruits and teams tables into a Dataset.
type Loader struct {
	opts    Options
	client  *http.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewLoader creates a Loader for the configured sources.
func NewLoader(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Loader {
	return &Loader{
		opts:    opts,
		client:  &http.Client{Timeout: opts.FetchTimeout},
		metrics: metrics,
		logger:  logger,
	}
}

// Load fetches both tables concurrently and builds a Dataset. Malformed rows
// are skipped with a warning.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()
	ds, err := l.load(ctx)
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}
	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	l.metrics.DatasetRecruits.Set(float64(len(ds.Recruits)))
	l.metrics.DatasetTeams.Set(float64(len(ds.Teams)))

	l.logger.Info("dataset loaded",
		"recruits", len(ds.Recruits),
		"teams", len(ds.Teams),
		"has_count", ds.Schema.HasCount,
		"duration", time.Since(start),
	)
	return ds, nil
}

func (l *Loader) load(ctx context.Context) (*domain.Dataset, error) {
	var recruitsTable, teamsTable Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recruitsTable, err = FetchTable(gctx, l.client, l.opts.RecruitsURL)
		return err
	})
	g.Go(func() error {
		var err error
		teamsTable, err = FetchTable(gctx, l.client, l.opts.TeamsURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teams, rowErrs, err := ParseTeams(teamsTable)
	if err != nil {
		return nil, err
	}
	l.skipRows("teams", rowErrs)

	recruits, schema, rowErrs, err := ParseRecruits(recruitsTable)
	if err != nil {
		return nil, err
	}
	l.skipRows("recruits", rowErrs)
	recruits = l.locate(ctx, recruits)

	ds, err := domain.NewDataset(recruits, teams, schema, l.opts.OrphanPolicy, l.logger)
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	return ds, nil
}

// locate geocodes recruits without hometown coordinates and drops those that
// still cannot be placed on the map.
func (l *Loader) locate(ctx context.Context, recruits []domain.Recruit) []domain.Recruit {
	out := recruits[:0]
	missing := 0
	for _, r := range recruits {
		if r.Hometown.IsZero() {
			r = domain.EnrichHometown(ctx, r, l.opts.Geocoder, l.logger)
		}
		if r.Hometown.IsZero() || !r.Hometown.Valid() {
			missing++
			continue
		}
		out = append(out, r)
	}
	if missing > 0 {
		l.metrics.RowsSkipped.WithLabelValues("recruits", "no_location").Add(float64(missing))
		l.logger.Warn("skipped recruits without hometown coordinates", "count", missing)
	}
	return out
}

func (l *Loader) skipRows(table string, rowErrs []RowError) {
	if len(rowErrs) == 0 {
		return
	}
	for _, e := range rowErrs {
		l.logger.Warn("skipping malformed row", "table", table, "line", e.Line, "error", e.Err)
	}
	l.metrics.RowsSkipped.WithLabelValues(table, "parse").Add(float64(len(rowErrs)))
}
