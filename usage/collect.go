// Package usage correlates attribute definitions with the columns that
// telemetry datasets actually carry.
package usage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults applied by NewCollector when an option is left at zero.
const (
	DefaultConcurrency  = 8
	DefaultRecentWithin = 60 * 24 * time.Hour
)

// Access describes what the backend credentials are allowed to do.
type Access struct {
	Columns        bool `json:"columns"`
	CreateDatasets bool `json:"createDatasets"`
	Queries        bool `json:"queries"`
}

// Missing names the permissions collection needs but does not have.
func (a Access) Missing() []string {
	var missing []string
	if !a.Columns {
		missing = append(missing, "columns")
	}
	if !a.CreateDatasets {
		missing = append(missing, "createDatasets")
	}
	if !a.Queries {
		missing = append(missing, "queries")
	}
	return missing
}

// Sufficient reports whether every required permission is granted.
func (a Access) Sufficient() bool {
	return len(a.Missing()) == 0
}

// Column is one column of a dataset as the backend declares it.
type Column struct {
	Name string `json:"name"`
	// Type is the backend's declared type, e.g. "string" or "integer".
	// Empty when the backend does not report one.
	Type string `json:"type,omitempty"`
}

// Backend is the telemetry service that datasets and columns are read from.
type Backend interface {
	CheckAccess(ctx context.Context) (Access, error)
	// ListDatasets returns the slugs of datasets last written after since.
	ListDatasets(ctx context.Context, since time.Time) ([]string, error)
	// ListColumns returns the columns of one dataset.
	ListColumns(ctx context.Context, dataset string) ([]Column, error)
}

// Observed maps dataset slug to the columns seen in it.
type Observed map[string][]Column

// Collection is the outcome of one Collect call.
type Collection struct {
	// Observed holds every dataset whose columns were fetched.
	Observed Observed
	// Failed lists the datasets whose column fetch failed, sorted.
	Failed []string
}

// Options tunes a Collector.
type Options struct {
	// Concurrency bounds the number of in-flight column requests.
	Concurrency int
	// RecentWithin drops datasets not written within this window.
	RecentWithin time.Duration
	// RequestsPerSecond limits column requests; zero or less disables the limit.
	RequestsPerSecond float64
	// Now is the clock used for the recency window.
	Now func() time.Time
}

// Collector fetches column listings from a Backend.
type Collector struct {
	backend Backend
	opts    Options
	limiter *rate.Limiter
	logger  *zap.SugaredLogger
}

// NewCollector creates a collector. A nil log uses the "usage" component logger.
func NewCollector(backend Backend, opts Options, log *zap.SugaredLogger) *Collector {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.RecentWithin <= 0 {
		opts.RecentWithin = DefaultRecentWithin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.ComponentLogger("usage")
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Concurrency

	return &Collector{
		backend: backend,
		opts:    opts,
		limiter: rate.NewLimiter(limit, burst),
		logger:  log,
	}
}

// Collect checks access, lists recent datasets and fetches their columns
// concurrently. A dataset whose columns cannot be fetched is logged, left
// out of Observed and named in Failed. Errors from the access check or the
// dataset listing abort the whole collection.
func (c *Collector) Collect(ctx context.Context) (*Collection, error) {
	access, err := c.backend.CheckAccess(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check backend access")
	}
	if !access.Sufficient() {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrForbidden, "API key lacks permissions: %s", strings.Join(access.Missing(), ", ")),
			"grant the key columns, createDatasets and queries access")
	}

	since := c.opts.Now().Add(-c.opts.RecentWithin)
	datasets, err := c.backend.ListDatasets(ctx, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list datasets")
	}

	c.logger.Infow("Collecting dataset columns",
		logger.FieldDatasets, len(datasets),
		logger.FieldConcurrent, c.opts.Concurrency)

	result := &Collection{Observed: make(Observed, len(datasets))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for _, dataset := range datasets {
		g.Go(func() error {
			if err := c.limiter.Wait(gctx); err != nil {
				return err
			}
			columns, err := c.backend.ListColumns(gctx, dataset)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Warnw("Failed to fetch dataset columns",
					logger.FieldDataset, dataset,
					logger.FieldError, err)
				mu.Lock()
				result.Failed = append(result.Failed, dataset)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			result.Observed[dataset] = columns
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "column collection interrupted")
	}

	slices.Sort(result.Failed)
	c.logger.Debugw("Collected dataset columns",
		logger.FieldDatasets, len(result.Observed),
		"failed", len(result.Failed))
	return result, nil
}
