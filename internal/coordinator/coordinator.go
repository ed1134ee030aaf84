// Package coordinator runs the per-cycle conversion jobs concurrently and
// enforces that a cycle only publishes when every job succeeded.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/opencoastal/currentcast/internal/constants"
	"github.com/opencoastal/currentcast/internal/convert"
)

// Pool runs conversion jobs with bounded parallelism.
type Pool struct {
	engine  convert.Engine
	workers int
}

// Options are the configurable functional options for the pool.
type Options func(*Pool)

// WithWorkers sets the maximum number of jobs converting at once.
func WithWorkers(n int) Options {
	return func(p *Pool) {
		p.workers = n
	}
}

// New returns a pool running jobs through the given engine.
func New(engine convert.Engine, args ...Options) (Pool, error) {
	p := Pool{
		engine:  engine,
		workers: constants.DefaultWorkers,
	}
	for _, opt := range args {
		opt(&p)
	}

	if p.workers < 1 {
		return Pool{}, errors.New("worker count must be at least 1")
	}
	return p, nil
}

// Run converts all jobs and returns the union of their outputs.
//
// Every job is always waited for, even after another job has failed. The
// jobs of a cycle form an atomic unit: if any job fails, no outputs are
// returned at all, so a partial cycle can never reach publication. Failures
// from multiple jobs are aggregated.
func (p Pool) Run(ctx context.Context, jobs ...convert.Job) ([]string, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		outputs []string
		errs    *multierror.Error
	)

	sem := make(chan struct{}, p.workers)
	for _, job := range jobs {
		wg.Add(1)
		go func(job convert.Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			produced, err := p.engine.Convert(ctx, job)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("Conversion job failed", "grid", job.Grid, "model", job.Metadata.ModelID, "error", err)
				errs = multierror.Append(errs, err)
				return
			}
			outputs = append(outputs, produced...)
		}(job)
	}
	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return outputs, nil
}
