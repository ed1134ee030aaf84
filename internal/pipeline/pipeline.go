// Package pipeline wires cycle resolution, acquisition, conversion and
// publication into one operational run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ubuntu/decorate"

	"github.com/opencoastal/currentcast/internal/catalog"
	"github.com/opencoastal/currentcast/internal/convert"
	"github.com/opencoastal/currentcast/internal/coordinator"
	"github.com/opencoastal/currentcast/internal/cycle"
	"github.com/opencoastal/currentcast/internal/fetcher"
	"github.com/opencoastal/currentcast/internal/publisher"
)

// Config gathers the collaborators and paths of one run.
type Config struct {
	Profile     catalog.ModelProfile
	Fetcher     fetcher.Manager
	Pool        coordinator.Pool
	Publisher   publisher.Publisher
	StagingRoot string
	OutputRoot  string
	TargetDepth float64

	// Cycletime pins the run to an explicit cycle. When zero, the latest
	// published cycle is resolved from the current time.
	Cycletime time.Time

	// timeProvider is the clock used for cycle resolution.
	timeProvider func() time.Time
}

// Options are the configurable functional options for a run.
type Options func(*Config)

// WithCycletime pins the run to an explicit cycle instead of resolving the
// latest one.
func WithCycletime(t time.Time) Options {
	return func(c *Config) {
		c.Cycletime = t
	}
}

// WithTimeProvider overrides the clock used for cycle resolution.
func WithTimeProvider(now func() time.Time) Options {
	return func(c *Config) {
		c.timeProvider = now
	}
}

// New returns a run configuration with the given options applied.
func New(p catalog.ModelProfile, f fetcher.Manager, pool coordinator.Pool, pub publisher.Publisher, stagingRoot, outputRoot string, targetDepth float64, args ...Options) Config {
	c := Config{
		Profile:      p,
		Fetcher:      f,
		Pool:         pool,
		Publisher:    pub,
		StagingRoot:  stagingRoot,
		OutputRoot:   outputRoot,
		TargetDepth:  targetDepth,
		timeProvider: time.Now,
	}
	for _, opt := range args {
		opt(&c)
	}
	return c
}

// Run executes one operational cycle for the configured model: resolve the
// cycle, stage the raw files, convert the default and subset grids in
// parallel, and publish the products. One failed grid fails the whole cycle
// and nothing is published.
func (c Config) Run(ctx context.Context) (err error) {
	defer decorate.OnError(&err, "operational run failed for %s", c.Profile.ID)

	log := slog.With("run_id", uuid.New().String(), "model", c.Profile.ID)

	cycletime := c.Cycletime
	if cycletime.IsZero() {
		cycletime, err = cycle.Resolve(c.timeProvider(), c.Profile)
		if err != nil {
			return err
		}
	}
	log = log.With("cycle", cycletime.Format("2006010215"))
	log.Info("Starting operational run")

	// Configuration problems must surface before anything is downloaded.
	cap, err := convert.Dispatch(c.Profile.ModelType, c.Profile.DataCodingFormat)
	if err != nil {
		return err
	}
	if c.Profile.DataCodingFormat == catalog.FormatRegularGrid && c.Profile.IndexDefaultPath == "" {
		return fmt.Errorf("%w: %s has no default index configured", convert.ErrIndexRequired, c.Profile.ID)
	}

	staged, err := c.Fetcher.Fetch(ctx, c.Profile, cycletime, c.StagingRoot)
	if err != nil {
		return err
	}
	log.Info("Staged raw model files", "count", len(staged))

	jobs, err := c.buildJobs(cap, staged, cycletime)
	if err != nil {
		return err
	}

	outputs, err := c.Pool.Run(ctx, jobs...)
	if err != nil {
		return err
	}
	log.Info("Converted products", "count", len(outputs))

	if err := c.Publisher.Publish(outputs, c.Profile, cycletime); err != nil {
		return err
	}
	log.Info("Published products", "dest", c.Publisher.Dest(c.Profile, cycletime))
	return nil
}

// buildJobs turns the staged files into the conversion jobs of the cycle:
// a default-grid job and, when the model has a subset index, a subset job.
func (c Config) buildJobs(cap convert.Capability, staged []fetcher.StagedFile, cycletime time.Time) ([]convert.Job, error) {
	inputs := make([]convert.ModelFile, 0, len(staged))
	for _, s := range staged {
		inputs = append(inputs, cap.NewModelFile(s.Path))
	}

	outputDir := filepath.Join(c.OutputRoot, c.Profile.ID)
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("could not create output directory: %v", err)
	}

	md := convert.Metadata{
		ModelID:      c.Profile.ID,
		Region:       c.Profile.Region,
		Product:      c.Profile.Product,
		ProducerCode: c.Profile.ProducerCode,
		DatatypeCode: c.Profile.DatatypeCode,
	}

	job := convert.Job{
		Grid:        "default",
		Inputs:      inputs,
		OutputDir:   outputDir,
		Cycletime:   cycletime,
		Metadata:    md,
		Format:      c.Profile.DataCodingFormat,
		TargetDepth: c.TargetDepth,
		ModelType:   c.Profile.ModelType,
	}

	// Only regular-grid conversions carry an index and a subset grid; other
	// formats run the default job alone with a nil index, whatever index
	// paths the profile may configure.
	if c.Profile.DataCodingFormat != catalog.FormatRegularGrid || cap.NewIndex == nil {
		return []convert.Job{job}, nil
	}

	idx := cap.NewIndex(c.Profile.IndexDefaultPath)
	job.Index = &idx
	jobs := []convert.Job{job}

	if c.Profile.IndexSubsetPath != "" {
		subsetIdx := cap.NewIndex(c.Profile.IndexSubsetPath)
		subset := job
		subset.Grid = "subset"
		subset.Index = &subsetIdx
		jobs = append(jobs, subset)
	}

	return jobs, nil
}
