package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/opencoastal/currentcast/internal/convert/cmdengine"
	"github.com/opencoastal/currentcast/internal/coordinator"
	"github.com/opencoastal/currentcast/internal/cycle"
	"github.com/opencoastal/currentcast/internal/fetcher"
	"github.com/opencoastal/currentcast/internal/pipeline"
	"github.com/opencoastal/currentcast/internal/publisher"
)

func (a *App) installOperational() {
	var cycletime string

	cmd := &cobra.Command{
		Use:   "operational MODEL...",
		Short: "Run the full forecast cycle for one or more models",
		Long: `Resolve the latest published forecast cycle of each model, download its raw
output files, convert the default and subset grids in parallel, and publish
the resulting products to the dissemination directory. A model whose cycle
fails leaves nothing published; remaining models still run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.runOperational(ctx, args, cycletime)
		},
	}
	cmd.Flags().StringVar(&cycletime, "cycletime", "", "process an explicit cycle (YYYYMMDDHH) instead of the latest one")

	a.cmd.AddCommand(cmd)
}

func (a *App) runOperational(ctx context.Context, models []string, cycletime string) error {
	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}

	engine := cmdengine.New(cmdengine.WithBinary(a.config.Converter))
	pool, err := coordinator.New(engine, coordinator.WithWorkers(a.config.Workers))
	if err != nil {
		return err
	}
	f := fetcher.New(fetcher.WithBaseURL(a.config.FileServer))
	pub := publisher.New(
		publisher.WithTemplate(a.config.DisseminationDir),
		publisher.WithOutputRoot(a.config.OutputDir),
	)

	var errs *multierror.Error
	for _, id := range models {
		p, err := cat.Get(id)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		var opts []pipeline.Options
		if cycletime != "" {
			var t time.Time
			if t, err = cycle.Parse(cycletime, p); err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			opts = append(opts, pipeline.WithCycletime(t))
		}

		run := pipeline.New(p, f, pool, pub, a.config.StagingDir, a.config.OutputDir, a.config.TargetDepth, opts...)
		if err := run.Run(ctx); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
