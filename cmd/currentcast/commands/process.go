package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencoastal/currentcast/internal/catalog"
	"github.com/opencoastal/currentcast/internal/convert"
	"github.com/opencoastal/currentcast/internal/convert/cmdengine"
	"github.com/opencoastal/currentcast/internal/cycle"
	"github.com/opencoastal/currentcast/internal/fetcher"
)

func (a *App) installProcess() {
	var (
		cycletime  string
		inputFiles []string
		indexPath  string
		noIndex    bool
	)

	cmd := &cobra.Command{
		Use:   "process MODEL",
		Short: "Convert a single model cycle without publishing",
		Long: `Convert one forecast cycle of a model on its default grid and leave the
products in the output directory. Raw files are downloaded unless explicit
input files are given. Nothing is copied to the dissemination directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.runProcess(ctx, args[0], cycletime, inputFiles, indexPath, noIndex)
		},
	}
	cmd.Flags().StringVar(&cycletime, "cycletime", "", "process an explicit cycle (YYYYMMDDHH) instead of the latest one")
	cmd.Flags().StringArrayVar(&inputFiles, "input-file", nil, "use an already staged raw file instead of downloading (repeatable)")
	cmd.Flags().StringVar(&indexPath, "index-file", "", "override the default index file")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "convert without a regular-grid index")

	a.cmd.AddCommand(cmd)
}

func (a *App) runProcess(ctx context.Context, model, cycletime string, inputFiles []string, indexPath string, noIndex bool) error {
	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}
	p, err := cat.Get(model)
	if err != nil {
		return err
	}

	var ct time.Time
	if cycletime != "" {
		if ct, err = cycle.Parse(cycletime, p); err != nil {
			return err
		}
	} else {
		if ct, err = cycle.Resolve(time.Now(), p); err != nil {
			return err
		}
	}

	format := p.DataCodingFormat
	if noIndex {
		format = catalog.FormatUngeorectified
	}
	cap, err := convert.Dispatch(p.ModelType, format)
	if err != nil {
		return err
	}
	if indexPath == "" {
		indexPath = p.IndexDefaultPath
	}
	if format == catalog.FormatRegularGrid && indexPath == "" {
		return fmt.Errorf("%w: %s has no default index configured", convert.ErrIndexRequired, p.ID)
	}

	var inputs []convert.ModelFile
	if len(inputFiles) > 0 {
		for _, in := range inputFiles {
			if _, err := os.Stat(in); err != nil {
				return fmt.Errorf("input file is not accessible: %v", err)
			}
			inputs = append(inputs, cap.NewModelFile(in))
		}
	} else {
		f := fetcher.New(fetcher.WithBaseURL(a.config.FileServer))
		staged, err := f.Fetch(ctx, p, ct, a.config.StagingDir)
		if err != nil {
			return err
		}
		for _, s := range staged {
			inputs = append(inputs, cap.NewModelFile(s.Path))
		}
	}

	outputDir := filepath.Join(a.config.OutputDir, p.ID)
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return err
	}

	job := convert.Job{
		Grid:      "default",
		Inputs:    inputs,
		OutputDir: outputDir,
		Cycletime: ct,
		Metadata: convert.Metadata{
			ModelID:      p.ID,
			Region:       p.Region,
			Product:      p.Product,
			ProducerCode: p.ProducerCode,
			DatatypeCode: p.DatatypeCode,
		},
		Format:      format,
		TargetDepth: a.config.TargetDepth,
		ModelType:   p.ModelType,
	}
	if cap.NewIndex != nil && format == catalog.FormatRegularGrid {
		idx := cap.NewIndex(indexPath)
		job.Index = &idx
	}

	engine := cmdengine.New(cmdengine.WithBinary(a.config.Converter))
	outputs, err := engine.Convert(ctx, job)
	if err != nil {
		return err
	}

	for _, out := range outputs {
		fmt.Println(out)
	}
	return nil
}
