package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opencoastal/currentcast/internal/convert"
	"github.com/opencoastal/currentcast/internal/convert/cmdengine"
)

func (a *App) installBuildIndex() {
	var req buildIndexArgs

	cmd := &cobra.Command{
		Use:   "build-index MODEL",
		Short: "Generate a regular-grid index file for a model",
		Long: `Generate the index file that maps a model's native grid onto a regular grid
of the given cell size. The index only needs rebuilding when the model grid
or the target resolution changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.runBuildIndex(ctx, args[0], req)
		},
	}
	cmd.Flags().StringVar(&req.inputFile, "input-file", "", "raw model file providing the native grid")
	cmd.Flags().StringVar(&req.indexFile, "index-file", "", "path of the index file to write")
	cmd.Flags().Float64Var(&req.cellSize, "cell-size", 0, "regular grid cell size in meters")
	cmd.Flags().StringVar(&req.shoreline, "shoreline-shp", "", "shoreline shapefile used to mask land cells")
	cmd.Flags().StringVar(&req.subset, "subset-shp", "", "subset shapefile restricting the index extent")
	cmd.Flags().StringVar(&req.subsetField, "subset-field", "", "shapefile attribute partitioning the subset grid")

	for _, f := range []string{"input-file", "cell-size"} {
		if err := cmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", f, err))
		}
	}

	a.cmd.AddCommand(cmd)
}

type buildIndexArgs struct {
	inputFile   string
	indexFile   string
	cellSize    float64
	shoreline   string
	subset      string
	subsetField string
}

func (a *App) runBuildIndex(ctx context.Context, model string, args buildIndexArgs) error {
	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}
	p, err := cat.Get(model)
	if err != nil {
		return err
	}

	cap, err := convert.Dispatch(p.ModelType, p.DataCodingFormat)
	if err != nil {
		return err
	}
	if cap.NewIndex == nil {
		return fmt.Errorf("model type %s has no regular-grid index", p.ModelType)
	}

	if args.cellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %g", args.cellSize)
	}
	if _, err := os.Stat(args.inputFile); err != nil {
		return fmt.Errorf("input file is not accessible: %v", err)
	}
	for _, shp := range []string{args.shoreline, args.subset} {
		if shp == "" {
			continue
		}
		if _, err := os.Stat(shp); err != nil {
			return fmt.Errorf("shapefile is not accessible: %v", err)
		}
	}

	if args.indexFile == "" {
		args.indexFile = p.IndexDefaultPath
	}
	if args.indexFile == "" {
		return fmt.Errorf("no index file path given and %s has no default index path", p.ID)
	}

	engine := cmdengine.New(cmdengine.WithBinary(a.config.Converter))
	return engine.BuildIndex(ctx, convert.BuildIndexRequest{
		ModelFile:     cap.NewModelFile(args.inputFile),
		OutputPath:    args.indexFile,
		CellSize:      args.cellSize,
		ShorelinePath: args.shoreline,
		SubsetPath:    args.subset,
		SubsetField:   args.subsetField,
		TargetDepth:   a.config.TargetDepth,
		ModelType:     p.ModelType,
	})
}
