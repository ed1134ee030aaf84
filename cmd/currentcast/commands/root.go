// Package commands contains the commands of the currentcast CLI.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opencoastal/currentcast/internal/catalog"
	"github.com/opencoastal/currentcast/internal/cli"
	"github.com/opencoastal/currentcast/internal/constants"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int
	JSONLogs  bool `mapstructure:"json-logs"`

	FileServer       string  `mapstructure:"file-server"`
	StagingDir       string  `mapstructure:"staging-dir"`
	OutputDir        string  `mapstructure:"output-dir"`
	DisseminationDir string  `mapstructure:"dissemination-dir"`
	ModelConfig      string  `mapstructure:"model-config"`
	Converter        string  `mapstructure:"converter"`
	Workers          int     `mapstructure:"workers"`
	TargetDepth      float64 `mapstructure:"target-depth"`
}

// New registers commands and returns a new App.
func New() (*App, error) {
	a := App{}
	a.cmd = &cobra.Command{
		Use:           fmt.Sprintf("%s COMMAND", constants.CmdName),
		Short:         "Ocean model surface current forecast processing",
		Long:          "Currentcast acquires NOAA operational forecast system output and converts it to S-111 surface current products.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true

			cli.SetVerbosity(a.config.Verbosity) // Set verbosity before loading config
			if err := cli.InitViperConfig(constants.CmdName, a.cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration into struct: %w", err)
			}

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs)
			slog.Debug("got app config", "config", a.config)
			return nil
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootFlags(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.viper.BindPFlags(a.cmd.PersistentFlags()); err != nil {
		return nil, err
	}

	a.installOperational()
	a.installProcess()
	a.installBuildIndex()
	a.installVersion()

	return &a, nil
}

func installRootFlags(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "emit logs as JSON on stdout")

	cmd.PersistentFlags().StringVar(&app.config.FileServer, "file-server", constants.DefaultFileServer, "base URL of the model file server")
	cmd.PersistentFlags().StringVar(&app.config.StagingDir, "staging-dir", constants.DefaultStagingRoot, "parent directory for raw model file staging")
	cmd.PersistentFlags().StringVar(&app.config.OutputDir, "output-dir", constants.DefaultOutputRoot, "parent directory for converted products")
	cmd.PersistentFlags().StringVar(&app.config.DisseminationDir, "dissemination-dir", constants.DefaultDisseminationDir, "templated destination directory for published products")
	cmd.PersistentFlags().StringVar(&app.config.ModelConfig, "model-config", "", "YAML file overriding the built-in model catalog")
	cmd.PersistentFlags().StringVar(&app.config.Converter, "converter", constants.DefaultConverterBin, "conversion toolchain binary")
	cmd.PersistentFlags().IntVar(&app.config.Workers, "workers", constants.DefaultWorkers, "number of conversion jobs to run at once")
	cmd.PersistentFlags().Float64Var(&app.config.TargetDepth, "target-depth", constants.DefaultTargetDepth, "interpolation depth below sea surface in meters")

	if err := cmd.MarkPersistentFlagDirname("staging-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark staging-dir flag as directory: %v", err))
	}
	if err := cmd.MarkPersistentFlagDirname("output-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark output-dir flag as directory: %v", err))
	}
	if err := cmd.MarkPersistentFlagFilename("model-config", "yaml", "yml"); err != nil {
		panic(fmt.Sprintf("failed to mark model-config flag as filename: %v", err))
	}
}

// loadCatalog loads the model catalog, applying the optional YAML override.
func (a *App) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(a.config.ModelConfig)
}

// Run executes the command and associated process, returning an error if any.
func (a *App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a *App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns a copy of the root command. Shouldn't be in general necessary aside when running generators.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}
