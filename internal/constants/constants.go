// Package constants is responsible for defining the constants used in the application.
package constants

import "log/slog"

const (
	// CmdName is the name of the command line tool.
	CmdName = "currentcast"

	// Version is the version of the application.
	Version = "Dev"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// DefaultFileServer is the base URL of the NCEP NOMADS HTTP server
	// hosting CO-OPS OFS NetCDF files.
	DefaultFileServer = "https://nomads.ncep.noaa.gov"

	// DefaultStagingRoot is the parent directory for per-model raw input
	// staging subdirectories.
	DefaultStagingRoot = "/opt/s100/netcdf"

	// DefaultOutputRoot is the parent directory for per-model output
	// staging subdirectories holding not-yet-published product files.
	DefaultOutputRoot = "/opt/s100/hdf5"

	// DefaultDisseminationDir is the templated destination tree for
	// published product files. {yyyymmdd} expands to the cycle date and
	// {MODEL} to the uppercased model identifier.
	DefaultDisseminationDir = "/win/ofsdata/{yyyymmdd}/HDF5/S111_1.0.0/{MODEL}"

	// DefaultConverterBin is the external conversion toolchain binary.
	DefaultConverterBin = "s111convert"

	// DefaultWorkers is the size of the conversion worker pool. One worker
	// per grid resolution.
	DefaultWorkers = 2

	// DefaultTargetDepth is the interpolation depth below the sea surface,
	// in meters, used when no explicit depth is requested.
	DefaultTargetDepth = 4.5

	// RawInputExt is the extension of raw model output files in staging.
	RawInputExt = ".nc"

	// ProductExt is the extension of generated product files.
	ProductExt = ".h5"
)
