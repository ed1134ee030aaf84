// Package convert maps model families to their conversion capabilities and
// defines the jobs handed to a conversion engine.
package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencoastal/currentcast/internal/catalog"
)

var (
	// ErrInvalidFormat is returned for data coding formats outside 1..4.
	ErrInvalidFormat = errors.New("invalid data coding format")

	// ErrIndexRequired is returned when a regular-grid conversion is
	// requested for a model family that cannot provide an index.
	ErrIndexRequired = errors.New("data coding format requires an index file")

	// ErrConversion is wrapped by all errors raised by the conversion
	// engine itself, as opposed to job validation.
	ErrConversion = errors.New("conversion failed")
)

// ModelFile is a handle on a staged raw model output file.
type ModelFile struct {
	Path string
	Type catalog.ModelType
}

// Index is a handle on a regular-grid index file.
type Index struct {
	Path string
	Type catalog.ModelType
}

// Capability describes how files of one model family are opened for
// conversion. NewIndex is nil for families that have no regular-grid index.
type Capability struct {
	NewModelFile func(path string) ModelFile
	NewIndex     func(path string) Index
}

func modelFileCtor(mt catalog.ModelType) func(string) ModelFile {
	return func(path string) ModelFile { return ModelFile{Path: path, Type: mt} }
}

func indexCtor(mt catalog.ModelType) func(string) Index {
	return func(path string) Index { return Index{Path: path, Type: mt} }
}

// capabilities is keyed by model family. HYCOM output is ungeorectified and
// carries no index constructor.
var capabilities = map[catalog.ModelType]Capability{
	catalog.ROMS:  {NewModelFile: modelFileCtor(catalog.ROMS), NewIndex: indexCtor(catalog.ROMS)},
	catalog.FVCOM: {NewModelFile: modelFileCtor(catalog.FVCOM), NewIndex: indexCtor(catalog.FVCOM)},
	catalog.POM:   {NewModelFile: modelFileCtor(catalog.POM), NewIndex: indexCtor(catalog.POM)},
	catalog.HYCOM: {NewModelFile: modelFileCtor(catalog.HYCOM)},
}

// Dispatch returns the capability for a model family after validating it
// against the requested data coding format. Validation happens before any
// file is touched.
func Dispatch(mt catalog.ModelType, format catalog.DataCodingFormat) (Capability, error) {
	if format < catalog.FormatTimeSeries || format > catalog.FormatMovingPlatform {
		return Capability{}, fmt.Errorf("%w: %d", ErrInvalidFormat, format)
	}

	c, ok := capabilities[mt]
	if !ok {
		return Capability{}, fmt.Errorf("unsupported model type %q", mt)
	}

	if format == catalog.FormatRegularGrid && c.NewIndex == nil {
		return Capability{}, fmt.Errorf("%w: %s has no index support", ErrIndexRequired, mt)
	}

	return c, nil
}

// Metadata carries the product identification embedded in converted output.
type Metadata struct {
	ModelID      string
	Region       string
	Product      string
	ProducerCode string
	DatatypeCode string
}

// Job is one conversion request: a set of raw inputs, an optional index, and
// the product parameters for the output.
type Job struct {
	// Grid labels the job within a run, e.g. "default" or "subset".
	Grid string

	// Index is nil for ungeorectified conversions.
	Index *Index

	Inputs      []ModelFile
	OutputDir   string
	Cycletime   time.Time
	Metadata    Metadata
	Format      catalog.DataCodingFormat
	TargetDepth float64
	ModelType   catalog.ModelType
}

// Engine runs conversions and builds index files.
type Engine interface {
	// Convert runs one job and returns the paths of the files it produced.
	Convert(ctx context.Context, job Job) ([]string, error)

	// BuildIndex generates a regular-grid index file.
	BuildIndex(ctx context.Context, req BuildIndexRequest) error
}

// BuildIndexRequest describes an index generation run. SubsetField names the
// shapefile attribute that partitions the subset grid.
type BuildIndexRequest struct {
	ModelFile     ModelFile
	OutputPath    string
	CellSize      float64
	ShorelinePath string
	SubsetPath    string
	SubsetField   string
	TargetDepth   float64
	ModelType     catalog.ModelType
}
