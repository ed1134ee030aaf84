// Package catalog implements the model configuration registry.
// The registry holds one immutable ModelProfile per supported Operational
// Forecast System, built once at startup from the built-in table and
// optionally extended or overridden by a YAML file.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ubuntu/decorate"
	"gopkg.in/yaml.v3"
)

// ErrUnknownModel is returned when a model identifier is not in the registry.
var ErrUnknownModel = errors.New("unknown model identifier")

// ModelType identifies the modelling framework producing a model's output.
type ModelType string

// Supported modelling frameworks.
const (
	ROMS  ModelType = "roms"
	FVCOM ModelType = "fvcom"
	POM   ModelType = "pom"
	HYCOM ModelType = "hycom"
)

// TemplateFamily selects how download URL and filename templates are
// expanded for a model. Aggregate families publish one file per cycle and
// carry no forecast-hour designator; the naming variants are genuinely
// provider specific and are kept as distinct families rather than unified
// into one template grammar.
type TemplateFamily string

// Supported template families.
const (
	// FamilyFields is the per-forecast-hour fields file family.
	FamilyFields TemplateFamily = "fields"
	// FamilyAggregate is the single-file-per-cycle forecast family.
	FamilyAggregate TemplateFamily = "aggregate"
	// FamilyAggregateLegacy is the older single-file naming variant still
	// used by some providers.
	FamilyAggregateLegacy TemplateFamily = "aggregate-legacy"
)

// DataCodingFormat enumerates the spatial layout of a generated product.
type DataCodingFormat int

// Data coding formats defined by the product specification.
const (
	FormatTimeSeries     DataCodingFormat = 1 // fixed stations
	FormatRegularGrid    DataCodingFormat = 2 // requires an index file
	FormatUngeorectified DataCodingFormat = 3 // native grid, no index
	FormatMovingPlatform DataCodingFormat = 4
)

// ModelProfile is the immutable per-model configuration. Profiles are
// created when the registry is built and never mutated afterwards.
type ModelProfile struct {
	ID               string
	FileServer       string
	PathTemplate     string
	FilenameTemplate string

	// ForecastHours lists the forecast projections, in hours from cycle
	// time, in strictly increasing order. Ignored by aggregate families.
	ForecastHours []int
	// CycleHours lists the hours of day at which daily cycles run.
	CycleHours []int
	// PublishDelay is the delay between a cycle time and the availability
	// of its files on the file server.
	PublishDelay time.Duration

	ModelType      ModelType
	TemplateFamily TemplateFamily

	Region       string
	Product      string
	ProducerCode string
	DatatypeCode string

	DataCodingFormat DataCodingFormat

	// IndexDefaultPath and IndexSubsetPath locate the precomputed
	// default-grid and subset-grid index files used by operational runs.
	IndexDefaultPath string
	IndexSubsetPath  string
}

// Catalog is the registry of model profiles.
type Catalog struct {
	profiles map[string]ModelProfile
}

// Load builds the registry from the built-in model table, merged with the
// profiles defined in the YAML file at path. Profiles from the file replace
// built-in profiles with the same identifier. An empty path loads the
// built-in table only.
func Load(path string) (c *Catalog, err error) {
	defer decorate.OnError(&err, "could not load model catalog")

	profiles := make(map[string]ModelProfile, len(builtinProfiles))
	for id, p := range builtinProfiles {
		profiles[id] = p
	}

	if path != "" {
		overrides, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		for id, p := range overrides {
			profiles[id] = p
		}
	}

	for id, p := range profiles {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("model %s: %v", id, err)
		}
	}

	slog.Debug("Model catalog loaded", "models", len(profiles))
	return &Catalog{profiles: profiles}, nil
}

// Get returns the profile for the given model identifier, matched case
// insensitively. It returns ErrUnknownModel for identifiers not in the
// registry.
func (c *Catalog) Get(id string) (ModelProfile, error) {
	p, ok := c.profiles[strings.ToLower(id)]
	if !ok {
		return ModelProfile{}, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	return p, nil
}

// IDs returns the sorted model identifiers in the registry.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.profiles))
	for id := range c.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func loadFile(path string) (map[string]ModelProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read catalog file: %v", err)
	}

	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse catalog file: %v", err)
	}

	profiles := make(map[string]ModelProfile, len(doc.Models))
	for id, spec := range doc.Models {
		p, err := spec.profile(strings.ToLower(id))
		if err != nil {
			return nil, fmt.Errorf("model %s: %v", id, err)
		}
		profiles[p.ID] = p
	}
	return profiles, nil
}

func validate(p ModelProfile) error {
	if p.ID == "" {
		return errors.New("empty model identifier")
	}
	switch p.ModelType {
	case ROMS, FVCOM, POM, HYCOM:
	default:
		return fmt.Errorf("unknown model type %q", p.ModelType)
	}
	switch p.TemplateFamily {
	case FamilyFields, FamilyAggregate, FamilyAggregateLegacy:
	default:
		return fmt.Errorf("unknown template family %q", p.TemplateFamily)
	}
	if p.DataCodingFormat < FormatTimeSeries || p.DataCodingFormat > FormatMovingPlatform {
		return fmt.Errorf("invalid data coding format %d", p.DataCodingFormat)
	}
	if len(p.CycleHours) == 0 {
		return errors.New("no cycle hours configured")
	}
	for _, h := range p.CycleHours {
		if h < 0 || h > 23 {
			return fmt.Errorf("cycle hour %d out of range", h)
		}
	}
	if p.TemplateFamily == FamilyFields {
		if len(p.ForecastHours) == 0 {
			return errors.New("no forecast hours configured")
		}
		for i := 1; i < len(p.ForecastHours); i++ {
			if p.ForecastHours[i] <= p.ForecastHours[i-1] {
				return fmt.Errorf("forecast hours not strictly increasing at index %d", i)
			}
		}
	}
	if p.PublishDelay < 0 {
		return errors.New("negative publish delay")
	}
	return nil
}
