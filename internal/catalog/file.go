package catalog

import (
	"fmt"
	"time"

	"github.com/opencoastal/currentcast/internal/constants"
)

// Default download templates per family. Cycle date/hour and model
// identifier are injected at fetch time; {forecast} expands to the
// zero-padded forecast designator (e.g. f012) for the fields family.
const (
	defaultFieldsPathTemplate = "/pub/data/nccf/com/nos/prod/{model}.{yyyymmdd}/nos.{model}.fields.{forecast}.{yyyymmdd}.t{hh}z.nc"
	defaultFieldsFilename     = "nos.{model}.fields.{forecast}.{yyyymmdd}.t{hh}z.nc"

	defaultAggregatePathTemplate = "/pub/data/nccf/com/nos/prod/{model}.{yyyymmdd}/nos.{model}.fields.forecast.{yyyymmdd}.t{hh}z.nc"
	defaultAggregateFilename     = "nos.{model}.fields.forecast.{yyyymmdd}.t{hh}z.nc"

	defaultAggregateLegacyPathTemplate = "/pub/data/nccf/com/nos/prod/{model}.{yyyymmdd}/{model}.t{hh}z.{yyyymmdd}.fields.forecast.nc"
	defaultAggregateLegacyFilename     = "{model}.t{hh}z.{yyyymmdd}.fields.forecast.nc"
)

type catalogFile struct {
	Models map[string]profileSpec `yaml:"models"`
}

// profileSpec is the on-disk representation of a ModelProfile. Zero values
// fall back to family defaults so catalog files only need to state what
// differs from the common case.
type profileSpec struct {
	FileServer       string `yaml:"file_server"`
	PathTemplate     string `yaml:"path_template"`
	FilenameTemplate string `yaml:"filename_template"`

	ForecastHours []int  `yaml:"forecast_hours"`
	CycleHours    []int  `yaml:"cycle_hours"`
	PublishDelay  string `yaml:"publish_delay"`

	ModelType      string `yaml:"model_type"`
	TemplateFamily string `yaml:"template_family"`

	Region       string `yaml:"region"`
	Product      string `yaml:"product"`
	ProducerCode string `yaml:"producer_code"`
	DatatypeCode string `yaml:"datatype_code"`

	DataCodingFormat int `yaml:"data_coding_format"`

	IndexDefaultPath string `yaml:"index_default"`
	IndexSubsetPath  string `yaml:"index_subset"`
}

func (s profileSpec) profile(id string) (ModelProfile, error) {
	p := ModelProfile{
		ID:               id,
		FileServer:       s.FileServer,
		PathTemplate:     s.PathTemplate,
		FilenameTemplate: s.FilenameTemplate,
		ForecastHours:    s.ForecastHours,
		CycleHours:       s.CycleHours,
		ModelType:        ModelType(s.ModelType),
		TemplateFamily:   TemplateFamily(s.TemplateFamily),
		Region:           s.Region,
		Product:          s.Product,
		ProducerCode:     s.ProducerCode,
		DatatypeCode:     s.DatatypeCode,
		DataCodingFormat: DataCodingFormat(s.DataCodingFormat),
		IndexDefaultPath: s.IndexDefaultPath,
		IndexSubsetPath:  s.IndexSubsetPath,
	}

	if s.PublishDelay != "" {
		d, err := time.ParseDuration(s.PublishDelay)
		if err != nil {
			return ModelProfile{}, fmt.Errorf("invalid publish delay %q: %v", s.PublishDelay, err)
		}
		p.PublishDelay = d
	}

	applyDefaults(&p)
	return p, nil
}

// applyDefaults fills the fields a profile spec may omit.
func applyDefaults(p *ModelProfile) {
	if p.FileServer == "" {
		p.FileServer = constants.DefaultFileServer
	}
	if p.TemplateFamily == "" {
		p.TemplateFamily = FamilyFields
	}
	if p.DataCodingFormat == 0 {
		p.DataCodingFormat = FormatRegularGrid
	}

	if p.PathTemplate == "" {
		switch p.TemplateFamily {
		case FamilyAggregate:
			p.PathTemplate = defaultAggregatePathTemplate
		case FamilyAggregateLegacy:
			p.PathTemplate = defaultAggregateLegacyPathTemplate
		default:
			p.PathTemplate = defaultFieldsPathTemplate
		}
	}
	if p.FilenameTemplate == "" {
		switch p.TemplateFamily {
		case FamilyAggregate:
			p.FilenameTemplate = defaultAggregateFilename
		case FamilyAggregateLegacy:
			p.FilenameTemplate = defaultAggregateLegacyFilename
		default:
			p.FilenameTemplate = defaultFieldsFilename
		}
	}
}
