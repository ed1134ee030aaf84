package catalog

import "time"

// builtinProfiles is the operational model table. Each profile records the
// daily cycle cadence and the observed delay between a cycle time and the
// availability of its files on the file server.
var builtinProfiles = map[string]ModelProfile{
	"cbofs": newBuiltin(builtin{
		id:           "cbofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{0, 6, 12, 18},
		publishDelay: 85 * time.Minute,
		modelType:    ROMS,
		region:       "Chesapeake_Bay",
		product:      "ROMS_Hydrodynamic_Model_Forecasts",
	}),
	"gomofs": newBuiltin(builtin{
		id: "gomofs",
		// 3-hourly output from +3 to +72.
		forecast:     hourRange(3, 72, 3),
		cycles:       []int{0, 6, 12, 18},
		publishDelay: 134 * time.Minute,
		modelType:    ROMS,
		region:       "Gulf_of_Maine",
		product:      "ROMS_Hydrodynamic_Model_Forecasts",
	}),
	"dbofs": newBuiltin(builtin{
		id:           "dbofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{0, 6, 12, 18},
		publishDelay: 80 * time.Minute,
		modelType:    ROMS,
		region:       "Delaware_Bay",
		product:      "ROMS_Hydrodynamic_Model_Forecasts",
	}),
	"tbofs": newBuiltin(builtin{
		id:           "tbofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{0, 6, 12, 18},
		publishDelay: 74 * time.Minute,
		modelType:    ROMS,
		region:       "Tampa_Bay",
		product:      "ROMS_Hydrodynamic_Model_Forecasts",
	}),
	"negofs": newBuiltin(builtin{
		id:           "negofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{3, 9, 15, 21},
		publishDelay: 95 * time.Minute,
		modelType:    FVCOM,
		region:       "Northeast_Gulf_of_Mexico",
		product:      "FVCOM_Hydrodynamic_Model_Forecasts",
	}),
	"nwgofs": newBuiltin(builtin{
		id:           "nwgofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{3, 9, 15, 21},
		publishDelay: 90 * time.Minute,
		modelType:    FVCOM,
		region:       "Northwest_Gulf_of_Mexico",
		product:      "FVCOM_Hydrodynamic_Model_Forecasts",
	}),
	"ngofs": newBuiltin(builtin{
		id:           "ngofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{3, 9, 15, 21},
		publishDelay: 50 * time.Minute,
		modelType:    FVCOM,
		region:       "Northern_Gulf_of_Mexico",
		product:      "FVCOM_Hydrodynamic_Model_Forecasts",
	}),
	"sfbofs": newBuiltin(builtin{
		id:           "sfbofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{3, 9, 15, 21},
		publishDelay: 55 * time.Minute,
		modelType:    FVCOM,
		region:       "San_Francisco_Bay",
		product:      "FVCOM_Hydrodynamic_Model_Forecasts",
	}),
	"leofs": newBuiltin(builtin{
		id:           "leofs",
		forecast:     hourRange(1, 48, 1),
		cycles:       []int{0, 6, 12, 18},
		publishDelay: 100 * time.Minute,
		modelType:    FVCOM,
		region:       "Lake_Erie",
		product:      "FVCOM_Hydrodynamic_Model_Forecasts",
	}),
	"nyofs": newBuiltin(builtin{
		id: "nyofs",
		// One aggregate forecast file per cycle.
		family:       FamilyAggregate,
		cycles:       []int{5, 11, 17, 23},
		publishDelay: 70 * time.Minute,
		modelType:    POM,
		region:       "Port_of_New_York_and_New_Jersey",
		product:      "POM_Hydrodynamic_Model_Forecasts",
	}),
	"wcofs": newBuiltin(builtin{
		id:           "wcofs",
		family:       FamilyAggregateLegacy,
		cycles:       []int{3},
		publishDelay: 190 * time.Minute,
		modelType:    HYCOM,
		region:       "West_Coast",
		product:      "HYCOM_Hydrodynamic_Model_Forecasts",
		// Native-grid product: no precomputed index exists.
		format: FormatUngeorectified,
	}),
}

type builtin struct {
	id           string
	family       TemplateFamily
	forecast     []int
	cycles       []int
	publishDelay time.Duration
	modelType    ModelType
	region       string
	product      string
	format       DataCodingFormat
}

func newBuiltin(b builtin) ModelProfile {
	p := ModelProfile{
		ID:               b.id,
		ForecastHours:    b.forecast,
		CycleHours:       b.cycles,
		PublishDelay:     b.publishDelay,
		ModelType:        b.modelType,
		TemplateFamily:   b.family,
		Region:           b.region,
		Product:          b.product,
		ProducerCode:     "US",
		DatatypeCode:     "S111",
		DataCodingFormat: b.format,
		IndexDefaultPath: "/opt/s100/indexes/" + b.id + "_index_default_500m.nc",
		IndexSubsetPath:  "/opt/s100/indexes/" + b.id + "_index_band4_500m.nc",
	}
	applyDefaults(&p)
	if p.DataCodingFormat == FormatUngeorectified {
		// No regular grid, no index.
		p.IndexDefaultPath = ""
		p.IndexSubsetPath = ""
	}
	return p
}

// hourRange returns the hours from first to last inclusive, stepped.
func hourRange(first, last, step int) []int {
	hours := make([]int, 0, (last-first)/step+1)
	for h := first; h <= last; h += step {
		hours = append(hours, h)
	}
	return hours
}
