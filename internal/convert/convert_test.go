package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencoastal/currentcast/internal/catalog"
	"github.com/opencoastal/currentcast/internal/convert"
)

func TestDispatch(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		modelType catalog.ModelType
		format    catalog.DataCodingFormat

		wantIndex  bool
		wantErr    error
		wantAnyErr bool
	}{
		"ROMS on a regular grid":          {modelType: catalog.ROMS, format: catalog.FormatRegularGrid, wantIndex: true},
		"FVCOM on a regular grid":         {modelType: catalog.FVCOM, format: catalog.FormatRegularGrid, wantIndex: true},
		"POM on a regular grid":           {modelType: catalog.POM, format: catalog.FormatRegularGrid, wantIndex: true},
		"HYCOM on the native grid":        {modelType: catalog.HYCOM, format: catalog.FormatUngeorectified},
		"ROMS time series needs no index": {modelType: catalog.ROMS, format: catalog.FormatTimeSeries, wantIndex: true},
		"Moving platform format":          {modelType: catalog.FVCOM, format: catalog.FormatMovingPlatform, wantIndex: true},

		"Error on regular grid without index support": {modelType: catalog.HYCOM, format: catalog.FormatRegularGrid, wantErr: convert.ErrIndexRequired},
		"Error on format zero":                        {modelType: catalog.ROMS, format: 0, wantErr: convert.ErrInvalidFormat},
		"Error on format above range":                 {modelType: catalog.ROMS, format: 5, wantErr: convert.ErrInvalidFormat},
		"Error on unknown model type":                 {modelType: "spectral", format: catalog.FormatRegularGrid, wantAnyErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cap, err := convert.Dispatch(tc.modelType, tc.format)
			if tc.wantErr != nil || tc.wantAnyErr {
				require.Error(t, err, "Dispatch should have failed")
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr, "Dispatch returned an unexpected error kind")
				}
				return
			}
			require.NoError(t, err, "Dispatch should not have failed")

			require.NotNil(t, cap.NewModelFile, "Every capability should open model files")
			mf := cap.NewModelFile("/staging/file.nc")
			assert.Equal(t, tc.modelType, mf.Type, "Model file handle should carry the model type")
			assert.Equal(t, "/staging/file.nc", mf.Path, "Model file handle should carry its path")

			if tc.wantIndex {
				require.NotNil(t, cap.NewIndex, "Capability should support indexes")
				idx := cap.NewIndex("/indexes/idx.nc")
				assert.Equal(t, tc.modelType, idx.Type, "Index handle should carry the model type")
			} else {
				assert.Nil(t, cap.NewIndex, "Capability should not support indexes")
			}
		})
	}
}

func TestDispatchValidatesBeforeConstruction(t *testing.T) {
	t.Parallel()

	// Validation must not depend on any file existing.
	_, err := convert.Dispatch(catalog.HYCOM, catalog.FormatRegularGrid)
	require.ErrorIs(t, err, convert.ErrIndexRequired, "Format validation should happen before any file is opened")
}
