package publisher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencoastal/currentcast/internal/catalog"
	"github.com/opencoastal/currentcast/internal/publisher"
	"github.com/opencoastal/currentcast/internal/testutils"
)

var testCycle = time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)

func cbofs() catalog.ModelProfile {
	return catalog.ModelProfile{ID: "cbofs"}
}

func TestDest(t *testing.T) {
	t.Parallel()

	p := publisher.New(publisher.WithTemplate("/win/ofsdata/{yyyymmdd}/HDF5/S111_1.0.0/{MODEL}"))

	got := p.Dest(cbofs(), testCycle)
	assert.Equal(t, "/win/ofsdata/20240102/HDF5/S111_1.0.0/CBOFS", got,
		"Dest should expand the cycle date and uppercase the model")
}

func TestPublish(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outputRoot := filepath.Join(root, "hdf5")
	destTemplate := filepath.Join(root, "win", "{yyyymmdd}", "{MODEL}")

	outputs := []string{
		filepath.Join(outputRoot, "cbofs", "S111US_20240102T06Z_CBOFS_TYP2.h5"),
		filepath.Join(outputRoot, "cbofs", "S111US_20240102T06Z_CBOFS_TYP2_BAND4.h5"),
	}
	for _, out := range outputs {
		testutils.WriteFile(t, out, "product:"+filepath.Base(out))
	}
	keep := filepath.Join(outputRoot, "cbofs", "run.log")
	testutils.WriteFile(t, keep, "log")

	p := publisher.New(publisher.WithTemplate(destTemplate), publisher.WithOutputRoot(outputRoot))
	err := p.Publish(outputs, cbofs(), testCycle)
	require.NoError(t, err, "Publish should not have failed")

	dest := filepath.Join(root, "win", "20240102", "CBOFS")
	published := testutils.GetDirContents(t, dest)
	assert.Equal(t, map[string]string{
		"S111US_20240102T06Z_CBOFS_TYP2.h5":       "product:S111US_20240102T06Z_CBOFS_TYP2.h5",
		"S111US_20240102T06Z_CBOFS_TYP2_BAND4.h5": "product:S111US_20240102T06Z_CBOFS_TYP2_BAND4.h5",
	}, published, "Every output should be copied keeping its name")

	for _, out := range outputs {
		assert.NoFileExists(t, out, "Local products should be purged after a full publication")
	}
	assert.FileExists(t, keep, "Only product files should be purged from the output directory")
}

func TestPublishKeepsLocalsOnCopyFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outputRoot := filepath.Join(root, "hdf5")

	existing := filepath.Join(outputRoot, "cbofs", "S111US_20240102T06Z_CBOFS_TYP2.h5")
	testutils.WriteFile(t, existing, "product")
	missing := filepath.Join(outputRoot, "cbofs", "S111US_20240102T06Z_CBOFS_TYP2_BAND4.h5")

	p := publisher.New(
		publisher.WithTemplate(filepath.Join(root, "win", "{yyyymmdd}", "{MODEL}")),
		publisher.WithOutputRoot(outputRoot),
	)

	// The second output does not exist, so the batch fails mid-copy.
	err := p.Publish([]string{existing, missing}, cbofs(), testCycle)
	require.Error(t, err, "Publish should fail when a copy fails")

	assert.FileExists(t, existing, "No local product may be purged after a partial publication")
}

func TestPublishNoOutputsIsNoop(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outputRoot := filepath.Join(root, "hdf5")
	leftover := filepath.Join(outputRoot, "cbofs", "S111US_20231225T00Z_CBOFS_TYP2.h5")
	testutils.WriteFile(t, leftover, "old product")

	p := publisher.New(
		publisher.WithTemplate(filepath.Join(root, "win", "{yyyymmdd}", "{MODEL}")),
		publisher.WithOutputRoot(outputRoot),
	)

	err := p.Publish(nil, cbofs(), testCycle)
	require.NoError(t, err, "Publish with no outputs should succeed")

	dest := filepath.Join(root, "win", "20240102", "CBOFS")
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "No destination directory should be created without outputs")

	assert.FileExists(t, leftover, "No local product may be purged without outputs")
}
