package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencoastal/currentcast/internal/fileutils"
	"github.com/opencoastal/currentcast/internal/testutils"
)

func TestCopyFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		missingSrc  bool
		existingDst bool
		unwritable  bool

		wantErr bool
	}{
		"Copies content":               {},
		"Overwrites existing file":     {existingDst: true},
		"Error on missing source":      {missingSrc: true, wantErr: true},
		"Error on unwritable location": {unwritable: true, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			src := filepath.Join(dir, "src")
			if !tc.missingSrc {
				testutils.WriteFile(t, src, "payload")
			}

			dst := filepath.Join(dir, "dst")
			if tc.existingDst {
				testutils.WriteFile(t, dst, "previous")
			}
			if tc.unwritable {
				dst = filepath.Join(dir, "absent-dir", "dst")
			}

			err := fileutils.CopyFile(src, dst)
			if tc.wantErr {
				require.Error(t, err, "CopyFile should have failed")
				return
			}
			require.NoError(t, err, "CopyFile should not have failed")

			got, err := os.ReadFile(dst)
			require.NoError(t, err, "Destination should exist")
			assert.Equal(t, "payload", string(got), "Destination should hold the source content")
		})
	}
}

func TestRemoveMatching(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files   []string
		pattern string

		wantLeft []string
	}{
		"Removes matching files only": {
			files:    []string{"a.nc", "b.nc", "keep.txt"},
			pattern:  "*.nc",
			wantLeft: []string{"keep.txt"},
		},
		"No matches is a no-op": {
			files:    []string{"keep.txt"},
			pattern:  "*.nc",
			wantLeft: []string{"keep.txt"},
		},
		"Empty directory": {
			pattern: "*.nc",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			for _, f := range tc.files {
				testutils.WriteFile(t, filepath.Join(dir, f), "content")
			}

			err := fileutils.RemoveMatching(dir, tc.pattern)
			require.NoError(t, err, "RemoveMatching should not have failed")

			left := testutils.GetDirContents(t, dir)
			var names []string
			for f := range left {
				names = append(names, f)
			}
			assert.ElementsMatch(t, tc.wantLeft, names, "Only non-matching files should remain")
		})
	}
}

func TestRemoveMatchingMissingDir(t *testing.T) {
	t.Parallel()

	err := fileutils.RemoveMatching(filepath.Join(t.TempDir(), "absent"), "*.nc")
	assert.NoError(t, err, "A missing directory should not be an error")
}

func TestAtomicWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "file")

	require.NoError(t, fileutils.AtomicWrite(path, []byte("first")), "AtomicWrite should not fail")
	require.NoError(t, fileutils.AtomicWrite(path, []byte("second")), "AtomicWrite should overwrite")

	got, err := os.ReadFile(path)
	require.NoError(t, err, "File should exist")
	assert.Equal(t, "second", string(got), "File should hold the last written content")

	leftovers := testutils.GetDirContents(t, dir)
	assert.Len(t, leftovers, 1, "No temporary files should be left behind")
}
