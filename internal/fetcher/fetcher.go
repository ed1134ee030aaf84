// Package fetcher downloads the raw model output files for a forecast cycle
// into a per-model staging directory.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ubuntu/decorate"

	"github.com/opencoastal/currentcast/internal/catalog"
	"github.com/opencoastal/currentcast/internal/constants"
	"github.com/opencoastal/currentcast/internal/fileutils"
)

// ErrDownload is wrapped by all errors caused by a failed or incomplete
// download, as opposed to local staging problems.
var ErrDownload = errors.New("download failed")

// StagedFile is one raw model file placed in the staging directory.
type StagedFile struct {
	// Path is the absolute location of the staged file.
	Path string

	// ForecastHour is the forecast projection the file covers, or -1 when
	// the file is a whole-run aggregate.
	ForecastHour int

	// ModelID identifies the model the file belongs to.
	ModelID string
}

// Manager handles staging-directory hygiene and file acquisition.
type Manager struct {
	baseURL string
	client  *http.Client
}

// Options are the configurable functional options for the fetcher.
type Options func(*Manager)

// WithBaseURL overrides the file server the profile points at.
func WithBaseURL(url string) Options {
	return func(m *Manager) {
		m.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(c *http.Client) Options {
	return func(m *Manager) {
		m.client = c
	}
}

// New returns a fetcher configured with the given options.
func New(args ...Options) Manager {
	m := Manager{
		client: &http.Client{Timeout: 10 * time.Minute},
	}
	for _, opt := range args {
		opt(&m)
	}
	return m
}

// Fetch stages every raw file of the cycle under stagingRoot/<model id>.
//
// The staging directory is created if needed and purged of stale raw files
// before any download starts, so a successful return means the directory
// holds exactly the files of this cycle. Files are fetched sequentially in
// forecast-hour order; the first failure aborts the run and leaves already
// staged files in place.
func (m Manager) Fetch(ctx context.Context, p catalog.ModelProfile, cycle time.Time, stagingRoot string) (files []StagedFile, err error) {
	defer decorate.OnError(&err, "could not stage files for %s cycle %s", p.ID, cycle.Format("2006010215"))

	dir := filepath.Join(stagingRoot, p.ID)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	if err := fileutils.RemoveMatching(dir, "*"+constants.RawInputExt); err != nil {
		return nil, fmt.Errorf("could not clean staging directory: %v", err)
	}

	base := m.baseURL
	if base == "" {
		base = p.FileServer
	}

	switch p.TemplateFamily {
	case catalog.FamilyFields:
		for _, fh := range p.ForecastHours {
			url := base + expand(p.PathTemplate, p, cycle, fh)
			dest := filepath.Join(dir, localName(p, cycle, fh, url))
			if err := m.download(ctx, url, dest); err != nil {
				return nil, err
			}
			files = append(files, StagedFile{Path: dest, ForecastHour: fh, ModelID: p.ID})
		}
	case catalog.FamilyAggregate, catalog.FamilyAggregateLegacy:
		url := base + expand(p.PathTemplate, p, cycle, -1)
		dest := filepath.Join(dir, localName(p, cycle, -1, url))
		if err := m.download(ctx, url, dest); err != nil {
			return nil, err
		}
		files = append(files, StagedFile{Path: dest, ForecastHour: -1, ModelID: p.ID})
	default:
		return nil, fmt.Errorf("unknown template family %q", p.TemplateFamily)
	}

	return files, nil
}

// localName returns the staged file name: the expanded filename template
// when the profile carries one, the remote name otherwise.
func localName(p catalog.ModelProfile, cycle time.Time, forecastHour int, url string) string {
	if p.FilenameTemplate == "" {
		return filepath.Base(url)
	}
	return filepath.Base(expand(p.FilenameTemplate, p, cycle, forecastHour))
}

// expand substitutes the cycle and model tokens of a path template.
func expand(tmpl string, p catalog.ModelProfile, cycle time.Time, forecastHour int) string {
	r := strings.NewReplacer(
		"{model}", p.ID,
		"{yyyymmdd}", cycle.Format("20060102"),
		"{hh}", cycle.Format("15"),
		"{forecast}", fmt.Sprintf("f%03d", forecastHour),
	)
	return r.Replace(tmpl)
}

func (m Manager) download(ctx context.Context, url, dest string) error {
	slog.Debug("Downloading model file", "url", url, "dest", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", ErrDownload, url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		// A truncated file must not survive to be mistaken for a good one.
		os.Remove(dest)
		return fmt.Errorf("%w: interrupted transfer of %s: %v", ErrDownload, url, err)
	}
	return f.Close()
}
