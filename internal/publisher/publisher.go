// Package publisher copies converted products to the dissemination share and
// retires the previous cycle's products.
package publisher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ubuntu/decorate"

	"github.com/opencoastal/currentcast/internal/catalog"
	"github.com/opencoastal/currentcast/internal/constants"
	"github.com/opencoastal/currentcast/internal/fileutils"
)

// Publisher copies products to a dissemination directory derived from a
// path template.
type Publisher struct {
	template   string
	outputRoot string
}

// Options are the configurable functional options for the publisher.
type Options func(*Publisher)

// WithTemplate overrides the dissemination directory template. The template
// may contain {yyyymmdd} and {MODEL} tokens.
func WithTemplate(tmpl string) Options {
	return func(p *Publisher) {
		p.template = tmpl
	}
}

// WithOutputRoot overrides the local directory holding converted products.
func WithOutputRoot(dir string) Options {
	return func(p *Publisher) {
		p.outputRoot = dir
	}
}

// New returns a publisher configured with the given options.
func New(args ...Options) Publisher {
	p := Publisher{
		template:   constants.DefaultDisseminationDir,
		outputRoot: constants.DefaultOutputRoot,
	}
	for _, opt := range args {
		opt(&p)
	}
	return p
}

// Dest returns the dissemination directory for a model and cycle.
func (p Publisher) Dest(profile catalog.ModelProfile, cycle time.Time) string {
	r := strings.NewReplacer(
		"{yyyymmdd}", cycle.Format("20060102"),
		"{MODEL}", strings.ToUpper(profile.ID),
	)
	return r.Replace(p.template)
}

// Publish copies every output to the dissemination directory, keeping file
// names. Local products are purged only after every copy succeeded; a
// partial publication leaves the local output directory untouched so the run
// can be retried.
func (p Publisher) Publish(outputs []string, profile catalog.ModelProfile, cycle time.Time) (err error) {
	defer decorate.OnError(&err, "could not publish products for %s", profile.ID)

	// Nothing to publish means nothing to purge either.
	if len(outputs) == 0 {
		return nil
	}

	dest := p.Dest(profile, cycle)
	if err := os.MkdirAll(dest, 0750); err != nil {
		return err
	}

	for _, out := range outputs {
		if err := fileutils.CopyFile(out, filepath.Join(dest, filepath.Base(out))); err != nil {
			return fmt.Errorf("could not copy %s: %v", out, err)
		}
	}

	localDir := filepath.Join(p.outputRoot, profile.ID)
	if err := fileutils.RemoveMatching(localDir, "*"+constants.ProductExt); err != nil {
		return fmt.Errorf("could not purge local products: %v", err)
	}
	return nil
}
