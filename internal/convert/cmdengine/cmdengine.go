// Package cmdengine implements the conversion engine by shelling out to the
// s111convert tool.
package cmdengine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/opencoastal/currentcast/internal/constants"
	"github.com/opencoastal/currentcast/internal/convert"
)

// Engine invokes an external converter binary per job.
type Engine struct {
	bin string
}

// Options are the configurable functional options for the engine.
type Options func(*Engine)

// WithBinary overrides the converter executable.
func WithBinary(path string) Options {
	return func(e *Engine) {
		e.bin = path
	}
}

// New returns an engine configured with the given options.
func New(args ...Options) Engine {
	e := Engine{bin: constants.DefaultConverterBin}
	for _, opt := range args {
		opt(&e)
	}
	return e
}

// Convert runs the converter on one job. The tool prints one produced file
// path per stdout line; a non-zero exit wraps ErrConversion with the
// captured stderr.
func (e Engine) Convert(ctx context.Context, job convert.Job) ([]string, error) {
	args := []string{
		"convert",
		"--model-type", string(job.ModelType),
		"--format", strconv.Itoa(int(job.Format)),
		"--cycletime", job.Cycletime.Format("2006010215"),
		"--output-dir", job.OutputDir,
		"--target-depth", strconv.FormatFloat(job.TargetDepth, 'f', -1, 64),
		"--model", job.Metadata.ModelID,
		"--region", job.Metadata.Region,
		"--product", job.Metadata.Product,
		"--producer", job.Metadata.ProducerCode,
		"--datatype", job.Metadata.DatatypeCode,
	}
	if job.Index != nil {
		args = append(args, "--index", job.Index.Path)
	}
	for _, in := range job.Inputs {
		args = append(args, in.Path)
	}

	out, err := e.run(ctx, args)
	if err != nil {
		return nil, err
	}

	var produced []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			produced = append(produced, line)
		}
	}
	return produced, nil
}

// BuildIndex generates a regular-grid index file.
func (e Engine) BuildIndex(ctx context.Context, req convert.BuildIndexRequest) error {
	args := []string{
		"build-index",
		"--model-type", string(req.ModelType),
		"--cell-size", strconv.FormatFloat(req.CellSize, 'f', -1, 64),
		"--output", req.OutputPath,
		"--target-depth", strconv.FormatFloat(req.TargetDepth, 'f', -1, 64),
	}
	if req.ShorelinePath != "" {
		args = append(args, "--shoreline", req.ShorelinePath)
	}
	if req.SubsetPath != "" {
		args = append(args, "--subset", req.SubsetPath)
		if req.SubsetField != "" {
			args = append(args, "--subset-field", req.SubsetField)
		}
	}
	args = append(args, req.ModelFile.Path)

	_, err := e.run(ctx, args)
	return err
}

func (e Engine) run(ctx context.Context, args []string) (string, error) {
	slog.Debug("Running converter", "bin", e.bin, "args", args)

	cmd := exec.CommandContext(ctx, e.bin, args...)
	cmd.Env = append(os.Environ(), "LANG=C")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s %s: %v: %s", convert.ErrConversion, e.bin, args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

var _ convert.Engine = Engine{}
