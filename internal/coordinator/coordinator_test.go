package coordinator_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencoastal/currentcast/internal/convert"
	"github.com/opencoastal/currentcast/internal/coordinator"
)

// fakeEngine returns canned outputs or errors per grid name.
type fakeEngine struct {
	mu sync.Mutex

	outputs map[string][]string
	errs    map[string]error
	delay   map[string]time.Duration

	converted []string
	inFlight  atomic.Int32
	maxSeen   atomic.Int32
}

func (e *fakeEngine) Convert(ctx context.Context, job convert.Job) ([]string, error) {
	cur := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		max := e.maxSeen.Load()
		if cur <= max || e.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}

	if d := e.delay[job.Grid]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e.mu.Lock()
	e.converted = append(e.converted, job.Grid)
	e.mu.Unlock()

	if err := e.errs[job.Grid]; err != nil {
		return nil, err
	}
	return e.outputs[job.Grid], nil
}

func (e *fakeEngine) BuildIndex(ctx context.Context, req convert.BuildIndexRequest) error {
	return errors.New("not implemented")
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		workers []int

		wantErr bool
	}{
		"Default worker count": {},
		"Explicit workers":     {workers: []int{4}},
		"Single worker":        {workers: []int{1}},

		"Error on zero workers":     {workers: []int{0}, wantErr: true},
		"Error on negative workers": {workers: []int{-3}, wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var opts []coordinator.Options
			for _, w := range tc.workers {
				opts = append(opts, coordinator.WithWorkers(w))
			}

			_, err := coordinator.New(&fakeEngine{}, opts...)
			if tc.wantErr {
				require.Error(t, err, "New should have failed")
				return
			}
			require.NoError(t, err, "New should not have failed")
		})
	}
}

func TestRunCollectsAllOutputs(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{outputs: map[string][]string{
		"default": {"/out/a.h5", "/out/b.h5", "/out/c.h5"},
		"subset":  {"/out/s.h5"},
	}}
	pool, err := coordinator.New(engine)
	require.NoError(t, err, "Setup: New should not fail")

	outputs, err := pool.Run(context.Background(),
		convert.Job{Grid: "default"},
		convert.Job{Grid: "subset"},
	)
	require.NoError(t, err, "Run should not have failed")

	assert.ElementsMatch(t,
		[]string{"/out/a.h5", "/out/b.h5", "/out/c.h5", "/out/s.h5"},
		outputs, "Run should return the union of all job outputs")
}

func TestRunFailsTogether(t *testing.T) {
	t.Parallel()

	// The default grid produces outputs before the subset grid fails.
	engine := &fakeEngine{
		outputs: map[string][]string{"default": {"/out/a.h5", "/out/b.h5", "/out/c.h5"}},
		errs:    map[string]error{"subset": errors.New("index mismatch")},
		delay:   map[string]time.Duration{"subset": 20 * time.Millisecond},
	}
	pool, err := coordinator.New(engine)
	require.NoError(t, err, "Setup: New should not fail")

	outputs, err := pool.Run(context.Background(),
		convert.Job{Grid: "default"},
		convert.Job{Grid: "subset"},
	)
	require.Error(t, err, "Run should fail when any job fails")
	assert.Empty(t, outputs, "A failed job should leave nothing to publish")
	assert.ElementsMatch(t, []string{"default", "subset"}, engine.converted, "Every job should still have been run")
}

func TestRunAggregatesFailures(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{errs: map[string]error{
		"default": errors.New("bad default grid"),
		"subset":  errors.New("bad subset grid"),
	}}
	pool, err := coordinator.New(engine)
	require.NoError(t, err, "Setup: New should not fail")

	_, err = pool.Run(context.Background(),
		convert.Job{Grid: "default"},
		convert.Job{Grid: "subset"},
	)
	require.Error(t, err, "Run should fail when all jobs fail")
	assert.ErrorContains(t, err, "bad default grid", "All job failures should be reported")
	assert.ErrorContains(t, err, "bad subset grid", "All job failures should be reported")
}

func TestRunBoundsParallelism(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{
		outputs: map[string][]string{},
		delay: map[string]time.Duration{
			"j1": 30 * time.Millisecond, "j2": 30 * time.Millisecond,
			"j3": 30 * time.Millisecond, "j4": 30 * time.Millisecond,
		},
	}
	pool, err := coordinator.New(engine, coordinator.WithWorkers(1))
	require.NoError(t, err, "Setup: New should not fail")

	_, err = pool.Run(context.Background(),
		convert.Job{Grid: "j1"}, convert.Job{Grid: "j2"},
		convert.Job{Grid: "j3"}, convert.Job{Grid: "j4"},
	)
	require.NoError(t, err, "Run should not have failed")
	assert.LessOrEqual(t, engine.maxSeen.Load(), int32(1), "A single worker should never run jobs concurrently")
}

func TestRunNoJobs(t *testing.T) {
	t.Parallel()

	pool, err := coordinator.New(&fakeEngine{})
	require.NoError(t, err, "Setup: New should not fail")

	outputs, err := pool.Run(context.Background())
	require.NoError(t, err, "Run with no jobs should succeed")
	assert.Empty(t, outputs, "Run with no jobs should return no outputs")
}
