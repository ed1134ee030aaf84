// Package cycle computes and validates model forecast cycle times.
package cycle

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/opencoastal/currentcast/internal/catalog"
)

// ErrUnresolvable is returned when no candidate cycle in the trailing two-day
// window satisfies the model's publish delay.
var ErrUnresolvable = errors.New("latest model cycle time cannot be determined")

// ErrMisaligned is returned when an explicit cycle time does not fall on one
// of the model's configured cycle hours.
var ErrMisaligned = errors.New("cycle time does not match a configured model cycle")

// cycletimeLayout is the wire format for explicit cycle times (YYYYMMDDHH).
const cycletimeLayout = "2006010215"

// Resolve returns the latest cycle time for the profile that should be
// available on the file server at the given instant.
//
// It enumerates yesterday's and today's cycle timestamps, scans them in
// reverse chronological order, and returns the first candidate c satisfying
// now >= c + publish delay (boundary inclusive). now is taken as an explicit
// argument so resolution stays deterministic and testable; the result is
// monotonic non-decreasing in now for a fixed profile.
func Resolve(now time.Time, p catalog.ModelProfile) (time.Time, error) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	candidates := make([]time.Time, 0, 2*len(p.CycleHours))
	for _, day := range []time.Time{midnight.AddDate(0, 0, -1), midnight} {
		for _, h := range p.CycleHours {
			candidates = append(candidates, day.Add(time.Duration(h)*time.Hour))
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })

	for i := len(candidates) - 1; i >= 0; i-- {
		if !now.Before(candidates[i].Add(p.PublishDelay)) {
			return candidates[i], nil
		}
	}

	return time.Time{}, fmt.Errorf("%w for model %s", ErrUnresolvable, p.ID)
}

// Parse parses an explicit cycle time in YYYYMMDDHH form, interpreted as UTC,
// and checks it against the profile's configured cycle hours.
func Parse(s string, p catalog.ModelProfile) (time.Time, error) {
	t, err := time.Parse(cycletimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cycle time %q, format must be YYYYMMDDHH: %v", s, err)
	}

	if !slices.Contains(p.CycleHours, t.Hour()) {
		return time.Time{}, fmt.Errorf("%w: %s runs at hours %v, got %02d", ErrMisaligned, p.ID, p.CycleHours, t.Hour())
	}
	return t, nil
}
