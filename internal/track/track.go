// Package track models 2-D survey tracks: ordered samples with position,
// optional per-sample time, and auxiliary measurement fields. Tracks are
// immutable once built; a self-pair crossover run references the same *Track
// on both sides rather than copying it.
package track

import (
	"fmt"
	"math"
)

// Field is one auxiliary data column on a track. Missing samples are NaN.
type Field struct {
	Name   string
	Values []float64
}

// Track is an ordered polyline with optional time and data columns.
type Track struct {
	Name       string
	Geographic bool // X/Y are lon/lat degrees rather than projected units

	X []float64
	Y []float64

	// Time holds the recorded sample times, or nil when the source had no
	// time column. HasTime reports whether at least one entry is usable.
	Time    []float64
	HasTime bool

	Fields []Field

	// Dist is the cumulative along-track distance, monotonically
	// non-decreasing and aligned with the samples.
	Dist []float64

	// timeline is Time when usable, otherwise synthetic node indices so the
	// interpolation abscissa always exists.
	timeline []float64
}

// New assembles a track and precomputes its cumulative distances and
// timeline. distScale converts meters (geographic) or raw coordinate units
// (cartesian) into the configured distance unit.
func New(name string, x, y, tm []float64, fields []Field, geographic bool, distScale float64) (*Track, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("track %s: x/y length mismatch (%d vs %d)", name, len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("track %s: no samples", name)
	}
	if tm != nil && len(tm) != len(x) {
		return nil, fmt.Errorf("track %s: time column length mismatch", name)
	}
	for _, f := range fields {
		if len(f.Values) != len(x) {
			return nil, fmt.Errorf("track %s: field %s length mismatch", name, f.Name)
		}
	}

	t := &Track{
		Name:       name,
		Geographic: geographic,
		X:          x,
		Y:          y,
		Time:       tm,
		Fields:     fields,
	}
	t.Dist = CumulativeDistances(x, y, geographic, distScale)
	t.HasTime = hasUsableTime(tm)
	if t.HasTime {
		t.timeline = tm
	} else {
		t.timeline = DummyTimes(len(x))
	}
	return t, nil
}

func hasUsableTime(tm []float64) bool {
	for _, v := range tm {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Len returns the number of samples.
func (t *Track) Len() int { return len(t.X) }

// Timeline returns sample times, substituting node indices when the track has
// no usable time data.
func (t *Track) Timeline() []float64 { return t.timeline }

// Field returns the values of the named data column, or nil.
func (t *Track) Field(name string) []float64 {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Values
		}
	}
	return nil
}

// FieldNames returns the data column names in order.
func (t *Track) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// TotalDist returns the cumulative distance at the final sample.
func (t *Track) TotalDist() float64 { return t.Dist[len(t.Dist)-1] }

// TimeSpan returns the first and last non-NaN sample times. ok is false when
// the track has no usable time data.
func (t *Track) TimeSpan() (first, last float64, ok bool) {
	if !t.HasTime {
		return math.NaN(), math.NaN(), false
	}
	i := 0
	for i < len(t.Time) && math.IsNaN(t.Time[i]) {
		i++
	}
	j := len(t.Time) - 1
	for j > 0 && math.IsNaN(t.Time[j]) {
		j--
	}
	return t.Time[i], t.Time[j], true
}

// DummyTimes returns synthetic per-sample times 0..n-1, used as a time
// surrogate for tracks without a usable time column.
func DummyTimes(n int) []float64 {
	tm := make([]float64, n)
	for i := range tm {
		tm[i] = float64(i)
	}
	return tm
}
