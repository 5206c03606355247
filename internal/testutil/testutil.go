// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/crossover.report/internal/track"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within tol of want, treating NaN as equal
// to NaN.
func AssertInDelta(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("got %g, want NaN", got)
		}
		return
	}
	if math.Abs(got-want) > tol {
		t.Errorf("got %g, want %g (tol %g)", got, want, tol)
	}
}

// LineTrack builds a straight track from (x0, y0) with per-sample step
// (dx, dy) and sample times starting at t0 advancing by dt.
func LineTrack(t *testing.T, name string, n int, x0, y0, dx, dy, t0, dt float64, fields ...track.Field) *track.Track {
	t.Helper()
	x := make([]float64, n)
	y := make([]float64, n)
	tm := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = x0 + float64(i)*dx
		y[i] = y0 + float64(i)*dy
		tm[i] = t0 + float64(i)*dt
	}
	trk, err := track.New(name, x, y, tm, fields, false, 1.0)
	if err != nil {
		t.Fatalf("failed to build track %s: %v", name, err)
	}
	return trk
}

// LinearField builds a data column v0 + i*dv over n samples.
func LinearField(name string, n int, v0, dv float64) track.Field {
	values := make([]float64, n)
	for i := range values {
		values[i] = v0 + float64(i)*dv
	}
	return track.Field{Name: name, Values: values}
}
