// Package interp estimates a field value at a crossover time from a window of
// neighbouring (time, value) samples. The spline methods are provided by
// gonum; failures (too few samples, non-increasing abscissa) are reported as
// errors so the caller can mark the field invalid and move on.
package interp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Method selects the interpolation scheme.
type Method int

const (
	Linear Method = iota
	Nearest
	Cubic    // natural cubic spline
	Monotone // Fritsch-Butland monotone cubic
)

var methodNames = map[Method]string{
	Linear:   "linear",
	Nearest:  "nearest",
	Cubic:    "cubic",
	Monotone: "monotone",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a configuration string to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "linear", "l":
		return Linear, nil
	case "nearest", "n":
		return Nearest, nil
	case "cubic", "c":
		return Cubic, nil
	case "monotone", "m", "akima", "a":
		return Monotone, nil
	default:
		return 0, fmt.Errorf("unknown interpolation method %q (valid: nearest, linear, cubic, monotone)", s)
	}
}

// ErrNoSamples is returned when the window is empty.
var ErrNoSamples = errors.New("interp: no samples")

// Evaluate estimates y(tq) from the sample window (ts, ys). ts must be
// strictly increasing; a window that is not (duplicate or out-of-order times)
// is an interpolation failure, not a panic.
func Evaluate(ts, ys []float64, tq float64, m Method) (float64, error) {
	if len(ts) == 0 {
		return math.NaN(), ErrNoSamples
	}
	if len(ts) != len(ys) {
		return math.NaN(), fmt.Errorf("interp: mismatched window lengths %d vs %d", len(ts), len(ys))
	}

	if m == Nearest {
		return nearest(ts, ys, tq), nil
	}
	if len(ts) == 1 {
		return math.NaN(), fmt.Errorf("interp: %s needs at least 2 samples, got 1", m)
	}

	var p interp.FittablePredictor
	switch m {
	case Linear:
		p = &interp.PiecewiseLinear{}
	case Cubic:
		p = &interp.NaturalCubic{}
	case Monotone:
		p = &interp.FritschButland{}
	default:
		return math.NaN(), fmt.Errorf("interp: unsupported method %v", m)
	}
	if err := fit(p, ts, ys); err != nil {
		return math.NaN(), err
	}
	v := p.Predict(tq)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), fmt.Errorf("interp: %s produced no finite estimate at %g", m, tq)
	}
	return v, nil
}

// fit wraps Fit so that gonum's panics on malformed abscissas surface as
// ordinary errors.
func fit(p interp.FittablePredictor, ts, ys []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("interp: fit failed: %v", r)
		}
	}()
	for i := 1; i < len(ts); i++ {
		if !(ts[i] > ts[i-1]) {
			return fmt.Errorf("interp: window times not strictly increasing at %d", i)
		}
	}
	return p.Fit(ts, ys)
}

// nearest returns the sample value whose time is closest to tq. Ties go to
// the earlier sample.
func nearest(ts, ys []float64, tq float64) float64 {
	best := 0
	bestDist := math.Abs(ts[0] - tq)
	for i := 1; i < len(ts); i++ {
		if d := math.Abs(ts[i] - tq); d < bestDist {
			best, bestDist = i, d
		}
	}
	return ys[best]
}
