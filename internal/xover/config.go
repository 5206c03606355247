// Package xover refines raw geometric track crossings into crossover records:
// per-side crossing time, along-track distance, heading, velocity, and
// interpolated values of every auxiliary field. Pairs are processed one at a
// time, crossings within a pair one at a time; the package holds no global
// state.
package xover

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/crossover.report/internal/interp"
)

// KindFilter restricts which crossings a run examines.
type KindFilter int

const (
	AllCrossings KindFilter = iota
	InternalOnly            // only a track against itself
	ExternalOnly            // only distinct track pairs
)

// Config holds the crossover run parameters.
type Config struct {
	// Method selects the field interpolation scheme. Linear interpolation
	// forces the effective window half-width to 1; wider windows only matter
	// for the spline methods.
	Method interp.Method

	// WindowHalfWidth is the maximum number of valid samples gathered on each
	// side of a crossing per field. Must be at least 1.
	WindowHalfWidth int

	// SpeedCheck enables the MinSpeed/MaxSpeed admissibility gate. The gate
	// only ever applies to sides with usable time data, and is disabled for
	// the whole run when the track format has no time column.
	SpeedCheck bool
	MinSpeed   float64
	MaxSpeed   float64

	// HeadingFloorSet suppresses the heading output on sides whose speed is
	// at or below HeadingSpeedFloor.
	HeadingFloorSet   bool
	HeadingSpeedFloor float64

	Kind KindFilter

	// RawValues emits each field's two per-side values instead of the
	// difference and mean.
	RawValues bool

	// MaxTimeGap and MaxDistGap bound the separation between a crossing and
	// the nearest valid window sample per side. The time gap is only checked
	// when the format carries time.
	MaxTimeGap float64
	MaxDistGap float64

	// TimeScale converts the track time unit to seconds for speed
	// computation. DistScale converts meters (geographic) or coordinate
	// units to the output distance unit; SpeedScale converts
	// distance-unit-per-second to the output speed unit.
	TimeScale  float64
	DistScale  float64
	SpeedScale float64

	// Fields limits interpolation to the named data columns. Empty means
	// every data column the tracks carry.
	Fields []string

	// Whitelist, when non-nil, restricts the run to the listed unordered
	// name pairs.
	Whitelist *Whitelist

	// Tag names the data set on the output header.
	Tag string
}

// DefaultConfig returns the default run parameters: linear interpolation,
// window half-width 3, no speed or gap limits.
func DefaultConfig() Config {
	return Config{
		Method:          interp.Linear,
		WindowHalfWidth: 3,
		MaxSpeed:        math.Inf(1),
		MaxTimeGap:      math.Inf(1),
		MaxDistGap:      math.Inf(1),
		TimeScale:       1.0,
		DistScale:       1.0,
		SpeedScale:      1.0,
	}
}

// Fatal configuration errors.
var (
	ErrWindowTooSmall     = errors.New("window half-width must be at least 1")
	ErrInvertedSpeedRange = errors.New("lower speed cutoff higher than upper cutoff")
)

// Validate reports the fatal configuration errors of a run. Any error here
// aborts before output is produced.
func (c Config) Validate() error {
	if c.WindowHalfWidth < 1 {
		return ErrWindowTooSmall
	}
	if c.MinSpeed > c.MaxSpeed {
		return ErrInvertedSpeedRange
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("time scale must be positive, got %g", c.TimeScale)
	}
	if c.DistScale <= 0 {
		return fmt.Errorf("distance scale must be positive, got %g", c.DistScale)
	}
	if c.SpeedScale <= 0 {
		return fmt.Errorf("speed scale must be positive, got %g", c.SpeedScale)
	}
	return nil
}

// EffectiveWindow returns the window half-width actually used: linear
// interpolation needs only the bracketing samples.
func (c Config) EffectiveWindow() int {
	if c.Method == interp.Linear {
		return 1
	}
	return c.WindowHalfWidth
}
