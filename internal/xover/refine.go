package xover

import (
	"math"

	"github.com/banshee-data/crossover.report/internal/track"
)

// SideRefinement holds the refined quantities for one side of one crossing.
type SideRefinement struct {
	// Left and Right are the bracket nodes: distinct adjacent sample indices
	// surrounding the fractional crossing location.
	Left, Right int

	// Speed across the bracket in output speed units, NaN when the bracket
	// time difference is zero.
	Speed float64

	// Time and Dist are the linearly estimated crossing time and cumulative
	// distance.
	Time, Dist float64

	// Admissible is false when the speed gate rejected this side; an
	// inadmissible side contributes no field values for this crossing.
	Admissible bool
}

// Refiner turns a fractional crossing node into bracket nodes, local speed
// and linearly estimated crossing time and distance.
type Refiner struct {
	cfg Config
}

// NewRefiner returns a refiner for the given run configuration.
func NewRefiner(cfg Config) Refiner { return Refiner{cfg: cfg} }

// RefineSide refines one side of a crossing. node is the fractional sample
// index on trk; speedCheck enables the configured speed gate for this side
// (the caller disables it when the side has no usable time data).
func (r Refiner) RefineSide(trk *track.Track, node float64, speedCheck bool) SideRefinement {
	left := int(math.Floor(node))
	right := int(math.Ceil(node))
	if left == right {
		// Crossing exactly on a sample; shift so two distinct bracket
		// samples exist.
		if left > 0 {
			left--
		} else {
			right++
		}
	}

	tl := trk.Timeline()
	deld := trk.Dist[right] - trk.Dist[left]
	delt := tl[right] - tl[left]

	speed := math.NaN()
	if delt != 0 {
		speed = r.cfg.SpeedScale * deld / (delt * r.cfg.TimeScale)
	}

	// An undefined speed is never outside the bounds.
	admissible := true
	if speedCheck && !math.IsNaN(speed) && (speed < r.cfg.MinSpeed || speed > r.cfg.MaxSpeed) {
		admissible = false
	}

	dt := node - float64(left)
	timeX := tl[left]
	distX := trk.Dist[left]
	if dt > 0 {
		timeX += dt * delt
		distX += dt * deld
	}

	return SideRefinement{
		Left:       left,
		Right:      right,
		Speed:      speed,
		Time:       timeX,
		Dist:       distX,
		Admissible: admissible,
	}
}
