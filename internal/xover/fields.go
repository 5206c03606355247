package xover

import (
	"math"

	"github.com/banshee-data/crossover.report/internal/interp"
	"github.com/banshee-data/crossover.report/internal/track"
)

// InterpolateFunc is the interpolation capability: estimate y(tq) from a
// sample window, or fail.
type InterpolateFunc func(ts, ys []float64, tq float64, m interp.Method) (float64, error)

// FieldInterpolator assembles bounded windows of valid samples around a
// crossing and invokes the interpolation capability to estimate each field's
// value at the crossing time.
type FieldInterpolator struct {
	cfg         Config
	interpolate InterpolateFunc

	// scratch windows, reused across fields; always 2*W long
	ts []float64
	ys []float64
}

// NewFieldInterpolator returns an interpolator for the given run
// configuration. interpolate may be nil, in which case the in-repo gonum
// estimator is used.
func NewFieldInterpolator(cfg Config, interpolate InterpolateFunc) *FieldInterpolator {
	if interpolate == nil {
		interpolate = interp.Evaluate
	}
	w := cfg.EffectiveWindow()
	return &FieldInterpolator{
		cfg:         cfg,
		interpolate: interpolate,
		ts:          make([]float64, 2*w),
		ys:          make([]float64, 2*w),
	}
}

// Evaluate estimates one field on one side of a crossing. values is the
// field's sample column on trk; ref is the side's refinement; gapTime enables
// the time-gap check (off when the format has no time column). Returns the
// estimate and whether it succeeded; every failure path leaves the field
// invalid without aborting the crossing.
func (fi *FieldInterpolator) Evaluate(trk *track.Track, values []float64, ref SideRefinement, gapTime bool) (float64, bool) {
	w := fi.cfg.EffectiveWindow()
	tl := trk.Timeline()
	n := trk.Len()

	// Scan left from the left bracket node, collecting up to w valid
	// samples. tLeft ends up at the valid sample nearest the bracket, which
	// is the inner edge of any gap between the window and the crossing.
	nLeft := 0
	tLeft := ref.Right
	for i := ref.Left; i >= 0 && nLeft < w; i-- {
		if math.IsNaN(values[i]) {
			continue
		}
		nLeft++
		if tLeft > ref.Left {
			tLeft = i
		}
		fi.ys[w-nLeft] = values[i]
		fi.ts[w-nLeft] = tl[i]
	}
	if nLeft == 0 {
		return math.NaN(), false
	}
	if gapTime && ref.Time-tl[tLeft] > fi.cfg.MaxTimeGap {
		return math.NaN(), false
	}
	if ref.Dist-trk.Dist[tLeft] > fi.cfg.MaxDistGap {
		return math.NaN(), false
	}

	// Symmetric scan to the right from the right bracket node.
	nRight := 0
	tRight := ref.Left
	for i := ref.Right; i < n && nRight < w; i++ {
		if math.IsNaN(values[i]) {
			continue
		}
		fi.ys[w+nRight] = values[i]
		fi.ts[w+nRight] = tl[i]
		nRight++
		if tRight < ref.Right {
			tRight = i
		}
	}
	if nRight == 0 {
		return math.NaN(), false
	}
	if gapTime && tl[tRight]-ref.Time > fi.cfg.MaxTimeGap {
		return math.NaN(), false
	}
	if trk.Dist[tRight]-ref.Dist > fi.cfg.MaxDistGap {
		return math.NaN(), false
	}

	v, err := fi.interpolate(fi.ts[w-nLeft:w+nRight], fi.ys[w-nLeft:w+nRight], ref.Time, fi.cfg.Method)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}
