package xover

import (
	"math"
	"testing"

	"github.com/banshee-data/crossover.report/internal/interp"
	"github.com/banshee-data/crossover.report/internal/track"
)

// fieldTrack builds a unit-spaced track along x with the given field column.
func fieldTrack(t *testing.T, values []float64) *track.Track {
	t.Helper()
	n := len(values)
	x := make([]float64, n)
	y := make([]float64, n)
	tm := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		tm[i] = float64(i)
	}
	trk, err := track.New("f", x, y, tm,
		[]track.Field{{Name: "v", Values: values}}, false, 1.0)
	if err != nil {
		t.Fatalf("track.New: %v", err)
	}
	return trk
}

func refineAt(cfg Config, trk *track.Track, node float64) SideRefinement {
	return NewRefiner(cfg).RefineSide(trk, node, false)
}

func TestFieldEvaluateLinearMidpoint(t *testing.T) {
	cfg := DefaultConfig()
	trk := fieldTrack(t, []float64{0, 10, 20, 30})
	fi := NewFieldInterpolator(cfg, nil)

	v, ok := fi.Evaluate(trk, trk.Field("v"), refineAt(cfg, trk, 1.5), true)
	if !ok {
		t.Fatal("expected success")
	}
	if math.Abs(v-15) > 1e-12 {
		t.Errorf("v(1.5) = %g, want 15", v)
	}
}

func TestFieldEvaluateSkipsMissingSamples(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = interp.Cubic
	cfg.WindowHalfWidth = 2
	nan := math.NaN()
	// Valid neighbours are pushed one sample out on each side.
	trk := fieldTrack(t, []float64{0, 10, nan, nan, 40, 50})
	fi := NewFieldInterpolator(cfg, nil)

	v, ok := fi.Evaluate(trk, trk.Field("v"), refineAt(cfg, trk, 2.5), true)
	if !ok {
		t.Fatal("expected success with missing values skipped")
	}
	// The field is linear in time, so any spline through the surviving
	// window reproduces it.
	if math.Abs(v-25) > 1e-9 {
		t.Errorf("v(2.5) = %g, want 25", v)
	}
}

func TestFieldEvaluateNoValidSamples(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowHalfWidth = 3
	nan := math.NaN()

	tests := []struct {
		name   string
		values []float64
		node   float64
	}{
		{"all left missing", []float64{nan, nan, nan, 30, 40, 50}, 2.5},
		{"all right missing", []float64{0, 10, 20, nan, nan, nan}, 2.5},
		{"everything missing", []float64{nan, nan, nan, nan}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trk := fieldTrack(t, tt.values)
			fi := NewFieldInterpolator(cfg, nil)
			if _, ok := fi.Evaluate(trk, trk.Field("v"), refineAt(cfg, trk, tt.node), true); ok {
				t.Error("expected failure with an empty window side")
			}
		})
	}
}

func TestFieldEvaluateWindowLimitedToW(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = interp.Monotone
	cfg.WindowHalfWidth = 2
	var captured []float64
	capture := func(ts, ys []float64, tq float64, m interp.Method) (float64, error) {
		captured = append([]float64(nil), ts...)
		return interp.Evaluate(ts, ys, tq, m)
	}
	trk := fieldTrack(t, []float64{0, 10, 20, 30, 40, 50, 60, 70})
	fi := NewFieldInterpolator(cfg, capture)

	if _, ok := fi.Evaluate(trk, trk.Field("v"), refineAt(cfg, trk, 3.5), true); !ok {
		t.Fatal("expected success")
	}
	if len(captured) != 4 {
		t.Fatalf("window = %v, want 2W = 4 samples", captured)
	}
	want := []float64{2, 3, 4, 5}
	for i := range want {
		if captured[i] != want[i] {
			t.Errorf("window times = %v, want %v", captured, want)
		}
	}
}

func TestFieldEvaluateGapThresholds(t *testing.T) {
	nan := math.NaN()
	// The nearest valid left sample is 3 time/distance units from the
	// crossing at node 3.5.
	values := []float64{10, nan, nan, nan, 40, 50}

	tests := []struct {
		name    string
		mutate  func(*Config)
		gapTime bool
		wantOK  bool
	}{
		{"no limits", func(c *Config) {}, true, true},
		{"time gap exceeded", func(c *Config) { c.MaxTimeGap = 2 }, true, false},
		{"time gap disabled without time", func(c *Config) { c.MaxTimeGap = 2 }, false, true},
		{"dist gap exceeded", func(c *Config) { c.MaxDistGap = 2 }, true, false},
		{"generous gaps", func(c *Config) { c.MaxTimeGap = 10; c.MaxDistGap = 10 }, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			trk := fieldTrack(t, values)
			fi := NewFieldInterpolator(cfg, nil)
			_, ok := fi.Evaluate(trk, trk.Field("v"), refineAt(cfg, trk, 3.5), tt.gapTime)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestFieldEvaluateRightGapChecked(t *testing.T) {
	nan := math.NaN()
	values := []float64{0, 10, 20, nan, nan, nan, 60}
	cfg := DefaultConfig()
	cfg.MaxTimeGap = 2
	trk := fieldTrack(t, values)
	fi := NewFieldInterpolator(cfg, nil)
	// Crossing at 2.5; nearest valid right sample is at node 6, 3.5 away.
	if _, ok := fi.Evaluate(trk, trk.Field("v"), refineAt(cfg, trk, 2.5), true); ok {
		t.Error("expected right-side gap rejection")
	}
}
