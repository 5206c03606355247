package main

import (
	"math"
	"testing"

	"github.com/banshee-data/crossover.report/internal/track"
	"github.com/banshee-data/crossover.report/internal/units"
	"github.com/banshee-data/crossover.report/internal/xover"
)

// Coordinates are meters; the track advances 100 m per second. Whatever the
// output distance unit, the refined speed must come out as 100 m/s expressed
// in the configured speed unit.
func TestBuildConfigSpeedAcrossUnits(t *testing.T) {
	tests := []struct {
		name      string
		distUnit  string
		speedUnit string
		wantSpeed float64
	}{
		{"meters mps", units.Meters, units.MPS, 100},
		{"kilometers mps", units.Kilometers, units.MPS, 100},
		{"kilometers kmph", units.Kilometers, units.KMPH, 360},
		{"nautical miles knots", units.NauticalMiles, units.Knots, 100 * 3600 / 1852.0},
		{"miles mph", units.Miles, units.MPH, 100 * 3600 / 1609.344},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreDist, restoreSpeed := *distUnit, *speedUnit
			defer func() { *distUnit, *speedUnit = restoreDist, restoreSpeed }()
			*distUnit = tt.distUnit
			*speedUnit = tt.speedUnit

			cfg, distScale, err := buildConfig()
			if err != nil {
				t.Fatalf("buildConfig: %v", err)
			}

			trk, err := track.New("fast",
				[]float64{0, 100, 200}, []float64{0, 0, 0},
				[]float64{0, 1, 2}, nil, false, distScale)
			if err != nil {
				t.Fatalf("track.New: %v", err)
			}
			ref := xover.NewRefiner(cfg).RefineSide(trk, 0.5, false)
			if math.Abs(ref.Speed-tt.wantSpeed) > 1e-9 {
				t.Errorf("speed = %g %s, want %g", ref.Speed, tt.speedUnit, tt.wantSpeed)
			}
		})
	}
}

func TestBuildConfigRejectsConflictingKinds(t *testing.T) {
	restore := []*bool{internalOnly, externalOnly}
	saved := []bool{*internalOnly, *externalOnly}
	defer func() {
		for i, p := range restore {
			*p = saved[i]
		}
	}()
	*internalOnly = true
	*externalOnly = true
	if _, _, err := buildConfig(); err == nil {
		t.Error("expected error for -internal with -external")
	}
}
