package units

import (
	"math"
	"testing"
)

func TestDistanceScale(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		meters   float64
		expected float64
		wantErr  bool
	}{
		{"meters identity", Meters, 100, 100, false},
		{"kilometers", Kilometers, 2500, 2.5, false},
		{"miles", Miles, MetersPerMile, 1.0, false},
		{"nautical miles", NauticalMiles, 3704, 2.0, false},
		{"feet", Feet, 0.3048, 1.0, false},
		{"unknown unit", "furlong", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, err := DistanceScale(tt.unit)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DistanceScale(%q) expected error, got nil", tt.unit)
				}
				return
			}
			if err != nil {
				t.Fatalf("DistanceScale(%q) unexpected error: %v", tt.unit, err)
			}
			if got := tt.meters * scale; math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("%g m in %s = %g, want %g", tt.meters, tt.unit, got, tt.expected)
			}
		})
	}
}

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		unit     string
		expected float64
	}{
		{"mps identity", 5.0, MPS, 5.0},
		{"kmph", 1.0, KMPH, 3.6},
		{"mph", 1.0, MPH, 3600.0 / 1609.344},
		{"knots", 1.0, Knots, 3600.0 / 1852.0},
		{"unknown falls back to mps", 7.0, "warp", 7.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertSpeed(tt.speedMPS, tt.unit)
			if math.Abs(got-tt.expected) > 1e-10 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPS, tt.unit, got, tt.expected)
			}
		})
	}
}

func TestSpeedScaleRejectsUnknown(t *testing.T) {
	if _, err := SpeedScale("lightyears"); err == nil {
		t.Fatal("expected error for unknown speed unit")
	}
}
