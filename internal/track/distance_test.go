package track

import (
	"math"
	"testing"
)

func TestCumulativeDistancesCartesian(t *testing.T) {
	x := []float64{0, 1, 1}
	y := []float64{0, 0, 1}
	dist := CumulativeDistances(x, y, false, 1.0)
	want := []float64{0, 1, 2}
	for i := range want {
		if math.Abs(dist[i]-want[i]) > 1e-12 {
			t.Errorf("dist[%d] = %g, want %g", i, dist[i], want[i])
		}
	}
}

func TestCumulativeDistancesScale(t *testing.T) {
	dist := CumulativeDistances([]float64{0, 1000}, []float64{0, 0}, false, 0.001)
	if math.Abs(dist[1]-1.0) > 1e-12 {
		t.Errorf("scaled dist = %g, want 1", dist[1])
	}
}

func TestCumulativeDistancesGeographic(t *testing.T) {
	// One degree of latitude along a meridian is ~111.2 km.
	dist := CumulativeDistances([]float64{0, 0}, []float64{0, 1}, true, 0.001)
	if dist[1] < 110 || dist[1] > 112 {
		t.Errorf("1 degree latitude = %g km, want ~111.2", dist[1])
	}
}

func TestAzimuthBetweenCartesian(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           float64
	}{
		{"north", 0, 0, 0, 1, 0},
		{"east", 0, 0, 1, 0, 90},
		{"south", 0, 0, 0, -1, 180},
		{"west", 0, 0, -1, 0, 270},
		{"northeast", 0, 0, 1, 1, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AzimuthBetween(tt.x1, tt.y1, tt.x2, tt.y2, false)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AzimuthBetween = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestAzimuthBetweenGeographic(t *testing.T) {
	// Due east along the equator.
	got := AzimuthBetween(10, 0, 11, 0, true)
	if math.Abs(got-90) > 1e-6 {
		t.Errorf("equatorial east bearing = %g, want 90", got)
	}
	// Due north along a meridian.
	got = AzimuthBetween(10, 0, 10, 1, true)
	if math.Abs(got) > 1e-6 && math.Abs(got-360) > 1e-6 {
		t.Errorf("meridian north bearing = %g, want 0", got)
	}
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{190, -170},
		{-190, 170},
		{360, 0},
		{179.5, 179.5},
		{-180, -180},
		{540, 180 - 360},
	}
	for _, tt := range tests {
		if got := NormalizeLon(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NormalizeLon(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}
