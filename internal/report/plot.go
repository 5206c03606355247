package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/crossover.report/internal/track"
	"github.com/banshee-data/crossover.report/internal/xover"
)

// WritePlot saves a PNG of the track lines with the crossover locations
// overlaid.
func WritePlot(path string, tracks []*track.Track, records []xover.Record) error {
	p := plot.New()
	p.Title.Text = "Crossover Locations"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	if len(tracks) > 0 && tracks[0].Geographic {
		p.X.Label.Text = "Longitude"
		p.Y.Label.Text = "Latitude"
	}

	colors := generateColors(len(tracks))
	for i, trk := range tracks {
		pts := make(plotter.XYs, 0, trk.Len())
		for j := 0; j < trk.Len(); j++ {
			if math.IsNaN(trk.X[j]) || math.IsNaN(trk.Y[j]) {
				continue
			}
			pts = append(pts, plotter.XY{X: trk.X[j], Y: trk.Y[j]})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("track line %s: %w", trk.Name, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(trk.Name, line)
	}

	xpts := make(plotter.XYs, 0, len(records))
	for _, rec := range records {
		xpts = append(xpts, plotter.XY{X: rec.X, Y: rec.Y})
	}
	scatter, err := plotter.NewScatter(xpts)
	if err != nil {
		return fmt.Errorf("crossover scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	p.Add(scatter)
	p.Legend.Add("crossovers", scatter)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save crossover plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of distinct colors for track lines
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
