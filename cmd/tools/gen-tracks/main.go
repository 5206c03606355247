// Command gen-tracks generates synthetic crossing-track CSV files for manual
// crossover runs: straight lines through a common region, each carrying
// linear data columns with a little noise.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

var (
	outDir  = flag.String("o", "tracks", "output directory")
	count   = flag.Int("n", 4, "number of tracks")
	samples = flag.Int("samples", 50, "samples per track")
	noise   = flag.Float64("noise", 0.05, "field noise amplitude")
	seed    = flag.Int64("seed", 1, "random seed")
	geo     = flag.Bool("geo", false, "write lon/lat columns instead of x/y")
)

func main() {
	flag.Parse()

	if *count < 2 {
		log.Fatal("need at least 2 tracks to cross")
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}
	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *count; i++ {
		path := filepath.Join(*outDir, fmt.Sprintf("track_%02d.csv", i))
		if err := writeTrack(path, i, rng); err != nil {
			log.Fatalf("failed to write %s: %v", path, err)
		}
		log.Printf("wrote %s", path)
	}
	log.Printf("✓ Created %d tracks in %s", *count, *outDir)
}

// writeTrack emits one straight line through the origin, rotated so every
// track crosses every other inside the shared region.
func writeTrack(path string, idx int, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if *geo {
		fmt.Fprintln(f, "lon,lat,time,depth,mag")
	} else {
		fmt.Fprintln(f, "x,y,time,depth,mag")
	}

	angle := math.Pi * float64(idx) / float64(*count)
	dx, dy := math.Cos(angle), math.Sin(angle)
	// Offset the start time per track so crossing time pairs differ.
	t0 := 1000.0 * float64(idx)

	half := float64(*samples-1) / 2
	for j := 0; j < *samples; j++ {
		s := float64(j) - half
		x := s * dx
		y := s * dy
		t := t0 + 10*float64(j)
		// depth is a smooth function of position, so crossover differences
		// stay near zero; mag drifts per track to produce visible offsets.
		depth := 100 + 5*x - 3*y + *noise*rng.NormFloat64()
		mag := float64(idx) + 0.1*s + *noise*rng.NormFloat64()
		fmt.Fprintf(f, "%.6f,%.6f,%.1f,%.4f,%.4f\n", x, y, t, depth, mag)
	}
	return nil
}
