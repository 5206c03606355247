// Command crossover locates the crossings of 2-D survey tracks and refines
// each one into a crossover record: position, per-side crossing time,
// along-track distance, heading, velocity and interpolated field values.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/crossover.report/internal/interp"
	"github.com/banshee-data/crossover.report/internal/report"
	"github.com/banshee-data/crossover.report/internal/track"
	"github.com/banshee-data/crossover.report/internal/trackdb"
	"github.com/banshee-data/crossover.report/internal/units"
	"github.com/banshee-data/crossover.report/internal/version"
	"github.com/banshee-data/crossover.report/internal/xover"
)

var (
	output       = flag.String("o", "", "output file (default stdout)")
	dbPath       = flag.String("db", "", "resolve track names from this SQLite database instead of files")
	dbImport     = flag.Bool("db-import", false, "import the given track files into -db and exit")
	pairsFile    = flag.String("pairs", "", "file listing the track pairs to process, one pair per line")
	internalOnly = flag.Bool("internal", false, "only crossings of a track with itself")
	externalOnly = flag.Bool("external", false, "only crossings between distinct tracks")
	window       = flag.Int("window", 3, "max valid samples gathered per side of a crossing")
	interpFlag   = flag.String("interp", "linear", "interpolation method: linear, nearest, cubic, monotone")
	rawValues    = flag.Bool("raw", false, "emit per-side field values instead of difference and mean")
	speedMin     = flag.Float64("speed-min", 0, "lower speed cutoff (0 disables)")
	speedMax     = flag.Float64("speed-max", 0, "upper speed cutoff (0 disables)")
	headingFloor = flag.Float64("heading-floor", -1, "suppress headings at or below this speed (negative disables)")
	timeGap      = flag.Float64("time-gap", 0, "max time from a crossing to its nearest valid sample (0 disables)")
	distGap      = flag.Float64("dist-gap", 0, "max distance from a crossing to its nearest valid sample (0 disables)")
	distUnit     = flag.String("dist-unit", units.Meters, "distance unit: m, km, mi, nm, ft")
	speedUnit    = flag.String("speed-unit", units.MPS, "speed unit: mps, kmph, mph, kn")
	timeScale    = flag.Float64("time-scale", 1, "seconds per track time unit")
	fieldsFlag   = flag.String("fields", "", "comma-separated data columns to interpolate (default all)")
	tag          = flag.String("tag", "", "data set tag echoed on the output header")
	timingPath   = flag.String("timing", "", "write per-pair timing to this file")
	reportPath   = flag.String("report", "", "write an HTML difference report to this file")
	plotPath     = flag.String("plot", "", "write a PNG crossover map to this file")
	verbose      = flag.Bool("v", false, "verbose progress logging")
	showVersion  = flag.Bool("version", false, "print version and exit")
)

// fileLoader resolves track identifiers as file paths.
type fileLoader struct {
	distScale float64
}

func (l fileLoader) Load(id string) (*track.Track, error) {
	return track.Load(id, l.distScale)
}

func main() {
	flag.Parse()
	args := flag.Args()

	if *showVersion {
		fmt.Printf("crossover %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg, distScale, err := buildConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	var loader xover.TrackLoader = fileLoader{distScale: distScale}
	if *dbPath != "" {
		db, err := trackdb.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open track database: %v", err)
		}
		defer db.Close()

		if *dbImport {
			importTracks(db, args, distScale)
			return
		}
		if len(args) == 0 {
			listTracks(db)
			return
		}
		loader = trackdb.Loader{DB: db, DistScale: distScale}
	}
	if len(args) == 0 {
		log.Fatal("no track files given")
	}

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	var timing io.Writer
	if *timingPath != "" {
		f, err := os.Create(*timingPath)
		if err != nil {
			log.Fatalf("failed to create timing file: %v", err)
		}
		defer f.Close()
		timing = f
	}

	eng := xover.Engine{
		Config:    cfg,
		Loader:    loader,
		Out:       out,
		Command:   strings.Join(os.Args, " "),
		TimingLog: timing,
		Verbose:   *verbose,
	}
	if err := eng.Run(args); err != nil {
		log.Fatalf("crossover run failed: %v", err)
	}
	if *verbose {
		log.Printf("%d crossings found, %d records written", eng.CrossingsFound(), len(eng.Records()))
	}

	if *reportPath != "" {
		writeReport(&eng)
	}
	if *plotPath != "" {
		writePlot(&eng, loader, args)
	}
}

func buildConfig() (xover.Config, float64, error) {
	cfg := xover.DefaultConfig()

	if *internalOnly && *externalOnly {
		return cfg, 0, fmt.Errorf("-internal and -external are mutually exclusive")
	}
	if *internalOnly {
		cfg.Kind = xover.InternalOnly
	}
	if *externalOnly {
		cfg.Kind = xover.ExternalOnly
	}

	method, err := interp.ParseMethod(*interpFlag)
	if err != nil {
		return cfg, 0, err
	}
	cfg.Method = method
	cfg.WindowHalfWidth = *window
	cfg.RawValues = *rawValues
	cfg.Tag = *tag

	if *speedMin > 0 || *speedMax > 0 {
		cfg.SpeedCheck = true
		cfg.MinSpeed = *speedMin
		if *speedMax > 0 {
			cfg.MaxSpeed = *speedMax
		}
	}
	if *headingFloor >= 0 {
		cfg.HeadingFloorSet = true
		cfg.HeadingSpeedFloor = *headingFloor
	}
	if *timeGap > 0 {
		cfg.MaxTimeGap = *timeGap
	}
	if *distGap > 0 {
		cfg.MaxDistGap = *distGap
	}

	distScale, err := units.DistanceScale(*distUnit)
	if err != nil {
		return cfg, 0, err
	}
	speedScale, err := units.SpeedScale(*speedUnit)
	if err != nil {
		return cfg, 0, err
	}
	cfg.DistScale = distScale
	// Along-track deltas already carry DistScale, so the speed factor must
	// convert distance-unit-per-second, not meters-per-second.
	cfg.SpeedScale = speedScale / distScale
	cfg.TimeScale = *timeScale

	if *fieldsFlag != "" {
		cfg.Fields = strings.Split(*fieldsFlag, ",")
	}
	if *pairsFile != "" {
		wl, err := xover.LoadWhitelist(*pairsFile)
		if err != nil {
			return cfg, 0, err
		}
		cfg.Whitelist = wl
	}

	return cfg, distScale, nil
}

func importTracks(db *trackdb.DB, paths []string, distScale float64) {
	if len(paths) == 0 {
		log.Fatal("no track files to import")
	}
	for _, path := range paths {
		trk, err := track.Load(path, distScale)
		if err != nil {
			log.Fatalf("failed to load %s: %v", path, err)
		}
		if err := db.SaveTrack(trk); err != nil {
			log.Fatalf("failed to store %s: %v", trk.Name, err)
		}
		log.Printf("imported %s (%d samples, %d fields)", trk.Name, trk.Len(), len(trk.Fields))
	}
}

func listTracks(db *trackdb.DB) {
	names, err := db.ListTracks()
	if err != nil {
		log.Fatalf("failed to list tracks: %v", err)
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func writeReport(eng *xover.Engine) {
	f, err := os.Create(*reportPath)
	if err != nil {
		log.Fatalf("failed to create report file: %v", err)
	}
	defer f.Close()
	if err := report.WriteHTML(f, eng.RunID(), eng.FieldNames(), eng.Records()); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}
	log.Printf("✓ Report: %s", *reportPath)
}

func writePlot(eng *xover.Engine, loader xover.TrackLoader, names []string) {
	var tracks []*track.Track
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		trk, err := loader.Load(name)
		if err != nil {
			log.Fatalf("failed to reload %s for plotting: %v", name, err)
		}
		tracks = append(tracks, trk)
	}
	if err := report.WritePlot(*plotPath, tracks, eng.Records()); err != nil {
		log.Fatalf("failed to write plot: %v", err)
	}
	log.Printf("✓ Plot: %s", *plotPath)
}
