package xover

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/crossover.report/internal/geom"
	"github.com/banshee-data/crossover.report/internal/track"
)

// TrackLoader is the loading capability: resolve a track identifier to its
// samples. A load failure aborts the whole run.
type TrackLoader interface {
	Load(id string) (*track.Track, error)
}

// Locator is the raw crossing capability: all geometric intersections of two
// tracks, as fractional node index pairs, with positions already in the
// coordinate frame the refiner expects.
type Locator interface {
	Crossings(a, b *track.Track, self bool) []geom.RawCrossing
}

// ErrNoTracks is returned when a run is started without input tracks.
var ErrNoTracks = errors.New("no track files given")

// Engine drives a crossover run: pair selection, crossing location,
// refinement, field interpolation and record assembly, strictly sequentially.
type Engine struct {
	Config  Config
	Loader  TrackLoader
	Locator Locator

	// Interpolate and Azimuth override the consumed capabilities; nil means
	// the in-repo providers.
	Interpolate InterpolateFunc
	Azimuth     AzimuthFunc

	// Out receives the record stream. Command is echoed on the global
	// header. TimingLog, when non-nil, receives one line per processed pair.
	Out       io.Writer
	Command   string
	TimingLog io.Writer
	Verbose   bool

	runID      string
	fieldNames []string
	records    []Record
	crossTotal int
}

// Records returns the records emitted by the last run, for reporting.
func (e *Engine) Records() []Record { return e.records }

// FieldNames returns the data columns the last run interpolated.
func (e *Engine) FieldNames() []string { return e.fieldNames }

// RunID returns the unique identifier stamped on the last run's timing log.
func (e *Engine) RunID() string { return e.runID }

// CrossingsFound returns the total raw crossings located in the last run,
// including dropped ones.
func (e *Engine) CrossingsFound() int { return e.crossTotal }

// Run processes every eligible pair of the named tracks and writes the
// crossover records to Out. Fatal conditions (bad configuration, load
// failure) abort with an error before or at the point of detection;
// recoverable conditions degrade single fields or crossings and continue.
func (e *Engine) Run(names []string) error {
	if err := e.Config.Validate(); err != nil {
		return err
	}
	if len(names) == 0 {
		return ErrNoTracks
	}
	if e.Loader == nil {
		return errors.New("no track loader configured")
	}
	if e.Locator == nil {
		e.Locator = geom.Locator{}
	}

	e.runID = uuid.New().String()
	e.records = nil
	e.crossTotal = 0
	if e.TimingLog != nil {
		fmt.Fprintf(e.TimingLog, "# run %s\n", e.runID)
	}

	selector := NewPairSelector(names, e.Config.Kind, e.Config.Whitelist)
	if n := selector.Duplicates(); n > 0 && e.Verbose {
		log.Printf("duplicates found: %d", n)
	}
	tasks := selector.Tasks()

	var (
		writer        *RecordWriter
		gotTime       bool
		locationsOnly bool
		refiner       = NewRefiner(e.Config)
		fields        *FieldInterpolator
		assembler     Assembler
	)

	cache := map[int]*track.Track{}
	load := func(idx int, name string) (*track.Track, error) {
		if trk, ok := cache[idx]; ok {
			return trk, nil
		}
		trk, err := e.Loader.Load(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load track %s: %w", name, err)
		}
		cache[idx] = trk
		return trk, nil
	}

	lastA := -1
	for _, task := range tasks {
		if lastA >= 0 && task.A != lastA {
			// The outer track changed; earlier loads are no longer needed.
			for idx := range cache {
				if idx != task.A {
					delete(cache, idx)
				}
			}
		}
		lastA = task.A

		a, err := load(task.A, task.NameA)
		if err != nil {
			return err
		}
		// A self-pair aliases the same track on both sides; it is never
		// duplicated.
		b := a
		if !task.Self {
			if b, err = load(task.B, task.NameB); err != nil {
				return err
			}
		}
		if a.Len() < 2 || b.Len() < 2 {
			continue
		}

		if writer == nil {
			// The first loaded track defines the format: time column
			// presence, coordinate flavour and the field set.
			gotTime = a.Time != nil
			e.fieldNames = e.Config.Fields
			if len(e.fieldNames) == 0 {
				e.fieldNames = a.FieldNames()
			}
			locationsOnly = len(e.fieldNames) == 0
			writer = NewRecordWriter(e.Out, e.Config, gotTime, a.Geographic, e.fieldNames, e.Command)
			fields = NewFieldInterpolator(e.Config, e.Interpolate)
			assembler = NewAssembler(e.Config, gotTime, e.Azimuth)
			// Without any time column the speed gate is meaningless.
			if !gotTime && e.Config.SpeedCheck {
				log.Printf("no time column, speed limits ignored")
			}
		}

		tic := time.Now()
		if e.Verbose {
			log.Printf("processing %s - %s", task.NameA, task.NameB)
		}

		crossings := e.Locator.Crossings(a, b, task.Self)
		e.crossTotal += len(crossings)
		writer.BeginPair(a, b)

		for _, xc := range crossings {
			if locationsOnly {
				if err := writer.WriteLocation(xc.X, xc.Y); err != nil {
					return err
				}
				continue
			}
			rec, emit := e.refineCrossing(xc, [2]*track.Track{a, b}, gotTime, refiner, fields, assembler)
			if !emit {
				continue
			}
			if err := writer.WriteRecord(rec); err != nil {
				return err
			}
			e.records = append(e.records, rec)
		}

		if e.TimingLog != nil {
			fmt.Fprintf(e.TimingLog, "%s\t%s\t%d\t%.3f\n",
				task.NameA, task.NameB, len(crossings), time.Since(tic).Seconds())
		} else if e.Verbose {
			log.Printf("%s - %s: %d crossings", task.NameA, task.NameB, len(crossings))
		}
	}
	return nil
}

// refineCrossing evaluates both sides of one raw crossing. Per-side field
// state is freshly reset for every crossing so an inadmissible side can never
// leak values from an earlier one.
func (e *Engine) refineCrossing(xc geom.RawCrossing, tracks [2]*track.Track, gotTime bool, refiner Refiner, fields *FieldInterpolator, assembler Assembler) (Record, bool) {
	nf := len(e.fieldNames)
	var vals [2][]float64
	for k := range vals {
		vals[k] = make([]float64, nf)
		for j := range vals[k] {
			vals[k][j] = math.NaN()
		}
	}
	ok := make([]int, nf)

	var refs [2]SideRefinement
	for k := 0; k < 2; k++ {
		trk := tracks[k]
		speedCheck := e.Config.SpeedCheck && gotTime && trk.HasTime
		refs[k] = refiner.RefineSide(trk, xc.Node[k], speedCheck)
		if !refs[k].Admissible {
			continue
		}
		for j, name := range e.fieldNames {
			col := trk.Field(name)
			if col == nil {
				continue
			}
			v, valid := fields.Evaluate(trk, col, refs[k], gotTime)
			if valid {
				vals[k][j] = v
				ok[j]++
			}
		}
	}

	return assembler.Build(xc, tracks, refs, vals, ok)
}
