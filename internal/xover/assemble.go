package xover

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/crossover.report/internal/geom"
	"github.com/banshee-data/crossover.report/internal/track"
)

// AzimuthFunc is the bearing capability: azimuth in degrees from point 1 to
// point 2.
type AzimuthFunc func(x1, y1, x2, y2 float64, geographic bool) float64

// FieldPair is one field's two output values: difference and mean, or the raw
// per-side values in raw mode.
type FieldPair struct {
	V1, V2 float64
}

// Record is one refined crossover ready for output.
type Record struct {
	X, Y float64

	// Per-side quantities, index 0 and 1.
	Time [2]float64
	Dist [2]float64
	Head [2]float64
	Vel  [2]float64

	Fields []FieldPair
}

// Assembler combines the two refined sides of a crossing into an output
// record, applying the heading/velocity rules and the raw-vs-difference/mean
// field policy.
type Assembler struct {
	cfg     Config
	gotTime bool
	azimuth AzimuthFunc
}

// NewAssembler returns an assembler. azimuth may be nil, in which case the
// in-repo bearing is used. gotTime reports whether the track format carries a
// time column at all.
func NewAssembler(cfg Config, gotTime bool, azimuth AzimuthFunc) Assembler {
	if azimuth == nil {
		azimuth = track.AzimuthBetween
	}
	return Assembler{cfg: cfg, gotTime: gotTime, azimuth: azimuth}
}

// Build assembles the output record for one crossing. vals[k][j] is field j's
// estimate on side k (NaN when invalid) and ok[j] counts the sides on which
// field j succeeded. The second return is false when the crossing has no
// qualifying fields and must be dropped: nothing interpolated anywhere, or,
// in difference/mean mode, no field valid on both sides.
func (a Assembler) Build(xc geom.RawCrossing, tracks [2]*track.Track, refs [2]SideRefinement, vals [2][]float64, ok []int) (Record, bool) {
	any, both := 0, 0
	for _, o := range ok {
		if o > 0 {
			any++
		}
		if o == 2 {
			both++
		}
	}
	if any == 0 {
		return Record{}, false
	}
	if !a.cfg.RawValues && both == 0 {
		return Record{}, false
	}

	rec := Record{X: xc.X, Y: xc.Y}
	if tracks[0].Geographic {
		rec.X = track.NormalizeLon(rec.X)
	}

	for k := 0; k < 2; k++ {
		trk, ref := tracks[k], refs[k]

		rec.Time[k] = ref.Time
		if a.gotTime && !trk.HasTime {
			// Timing was requested globally but this track has none.
			rec.Time[k] = math.NaN()
		}
		rec.Dist[k] = ref.Dist

		rec.Head[k] = math.NaN()
		if !math.IsNaN(ref.Speed) && (!a.cfg.HeadingFloorSet || ref.Speed > a.cfg.HeadingSpeedFloor) {
			rec.Head[k] = a.azimuth(trk.X[ref.Left], trk.Y[ref.Left], trk.X[ref.Right], trk.Y[ref.Right], trk.Geographic)
		}

		rec.Vel[k] = math.NaN()
		if trk.HasTime {
			rec.Vel[k] = ref.Speed
		}
	}

	rec.Fields = make([]FieldPair, len(ok))
	for j := range ok {
		if a.cfg.RawValues {
			rec.Fields[j] = FieldPair{V1: vals[0][j], V2: vals[1][j]}
			continue
		}
		if ok[j] == 2 {
			rec.Fields[j] = FieldPair{
				V1: vals[0][j] - vals[1][j],
				V2: 0.5 * (vals[0][j] + vals[1][j]),
			}
		} else {
			rec.Fields[j] = FieldPair{V1: math.NaN(), V2: math.NaN()}
		}
	}
	return rec, true
}

// RecordWriter emits crossover records with the one-time global header and
// the per-pair headers. Header state lives here, threaded through the run,
// rather than in a process-wide flag.
type RecordWriter struct {
	w   io.Writer
	cfg Config

	gotTime    bool
	geographic bool
	fieldNames []string
	command    string

	wroteGlobal bool
	pending     *pairHeader
}

type pairHeader struct {
	a, b *track.Track
}

// NewRecordWriter returns a writer for the given run. command is echoed on
// the global header; fieldNames orders the field columns.
func NewRecordWriter(w io.Writer, cfg Config, gotTime, geographic bool, fieldNames []string, command string) *RecordWriter {
	return &RecordWriter{
		w:          w,
		cfg:        cfg,
		gotTime:    gotTime,
		geographic: geographic,
		fieldNames: fieldNames,
		command:    command,
	}
}

// BeginPair arms the per-pair header; it is written when (and only when) the
// pair emits its first record.
func (rw *RecordWriter) BeginPair(a, b *track.Track) {
	rw.pending = &pairHeader{a: a, b: b}
}

// WriteLocation emits a location-only crossing (no fields configured). The
// per-pair segment header precedes the pair's first location.
func (rw *RecordWriter) WriteLocation(x, y float64) error {
	if rw.pending != nil {
		if _, err := fmt.Fprintf(rw.w, "> %s - %s\n", rw.pending.a.Name, rw.pending.b.Name); err != nil {
			return err
		}
		rw.pending = nil
	}
	if rw.geographic {
		x = track.NormalizeLon(x)
	}
	_, err := fmt.Fprintf(rw.w, "%s\t%s\n", formatValue(x), formatValue(y))
	return err
}

// WriteRecord emits one full crossover record, preceded by the global header
// on the very first record of the run and the pair header on the pair's
// first record.
func (rw *RecordWriter) WriteRecord(rec Record) error {
	if !rw.wroteGlobal {
		if err := rw.writeGlobalHeader(); err != nil {
			return err
		}
		rw.wroteGlobal = true
	}
	if rw.pending != nil {
		if err := rw.writePairHeader(); err != nil {
			return err
		}
		rw.pending = nil
	}

	cols := make([]string, 0, 10+2*len(rec.Fields))
	cols = append(cols, formatValue(rec.X), formatValue(rec.Y))
	for k := 0; k < 2; k++ {
		cols = append(cols, formatValue(rec.Time[k]))
	}
	for k := 0; k < 2; k++ {
		cols = append(cols, formatValue(rec.Dist[k]))
	}
	for k := 0; k < 2; k++ {
		cols = append(cols, formatValue(rec.Head[k]))
	}
	for k := 0; k < 2; k++ {
		cols = append(cols, formatValue(rec.Vel[k]))
	}
	for _, f := range rec.Fields {
		cols = append(cols, formatValue(f.V1), formatValue(f.V2))
	}
	_, err := fmt.Fprintln(rw.w, strings.Join(cols, "\t"))
	return err
}

func (rw *RecordWriter) writeGlobalHeader() error {
	if rw.cfg.Tag != "" {
		if _, err := fmt.Fprintf(rw.w, "# Tag: %s\n", rw.cfg.Tag); err != nil {
			return err
		}
	}
	if rw.command != "" {
		if _, err := fmt.Fprintf(rw.w, "# Command: %s\n", rw.command); err != nil {
			return err
		}
	}

	xName, yName := "x", "y"
	if rw.geographic {
		xName, yName = "lon", "lat"
	}
	tOrI := "i"
	if rw.gotTime {
		tOrI = "t"
	}
	cols := []string{
		xName, yName,
		tOrI + "_1", tOrI + "_2",
		"dist_1", "dist_2",
		"head_1", "head_2",
		"vel_1", "vel_2",
	}
	for _, name := range rw.fieldNames {
		if rw.cfg.RawValues {
			cols = append(cols, name+"_1", name+"_2")
		} else {
			cols = append(cols, name+"_X", name+"_M")
		}
	}
	_, err := fmt.Fprintf(rw.w, "# %s\n", strings.Join(cols, "\t"))
	return err
}

// writePairHeader emits the segment header for a pair: names, first/last
// timestamp and total distance per side.
func (rw *RecordWriter) writePairHeader() error {
	spans := make([]string, 2)
	for k, trk := range []*track.Track{rw.pending.a, rw.pending.b} {
		first, last, ok := trk.TimeSpan()
		if ok {
			spans[k] = fmt.Sprintf("%s/%s/%s", formatValue(first), formatValue(last), formatValue(trk.TotalDist()))
		} else {
			spans[k] = fmt.Sprintf("NaN/NaN/%s", formatValue(trk.TotalDist()))
		}
	}
	_, err := fmt.Fprintf(rw.w, "> %s %s %s %s\n", rw.pending.a.Name, rw.pending.b.Name, spans[0], spans[1])
	return err
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
