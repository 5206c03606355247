// Package trackdb persists survey tracks in SQLite so repeated crossover runs
// can pull them by name instead of re-parsing source files.
package trackdb

import (
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/crossover.report/internal/track"
)

type DB struct {
	*sql.DB
}

// NewDB opens the track database at path and applies any pending schema
// migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDB opens the database without touching the schema. The embedded
// migrations are the only schema authority; callers that want the schema in
// place go through NewDB.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// SaveTrack stores a track under its name, replacing any previous version.
func (db *DB) SaveTrack(trk *track.Track) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteTrackTx(tx, trk.Name); err != nil {
		return err
	}

	hasTime := 0
	if trk.Time != nil {
		hasTime = 1
	}
	geographic := 0
	if trk.Geographic {
		geographic = 1
	}
	res, err := tx.Exec(
		`INSERT INTO tracks (name, geographic, has_time) VALUES (?, ?, ?)`,
		trk.Name, geographic, hasTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert track %s: %v", trk.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	insSample, err := tx.Prepare(`INSERT INTO samples (track_id, seq, x, y, t) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insSample.Close()
	for i := 0; i < trk.Len(); i++ {
		var t any
		if trk.Time != nil {
			t = nullable(trk.Time[i])
		}
		if _, err := insSample.Exec(id, i, nullable(trk.X[i]), nullable(trk.Y[i]), t); err != nil {
			return fmt.Errorf("failed to insert sample %d of %s: %v", i, trk.Name, err)
		}
	}

	insValue, err := tx.Prepare(`INSERT INTO field_values (track_id, seq, field, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insValue.Close()
	for ord, f := range trk.Fields {
		if _, err := tx.Exec(`INSERT INTO fields (track_id, name, ord) VALUES (?, ?, ?)`, id, f.Name, ord); err != nil {
			return fmt.Errorf("failed to register field %s on %s: %v", f.Name, trk.Name, err)
		}
		for i, v := range f.Values {
			if _, err := insValue.Exec(id, i, f.Name, nullable(v)); err != nil {
				return fmt.Errorf("failed to insert %s[%d] of %s: %v", f.Name, i, trk.Name, err)
			}
		}
	}

	return tx.Commit()
}

// LoadTrack reconstructs the named track. distScale is the along-track
// distance conversion applied when cumulative distances are recomputed.
func (db *DB) LoadTrack(name string, distScale float64) (*track.Track, error) {
	var id int64
	var geographic, hasTime int
	err := db.QueryRow(
		`SELECT track_id, geographic, has_time FROM tracks WHERE name = ?`, name,
	).Scan(&id, &geographic, &hasTime)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track %s not found", name)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT x, y, t FROM samples WHERE track_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var x, y, tm []float64
	for rows.Next() {
		var xv, yv, tv sql.NullFloat64
		if err := rows.Scan(&xv, &yv, &tv); err != nil {
			return nil, err
		}
		x = append(x, floatOrNaN(xv))
		y = append(y, floatOrNaN(yv))
		tm = append(tm, floatOrNaN(tv))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if hasTime == 0 {
		tm = nil
	}

	fields, err := db.loadFields(id, len(x))
	if err != nil {
		return nil, fmt.Errorf("failed to load fields of %s: %v", name, err)
	}

	return track.New(name, x, y, tm, fields, geographic != 0, distScale)
}

func (db *DB) loadFields(id int64, n int) ([]track.Field, error) {
	rows, err := db.Query(`SELECT name FROM fields WHERE track_id = ? ORDER BY ord`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []track.Field
	index := map[string]int{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		values := make([]float64, n)
		for i := range values {
			values[i] = math.NaN()
		}
		index[name] = len(fields)
		fields = append(fields, track.Field{Name: name, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	vrows, err := db.Query(`SELECT seq, field, value FROM field_values WHERE track_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var seq int
		var field string
		var value sql.NullFloat64
		if err := vrows.Scan(&seq, &field, &value); err != nil {
			return nil, err
		}
		j, ok := index[field]
		if !ok || seq < 0 || seq >= n {
			continue
		}
		fields[j].Values[seq] = floatOrNaN(value)
	}
	return fields, vrows.Err()
}

// ListTracks returns the stored track names in lexical order.
func (db *DB) ListTracks() ([]string, error) {
	rows, err := db.Query(`SELECT name FROM tracks ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteTrack removes the named track and all of its rows.
func (db *DB) DeleteTrack(name string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := deleteTrackTx(tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteTrackTx(tx *sql.Tx, name string) error {
	var id int64
	err := tx.QueryRow(`SELECT track_id FROM tracks WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		`DELETE FROM field_values WHERE track_id = ?`,
		`DELETE FROM fields WHERE track_id = ?`,
		`DELETE FROM samples WHERE track_id = ?`,
		`DELETE FROM tracks WHERE track_id = ?`,
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return err
		}
	}
	return nil
}

// Loader adapts the store to the engine's track loading contract.
type Loader struct {
	DB        *DB
	DistScale float64
}

func (l Loader) Load(id string) (*track.Track, error) {
	scale := l.DistScale
	if scale == 0 {
		scale = 1
	}
	return l.DB.LoadTrack(id, scale)
}

// SQLite has no NaN: missing values are stored as NULL.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
