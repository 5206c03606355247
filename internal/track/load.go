package track

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Load reads a track from a delimited text file. The first non-comment line
// names the columns; position columns are "x"/"y" or "lon"/"lat" (the latter
// marks the track geographic), an optional "time"/"t" column carries sample
// times, and every remaining column is an auxiliary data field. Values are
// separated by commas, tabs or spaces; empty or "nan" entries are missing.
// distScale converts meters (geographic) or coordinate units (cartesian) to
// the configured distance unit.
func Load(path string, distScale float64) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var header []string
	var columns [][]float64
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := splitColumns(line)
		if header == nil {
			header = tokens
			columns = make([][]float64, len(header))
			continue
		}
		if len(tokens) != len(header) {
			return nil, fmt.Errorf("track %s line %d: got %d values, want %d", path, lineNo, len(tokens), len(header))
		}
		for i, tok := range tokens {
			columns[i] = append(columns[i], parseValue(tok))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read track %s: %w", path, err)
	}
	if header == nil {
		return nil, fmt.Errorf("track %s: missing header line", path)
	}

	return fromColumns(name, header, columns, distScale)
}

func splitColumns(line string) []string {
	if strings.ContainsRune(line, ',') {
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return strings.Fields(line)
}

func parseValue(tok string) float64 {
	if tok == "" || strings.EqualFold(tok, "nan") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// fromColumns builds a Track from named columns, identifying the position and
// time columns by name.
func fromColumns(name string, header []string, columns [][]float64, distScale float64) (*Track, error) {
	xCol, yCol, tCol := -1, -1, -1
	geographic := false
	for i, h := range header {
		switch strings.ToLower(h) {
		case "x":
			xCol = i
		case "y":
			yCol = i
		case "lon", "longitude":
			xCol = i
			geographic = true
		case "lat", "latitude":
			yCol = i
			geographic = true
		case "time", "t":
			tCol = i
		}
	}
	if xCol < 0 || yCol < 0 {
		return nil, fmt.Errorf("track %s: x,y (or lon,lat) not among data columns", name)
	}

	var tm []float64
	if tCol >= 0 {
		tm = columns[tCol]
	}
	var fields []Field
	for i, h := range header {
		if i == xCol || i == yCol || i == tCol {
			continue
		}
		fields = append(fields, Field{Name: h, Values: columns[i]})
	}

	return New(name, columns[xCol], columns[yCol], tm, fields, geographic, distScale)
}
