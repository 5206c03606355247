package xover

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// PairTask is one unordered track pair scheduled for crossover processing.
type PairTask struct {
	A, B         int
	NameA, NameB string
	Self         bool
}

// PairSelector enumerates the eligible unordered pairs of an input track
// list, applying duplicate suppression, the internal/external filter and the
// optional whitelist.
type PairSelector struct {
	names     []string
	duplicate []bool
	kind      KindFilter
	whitelist *Whitelist
}

// NewPairSelector builds a selector and marks duplicated names. A track whose
// name textually matches an earlier entry is reported and excluded from all
// further processing.
func NewPairSelector(names []string, kind KindFilter, wl *Whitelist) *PairSelector {
	s := &PairSelector{
		names:     names,
		duplicate: make([]bool, len(names)),
		kind:      kind,
		whitelist: wl,
	}
	for a := 0; a < len(names); a++ {
		if s.duplicate[a] {
			continue
		}
		for b := a + 1; b < len(names); b++ {
			if s.duplicate[b] {
				continue
			}
			if names[a] == names[b] {
				log.Printf("track %s repeated on input - skipped", names[a])
				s.duplicate[b] = true
			}
		}
	}
	return s
}

// Duplicates returns the number of excluded duplicate entries.
func (s *PairSelector) Duplicates() int {
	n := 0
	for _, d := range s.duplicate {
		if d {
			n++
		}
	}
	return n
}

// Tasks returns every eligible unordered pair in deterministic order: for A
// in increasing index order, B in [A, N). The self-pair (A, A) is included
// unless external-only crossings were requested.
func (s *PairSelector) Tasks() []PairTask {
	var tasks []PairTask
	for a := 0; a < len(s.names); a++ {
		if s.duplicate[a] {
			continue
		}
		for b := a; b < len(s.names); b++ {
			if s.duplicate[b] {
				continue
			}
			// Textual duplicates were marked at construction, so two live
			// entries never share a name: same means a == b.
			same := a == b
			if s.kind == ExternalOnly && same {
				continue
			}
			if s.kind == InternalOnly && !same {
				continue
			}
			if s.whitelist != nil && !s.whitelist.Allows(s.names[a], s.names[b]) {
				continue
			}
			tasks = append(tasks, PairTask{
				A: a, B: b,
				NameA: s.names[a], NameB: s.names[b],
				Self: a == b,
			})
		}
	}
	return tasks
}

// Whitelist is a set of approved unordered track-name pairs.
type Whitelist struct {
	pairs [][2]string
}

// LoadWhitelist reads a combinations file: two whitespace-separated track
// names per line, '#' comments and blank lines ignored. A malformed line is a
// fatal error.
func LoadWhitelist(path string) (*Whitelist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open combinations file %s: %w", path, err)
	}
	defer f.Close()

	wl := &Whitelist{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("combinations file %s line %d: want two names, got %q", path, lineNo, line)
		}
		wl.pairs = append(wl.pairs, [2]string{fields[0], fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read combinations file %s: %w", path, err)
	}
	if len(wl.pairs) == 0 {
		return nil, fmt.Errorf("no combinations found in %s", path)
	}
	return wl, nil
}

// Allows reports whether the unordered pair (a, b) appears in the list, in
// either order.
func (w *Whitelist) Allows(a, b string) bool {
	for _, p := range w.pairs {
		if (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a) {
			return true
		}
	}
	return false
}

// Len returns the number of listed pairs.
func (w *Whitelist) Len() int { return len(w.pairs) }
