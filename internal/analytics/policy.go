// Package analytics filters a Dataset and derives the summary tables the
// dashboard and the exposure report are built from. Every function is pure:
// inputs are never modified and each call computes a fresh result.
package analytics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Top-N sizes used by the dashboard and report
const (
	TopFixturesLimit   = 5
	TopPropertiesLimit = 5
	TopViewsLimit      = 5
	TopDomainsLimit    = 10
)

var trailingNumber = regexp.MustCompile(`(\d+)$`)

// IsResolved reports whether a status counts toward removal: Approved or
// Removed, compared case-insensitively.
func IsResolved(status string) bool {
	switch normalize(status) {
	case "approved", "removed":
		return true
	}
	return false
}

// RemovalPercentage returns resolved/total*100, or 0 when total is 0
func RemovalPercentage(resolved, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(resolved) / float64(total) * 100
}

// MatchdayOrdinal extracts the trailing integer of a matchday label
func MatchdayOrdinal(label string) (int, bool) {
	m := trailingNumber.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// normalize is the comparison form used for property, fixture and status matching
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// grouper accumulates a value per key and remembers first-seen key order, so
// a stable sort over its output breaks ties by input order.
type grouper[V any] struct {
	keys  []string
	byKey map[string]*V
}

func newGrouper[V any]() *grouper[V] {
	return &grouper[V]{byKey: make(map[string]*V)}
}

func (g *grouper[V]) get(key string) *V {
	if v, ok := g.byKey[key]; ok {
		return v
	}
	v := new(V)
	g.byKey[key] = v
	g.keys = append(g.keys, key)
	return v
}

// urlTally counts distinct URLs and how many of them have a resolved row
type urlTally struct {
	resolved     map[string]bool
	resolvedRows int
}

func (t *urlTally) add(url, status string) {
	if t.resolved == nil {
		t.resolved = make(map[string]bool)
	}
	ok := IsResolved(status)
	if ok {
		t.resolvedRows++
	}
	t.resolved[url] = t.resolved[url] || ok
}

func (t *urlTally) total() int {
	return len(t.resolved)
}

func (t *urlTally) removed() int {
	n := 0
	for _, ok := range t.resolved {
		if ok {
			n++
		}
	}
	return n
}

// rowTally counts rows and resolved rows
type rowTally struct {
	rows     int
	resolved int
}

func (t *rowTally) add(status string) {
	t.rows++
	if IsResolved(status) {
		t.resolved++
	}
}

// distinct counts distinct values
type distinct map[string]struct{}

func (d distinct) add(v string) {
	d[v] = struct{}{}
}

// sortStableDesc orders rows by score descending, keeping input order on ties
func sortStableDesc[T any](rows []T, score func(T) float64) {
	sort.SliceStable(rows, func(i, j int) bool {
		return score(rows[i]) > score(rows[j])
	})
}

func head[T any](rows []T, n int) []T {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
