package analytics

import (
	"sort"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/models"
)

// MonthlyTotals buckets rows by calendar month of the identification
// timestamp, oldest month first
func MonthlyTotals(d *models.Dataset) []models.MonthlyTotal {
	buckets := make(map[time.Time]*rowTally)
	for _, r := range d.Records() {
		ts := r.IdentifiedAt
		month := time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
		t, ok := buckets[month]
		if !ok {
			t = &rowTally{}
			buckets[month] = t
		}
		t.add(r.Status)
	}

	rows := make([]models.MonthlyTotal, 0, len(buckets))
	for month, t := range buckets {
		rows = append(rows, models.MonthlyTotal{Month: month, TotalURLs: t.rows, RemovedCount: t.resolved})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month.Before(rows[j].Month) })
	return rows
}

// MatchdayTotals counts rows per matchday, ordered by the numeric suffix of
// the label so "Matchday 10" follows "Matchday 9". Rows with no matchday or
// a label without a trailing number are left out.
func MatchdayTotals(d *models.Dataset) []models.MatchdayTotal {
	g := newGrouper[int]()
	for _, r := range d.Records() {
		label := models.MatchdayLabel(r.Matchday)
		if _, ok := MatchdayOrdinal(label); !ok {
			continue
		}
		*g.get(label)++
	}

	rows := make([]models.MatchdayTotal, 0, len(g.keys))
	for _, label := range g.keys {
		ordinal, _ := MatchdayOrdinal(label)
		rows = append(rows, models.MatchdayTotal{Matchday: label, Ordinal: ordinal, TotalURLs: *g.byKey[label]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Ordinal < rows[j].Ordinal })
	return rows
}
