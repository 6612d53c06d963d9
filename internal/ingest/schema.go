package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// column is a recognised workbook column
type column int

const (
	colProperty column = iota
	colFixture
	colDomain
	colURL
	colStatus
	colTimestamp
	colMatchday
	colChannelName
	colChannelSubscribers
	colViews
	colChannelStatus
	colChannelType
	colAppName
	colDownloads
)

// headerAliases maps canonical header text to columns. Canonical text is
// lower case with spaces, underscores and hyphens removed.
var headerAliases = map[string]column{
	"propertyname":            colProperty,
	"property":                colProperty,
	"fixtures":                colFixture,
	"fixture":                 colFixture,
	"domainname":              colDomain,
	"domain":                  colDomain,
	"url":                     colURL,
	"status":                  colStatus,
	"identificationtimestamp": colTimestamp,
	"matchday":                colMatchday,
	"channelname":             colChannelName,
	"channelsubscribers":      colChannelSubscribers,
	"views":                   colViews,
	"channelstatus":           colChannelStatus,
	"channeltype":             colChannelType,
	"appname":                 colAppName,
	"downloads":               colDownloads,
}

// Text layouts accepted for identification timestamps, tried in order
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006",
	"Jan 2, 2006",
}

func canonicalHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// headerIndex maps each recognised column to its cell position. A column
// that appears twice keeps its first position.
func headerIndex(header []string) map[column]int {
	idx := make(map[column]int)
	for i, h := range header {
		col, ok := headerAliases[canonicalHeader(h)]
		if !ok {
			continue
		}
		if _, dup := idx[col]; dup {
			continue
		}
		idx[col] = i
	}
	return idx
}

// parseTimestamp accepts an Excel date serial or one of timestampLayouts
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseNumber returns nil for blank or unparsable cells
func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
