// Package ingest turns an uploaded workbook into a Dataset. The workbook
// must hold exactly five sheets, read by position as infringing URLs,
// source URLs, Telegram, social media platforms and mobile applications.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// ValidationError reports an upload that cannot be installed
type ValidationError struct {
	Sheet  string           // workbook sheet name, empty for workbook-level problems
	Kind   models.SheetName // logical sheet at that position
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("invalid workbook: %s", e.Reason)
	}
	return fmt.Sprintf("invalid sheet %q (%s): %s", e.Sheet, e.Kind, e.Reason)
}

// SheetStats reports how many rows of a sheet were kept and dropped
type SheetStats struct {
	Sheet   models.SheetName `json:"sheet"`
	Name    string           `json:"name"`
	Rows    int              `json:"rows"`
	Dropped int              `json:"dropped"`
}

// LoadStats summarises one load
type LoadStats struct {
	Sheets []SheetStats `json:"sheets"`
}

// Rows returns the number of records kept across all sheets
func (s *LoadStats) Rows() int {
	n := 0
	for _, sh := range s.Sheets {
		n += sh.Rows
	}
	return n
}

// Dropped returns the number of rows dropped across all sheets
func (s *LoadStats) Dropped() int {
	n := 0
	for _, sh := range s.Sheets {
		n += sh.Dropped
	}
	return n
}

// Load reads a workbook and builds a new Dataset. Either the whole workbook
// is accepted or an error is returned; a partial Dataset is never produced.
func Load(r io.Reader, source string) (*models.Dataset, *LoadStats, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, &ValidationError{Reason: fmt.Sprintf("not a readable .xlsx workbook: %v", err)}
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) != len(models.AllSheets) {
		return nil, nil, &ValidationError{
			Reason: fmt.Sprintf("expected %d sheets, found %d", len(models.AllSheets), len(names)),
		}
	}

	var records []models.Record
	stats := &LoadStats{}

	for i, kind := range models.AllSheets {
		rows, err := f.GetRows(names[i], excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, &ValidationError{Sheet: names[i], Kind: kind, Reason: fmt.Sprintf("cannot read rows: %v", err)}
		}

		sheetRecords, sheetStats, err := parseSheet(names[i], kind, rows)
		if err != nil {
			return nil, nil, err
		}

		if sheetStats.Dropped > 0 {
			logrus.WithFields(logrus.Fields{
				"sheet":   names[i],
				"dropped": sheetStats.Dropped,
			}).Warn("Dropped rows without a valid identification timestamp")
		}

		records = append(records, sheetRecords...)
		stats.Sheets = append(stats.Sheets, sheetStats)
	}

	ds := models.NewDataset(uuid.NewString(), source, time.Now().UTC(), records)
	logrus.WithFields(logrus.Fields{
		"dataset": ds.ID,
		"source":  source,
		"rows":    stats.Rows(),
		"dropped": stats.Dropped(),
	}).Info("Loaded workbook")

	return ds, stats, nil
}

// LoadBytes is Load over an in-memory upload
func LoadBytes(data []byte, source string) (*models.Dataset, *LoadStats, error) {
	return Load(bytes.NewReader(data), source)
}

func parseSheet(name string, kind models.SheetName, rows [][]string) ([]models.Record, SheetStats, error) {
	stats := SheetStats{Sheet: kind, Name: name}
	if len(rows) == 0 {
		return nil, stats, nil
	}

	idx := headerIndex(rows[0])
	data := nonBlank(rows[1:])
	if len(data) == 0 {
		return nil, stats, nil
	}

	if len(idx) == 0 {
		return nil, stats, &ValidationError{Sheet: name, Kind: kind, Reason: "header row has no recognised columns"}
	}
	if _, ok := idx[colTimestamp]; !ok {
		return nil, stats, &ValidationError{Sheet: name, Kind: kind, Reason: "missing Identification Timestamp column"}
	}

	records := make([]models.Record, 0, len(data))
	for _, row := range data {
		cell := func(c column) string {
			i, ok := idx[c]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		ts, ok := parseTimestamp(cell(colTimestamp))
		if !ok {
			stats.Dropped++
			continue
		}

		records = append(records, models.Record{
			Sheet:              kind,
			PropertyName:       orDefault(cell(colProperty), models.Unknown),
			Fixture:            orDefault(cell(colFixture), models.Unknown),
			DomainName:         orDefault(cell(colDomain), models.Unknown),
			URL:                orDefault(cell(colURL), models.Unknown),
			Status:             orDefault(cell(colStatus), models.StatusPending),
			IdentifiedAt:       ts,
			Matchday:           models.MatchdayLabel(cell(colMatchday)),
			ChannelName:        cell(colChannelName),
			ChannelSubscribers: parseNumber(cell(colChannelSubscribers)),
			Views:              parseNumber(cell(colViews)),
			ChannelStatus:      cell(colChannelStatus),
			ChannelType:        cell(colChannelType),
			AppName:            cell(colAppName),
			Downloads:          parseNumber(cell(colDownloads)),
		})
	}

	stats.Rows = len(records)
	return records, stats, nil
}

func nonBlank(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
