// Package workbook renders filtered records and reports as .xlsx files.
package workbook

import (
	"fmt"
	"strings"

	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	DataSheet    = "Data"

	// Excel rejects longer sheet names
	maxSheetName = 31
)

// dataColumns is the header of the Data sheet and of filtered exports
var dataColumns = []string{
	"Sheet",
	"Property Name",
	"Fixtures",
	"Domain Name",
	"URL",
	"Status",
	"Identification Timestamp",
	"Matchday",
	"Channel Name",
	"Channel Subscribers",
	"Views",
	"Channel Status",
	"Channel Type",
	"App Name",
	"Downloads",
}

// FilteredRows renders one header row and one row per record
func FilteredRows(d *models.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return nil, fmt.Errorf("failed to name data sheet: %w", err)
	}
	if err := writeRecords(f, DataSheet, d); err != nil {
		return nil, err
	}

	return finish(f)
}

// Report renders a Summary sheet, one sheet per page in report order and a
// Data sheet with the records the report was built from
func Report(report *models.Report, d *models.Dataset) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeTable(f, SummarySheet, []string{"Metric", "Value"}, summaryRows(report)); err != nil {
		return nil, err
	}

	used := map[string]bool{strings.ToLower(SummarySheet): true, strings.ToLower(DataSheet): true}
	for _, page := range report.Pages {
		name := sheetName(page.Title, used)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
		if err := writeTable(f, name, page.Columns, page.Rows); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(DataSheet); err != nil {
		return nil, fmt.Errorf("failed to add data sheet: %w", err)
	}
	if err := writeRecords(f, DataSheet, d); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return finish(f)
}

func summaryRows(r *models.Report) [][]string {
	sel := r.Selection
	property := sel.Property
	if !sel.RestrictsProperty() {
		property = models.AllProperties
	}
	fixtures := "All"
	if len(sel.Fixtures) > 0 {
		fixtures = strings.Join(sel.Fixtures, ", ")
	}
	dateRange := "All"
	if sel.RestrictsDates() {
		dateRange = sel.Start.Format("2006-01-02") + " to " + sel.End.Format("2006-01-02")
	}

	return [][]string{
		{"Report", r.ID},
		{"Generated", r.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")},
		{"Period", r.Period},
		{"Dataset", r.DatasetID},
		{"Property", property},
		{"Fixtures", fixtures},
		{"Date range", dateRange},
		{"Total properties", fmt.Sprint(r.Summary.TotalProperties)},
		{"Total fixtures", fmt.Sprint(r.Summary.TotalFixtures)},
		{"Total infringements", fmt.Sprint(r.Summary.TotalInfringements)},
		{"Total websites", fmt.Sprint(r.Summary.TotalWebsites)},
		{"Removal percentage", fmt.Sprintf("%.2f%%", r.Summary.RemovalPercentage)},
		{"Telegram infringements", fmt.Sprint(r.Telegram.TotalInfringements)},
		{"Telegram channels", fmt.Sprint(r.Telegram.TotalChannels)},
		{"Telegram channels suspended", fmt.Sprint(r.Telegram.ChannelsSuspended)},
		{"Telegram views", fmt.Sprintf("%.0f", r.Telegram.TotalViews)},
		{"Telegram subscribers", fmt.Sprintf("%.0f", r.Telegram.TotalSubscribers)},
		{"Telegram impacted subscribers", fmt.Sprintf("%.0f", r.Telegram.ImpactedSubscribers)},
	}
}

func writeTable(f *excelize.File, sheet string, columns []string, rows [][]string) error {
	if err := writeHeader(f, sheet, columns); err != nil {
		return err
	}
	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRecords(f *excelize.File, sheet string, d *models.Dataset) error {
	if err := writeHeader(f, sheet, dataColumns); err != nil {
		return err
	}
	for i, r := range d.Records() {
		values := []interface{}{
			string(r.Sheet),
			r.PropertyName,
			r.Fixture,
			r.DomainName,
			r.URL,
			r.Status,
			r.IdentifiedAt,
			r.Matchday,
			r.ChannelName,
			number(r.ChannelSubscribers),
			number(r.Views),
			r.ChannelStatus,
			r.ChannelType,
			r.AppName,
			number(r.Downloads),
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	if len(columns) == 0 {
		return nil
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func finish(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// number leaves absent values as empty cells
func number(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// sheetName makes title a valid sheet name not yet in used. Keys of used
// are lower case since sheet names compare case-insensitively.
func sheetName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Page"
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}

	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
