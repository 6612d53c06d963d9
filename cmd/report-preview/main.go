package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/antipiracy/exposure-dashboard/internal/config"
	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/antipiracy/exposure-dashboard/internal/reporting"
	"github.com/antipiracy/exposure-dashboard/internal/storage"
	"github.com/sirupsen/logrus"
)

const outputDir = "test_output"

// terminalNotifier prints deliveries instead of emailing them
type terminalNotifier struct{}

func (t *terminalNotifier) SendReport(ctx context.Context, d *models.Delivery) error {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println(d.Subject)
	fmt.Println(strings.Repeat("=", 70))

	if r := d.Report; r != nil {
		fmt.Printf("Period:          %s\n", r.Period)
		fmt.Printf("Generated:       %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
		fmt.Printf("Properties:      %d\n", r.Summary.TotalProperties)
		fmt.Printf("Fixtures:        %d\n", r.Summary.TotalFixtures)
		fmt.Printf("Infringements:   %d\n", r.Summary.TotalInfringements)
		fmt.Printf("Websites:        %d\n", r.Summary.TotalWebsites)
		fmt.Printf("Removal:         %.1f%%\n", r.Summary.RemovalPercentage)

		for _, page := range r.Pages {
			fmt.Printf("\n%s\n", page.Title)
			fmt.Printf("   %s\n", strings.Join(page.Columns, " | "))
			for _, row := range page.Rows {
				fmt.Printf("   %s\n", strings.Join(row, " | "))
			}
		}

		if err := saveReportJSON(r); err != nil {
			fmt.Printf("\nWarning: could not save report JSON: %v\n", err)
		}
	}

	if d.Attachment != nil {
		path := filepath.Join(outputDir, d.Attachment.Filename)
		if err := os.WriteFile(path, d.Attachment.Content, 0644); err != nil {
			return err
		}
		fmt.Printf("\nAttachment saved to: %s\n", path)
	}
	return nil
}

func saveReportJSON(r *models.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("exposure_report_%s.json", r.GeneratedAt.Format("2006-01-02_15-04-05")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Printf("\nReport saved to: %s\n", path)
	return nil
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: report-preview <workbook.xlsx>")
		os.Exit(2)
	}
	logrus.SetLevel(logrus.WarnLevel)

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read workbook: %v\n", err)
		os.Exit(1)
	}

	// Archived uploads and reports land next to the preview output
	store, err := storage.NewLocalStorage(filepath.Join(outputDir, "archive"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to prepare %s: %v\n", outputDir, err)
		os.Exit(1)
	}

	service := reporting.NewService(&config.Config{ReportSchedule: "weekly"}, store, &terminalNotifier{}, nil)

	ctx := context.Background()
	result, err := service.Ingest(ctx, filepath.Base(os.Args[1]), data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Workbook rejected: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d rows (%d dropped) from %s\n", result.Rows, result.Dropped, result.Source)

	if _, err := service.SendReport(ctx, models.Selection{}); err != nil {
		fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nService status:")
	fmt.Println(service.GetMetrics())
}
