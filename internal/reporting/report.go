package reporting

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/analytics"
	"github.com/antipiracy/exposure-dashboard/internal/models"
	"github.com/antipiracy/exposure-dashboard/internal/workbook"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	PeriodOnDemand = "on demand"

	deliveryReport = "report"
	deliveryExport = "export"
)

// Report page titles in rendering order
const (
	PageSheetTotals          = "Sheet-wise Totals"
	PageTopFixtures          = "Top Fixtures"
	PageMonthlyTotals        = "Monthly Totals"
	PageSocialPlatforms      = "Social Platform Domains"
	PageMatchdayTotals       = "Matchday Totals"
	PageTelegramTopFixtures  = "Telegram Top Fixtures"
	PageTelegramProperties   = "Telegram Top Properties"
	PageTelegramSubscribers  = "Telegram Domains by Subscribers"
	PageTelegramMonthly      = "Telegram Monthly Totals"
	PageTopFixturesByViews   = "Top Fixtures by Views"
	PageTelegramChannelTypes = "Channel Types"
)

// BuildReport composes an on-demand report for sel over the current snapshot
func (s *Service) BuildReport(sel models.Selection) (*models.Report, error) {
	d, err := s.current()
	if err != nil {
		return nil, err
	}
	report, _ := s.compose(d, sel, PeriodOnDemand)
	return report, nil
}

func (s *Service) compose(d *models.Dataset, sel models.Selection, period string) (*models.Report, *models.Dataset) {
	defer s.metrics.ObserveAggregation("report", time.Now())

	f := analytics.Apply(d, sel)
	tg := f.Sheet(models.SheetTelegram)

	report := &models.Report{
		ID:          uuid.NewString(),
		GeneratedAt: s.now().UTC(),
		Period:      period,
		DatasetID:   d.ID,
		Selection:   sel,
		Summary:     analytics.Overview(f),
		Telegram:    analytics.TelegramOverview(tg),
		Pages: []models.ReportPage{
			rankedPage(PageSheetTotals, "Sheet", analytics.SheetTotals(f)),
			rankedPage(PageTopFixtures, "Fixture", analytics.TopFixtures(f)),
			monthlyPage(PageMonthlyTotals, analytics.MonthlyTotals(f)),
			rankedPage(PageSocialPlatforms, "Domain", analytics.DomainSummary(f, models.SheetSocialMediaPlatforms)),
			matchdayPage(analytics.MatchdayTotals(f)),
			rankedPage(PageTelegramTopFixtures, "Fixture", analytics.TopFixtures(tg)),
			rankedPage(PageTelegramProperties, "Property", analytics.TopProperties(tg)),
			subscribersPage(analytics.DomainsBySubscribers(tg)),
			monthlyPage(PageTelegramMonthly, analytics.MonthlyTotals(tg)),
			viewsPage(analytics.TopFixturesByViews(tg)),
			channelTypesPage(analytics.ChannelTypes(tg)),
		},
	}
	return report, f
}

// SendReport builds the report for sel, renders it as a workbook, archives
// it and delivers it
func (s *Service) SendReport(ctx context.Context, sel models.Selection) (*models.Report, error) {
	d, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.deliverReport(ctx, d, sel, PeriodOnDemand)
}

// RunScheduledReport is the cron entry point. It reports over the configured
// trailing window, or the whole snapshot when no window is set, and does
// nothing before the first upload.
func (s *Service) RunScheduledReport(ctx context.Context) error {
	d := s.snapshots.Load()
	if d == nil {
		logrus.Info("No workbook loaded, skipping scheduled report")
		return nil
	}

	now := s.now().UTC()
	var sel models.Selection
	if w := s.config.ReportWindow; w > 0 {
		sel.Start = now.Add(-w)
		sel.End = now
	}

	_, err := s.deliverReport(ctx, d, sel, now.Format("January 2006"))
	return err
}

func (s *Service) deliverReport(ctx context.Context, d *models.Dataset, sel models.Selection, period string) (*models.Report, error) {
	start := s.now()
	report, filtered := s.compose(d, sel, period)

	content, err := workbook.Report(report, filtered)
	if err != nil {
		s.recordError(err)
		return nil, fmt.Errorf("failed to render report workbook: %w", err)
	}

	filename := fmt.Sprintf("exposure_report_%s.xlsx", report.GeneratedAt.Format("20060102_150405"))
	s.archive(ctx, ArchiveReports+filename, content)

	subject := "Exposure Score Report - " + report.Period
	if period == PeriodOnDemand {
		subject = "Exposure Score Report - " + report.GeneratedAt.Format("January 2006")
	}

	delivery := &models.Delivery{
		Subject:    subject,
		Kind:       deliveryReport,
		Report:     report,
		Attachment: &models.Attachment{Filename: filename, Content: content},
	}

	err = s.notificationService.SendReport(ctx, delivery)
	s.publish(eventFor(EventReportSent, d, err))
	if err != nil {
		s.recordError(err)
		return nil, fmt.Errorf("failed to send report: %w", err)
	}

	s.mu.Lock()
	s.status.ReportsSent++
	s.status.LastReport = report.GeneratedAt
	s.status.LastReportDuration = s.now().Sub(start).String()
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"report":  report.ID,
		"dataset": d.ID,
		"period":  report.Period,
	}).Info("Report sent")

	return report, nil
}

// ExportFiltered renders the rows matching sel as a workbook
func (s *Service) ExportFiltered(sel models.Selection) (*models.Attachment, error) {
	d, err := s.current()
	if err != nil {
		return nil, err
	}

	content, err := workbook.FilteredRows(analytics.Apply(d, sel))
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	return &models.Attachment{
		Filename: fmt.Sprintf("filtered_data_%s.xlsx", s.now().UTC().Format("20060102_150405")),
		Content:  content,
	}, nil
}

// SendExport emails the filtered rows workbook
func (s *Service) SendExport(ctx context.Context, sel models.Selection) error {
	attachment, err := s.ExportFiltered(sel)
	if err != nil {
		return err
	}

	delivery := &models.Delivery{
		Subject:    "Exposure Data Export - " + s.now().UTC().Format("January 2006"),
		Kind:       deliveryExport,
		Attachment: attachment,
	}

	err = s.notificationService.SendReport(ctx, delivery)
	s.publish(eventFor(EventExportSent, s.snapshots.Load(), err))
	if err != nil {
		s.recordError(err)
		return fmt.Errorf("failed to send export: %w", err)
	}

	logrus.WithField("file", attachment.Filename).Info("Export sent")
	return nil
}

func (s *Service) archive(ctx context.Context, name string, content []byte) {
	if err := s.storage.Store(ctx, name, content); err != nil {
		logrus.WithField("file", name).Errorf("Failed to archive: %v", err)
		s.recordError(err)
	}
}

func eventFor(kind string, d *models.Dataset, err error) Event {
	e := Event{Type: kind}
	if d != nil {
		e.DatasetID = d.ID
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

func rankedPage(title, nameColumn string, rows []models.RankedGroup) models.ReportPage {
	page := models.ReportPage{Title: title, Columns: []string{nameColumn, "Total URLs", "Removed"}}
	for _, r := range rows {
		page.Rows = append(page.Rows, []string{r.Name, strconv.Itoa(r.TotalURLs), strconv.Itoa(r.RemovedCount)})
	}
	return page
}

func monthlyPage(title string, rows []models.MonthlyTotal) models.ReportPage {
	page := models.ReportPage{Title: title, Columns: []string{"Month", "Total URLs", "Removed"}}
	for _, r := range rows {
		page.Rows = append(page.Rows, []string{r.Label(), strconv.Itoa(r.TotalURLs), strconv.Itoa(r.RemovedCount)})
	}
	return page
}

func matchdayPage(rows []models.MatchdayTotal) models.ReportPage {
	page := models.ReportPage{Title: PageMatchdayTotals, Columns: []string{"Matchday", "Total URLs"}}
	for _, r := range rows {
		page.Rows = append(page.Rows, []string{r.Matchday, strconv.Itoa(r.TotalURLs)})
	}
	return page
}

func subscribersPage(rows []models.DomainSubscribers) models.ReportPage {
	page := models.ReportPage{Title: PageTelegramSubscribers, Columns: []string{"Domain", "Subscribers"}}
	for _, r := range rows {
		page.Rows = append(page.Rows, []string{r.Domain, formatCount(r.TotalSubscribers)})
	}
	return page
}

func viewsPage(rows []models.ViewsByFixture) models.ReportPage {
	page := models.ReportPage{Title: PageTopFixturesByViews, Columns: []string{"Fixture", "Views"}}
	for _, r := range rows {
		page.Rows = append(page.Rows, []string{r.Fixture, formatCount(r.Views)})
	}
	return page
}

func channelTypesPage(rows []models.CategoryCount) models.ReportPage {
	page := models.ReportPage{Title: PageTelegramChannelTypes, Columns: []string{"Channel Type", "Count"}}
	for _, r := range rows {
		page.Rows = append(page.Rows, []string{r.Category, strconv.Itoa(r.Count)})
	}
	return page
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
