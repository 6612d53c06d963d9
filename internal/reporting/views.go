package reporting

import (
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/analytics"
	"github.com/antipiracy/exposure-dashboard/internal/models"
)

// DashboardView is the content of the main dashboard tab
type DashboardView struct {
	DatasetID        string                  `json:"dataset_id"`
	Selection        models.Selection        `json:"selection"`
	Rows             int                     `json:"rows"`
	Summary          models.Summary          `json:"summary"`
	SheetTotals      []models.RankedGroup    `json:"sheet_totals"`
	TopFixtures      []models.RankedGroup    `json:"top_fixtures"`
	MonthlyTotals    []models.MonthlyTotal   `json:"monthly_totals"`
	SocialPlatforms  []models.RankedGroup    `json:"social_platforms"`
	SocialHighlights models.SocialHighlights `json:"social_highlights"`
	MatchdayTotals   []models.MatchdayTotal  `json:"matchday_totals"`
	MobileApps       models.MobileAppSummary `json:"mobile_apps"`
	Records          []models.Record         `json:"records,omitempty"`
}

// TelegramView is the content of the Telegram tab
type TelegramView struct {
	DatasetID            string                     `json:"dataset_id"`
	Selection            models.Selection           `json:"selection"`
	Rows                 int                        `json:"rows"`
	Summary              models.TelegramSummary     `json:"summary"`
	TopFixtures          []models.RankedGroup       `json:"top_fixtures"`
	TopProperties        []models.RankedGroup       `json:"top_properties"`
	DomainsBySubscribers []models.DomainSubscribers `json:"domains_by_subscribers"`
	MonthlyTotals        []models.MonthlyTotal      `json:"monthly_totals"`
	TopFixturesByViews   []models.ViewsByFixture    `json:"top_fixtures_by_views"`
	ChannelTypes         []models.CategoryCount     `json:"channel_types"`
	Records              []models.Record            `json:"records,omitempty"`
}

// Options returns the filter widget values of the current snapshot
func (s *Service) Options() (models.FilterOptions, error) {
	d, err := s.current()
	if err != nil {
		return models.FilterOptions{}, err
	}
	return analytics.Options(d), nil
}

// Dashboard computes the main tab for sel over the current snapshot. With
// withRecords the filtered rows are included for the data table.
func (s *Service) Dashboard(sel models.Selection, withRecords bool) (*DashboardView, error) {
	d, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.metrics.ObserveAggregation("dashboard", time.Now())

	f := analytics.Apply(d, sel)
	view := &DashboardView{
		DatasetID:        d.ID,
		Selection:        sel,
		Rows:             f.Len(),
		Summary:          analytics.Overview(f),
		SheetTotals:      analytics.SheetTotals(f),
		TopFixtures:      analytics.TopFixtures(f),
		MonthlyTotals:    analytics.MonthlyTotals(f),
		SocialPlatforms:  analytics.DomainSummary(f, models.SheetSocialMediaPlatforms),
		SocialHighlights: analytics.SocialPlatformHighlights(f),
		MatchdayTotals:   analytics.MatchdayTotals(f),
		MobileApps:       analytics.MobileApps(f),
	}
	if withRecords {
		view.Records = f.Records()
	}
	return view, nil
}

// Telegram computes the Telegram tab for sel over the Telegram sheet of the
// current snapshot
func (s *Service) Telegram(sel models.Selection, withRecords bool) (*TelegramView, error) {
	d, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.metrics.ObserveAggregation("telegram", time.Now())

	tg := analytics.Apply(d, sel).Sheet(models.SheetTelegram)
	view := &TelegramView{
		DatasetID:            d.ID,
		Selection:            sel,
		Rows:                 tg.Len(),
		Summary:              analytics.TelegramOverview(tg),
		TopFixtures:          analytics.TopFixtures(tg),
		TopProperties:        analytics.TopProperties(tg),
		DomainsBySubscribers: analytics.DomainsBySubscribers(tg),
		MonthlyTotals:        analytics.MonthlyTotals(tg),
		TopFixturesByViews:   analytics.TopFixturesByViews(tg),
		ChannelTypes:         analytics.ChannelTypes(tg),
	}
	if withRecords {
		view.Records = tg.Records()
	}
	return view, nil
}
