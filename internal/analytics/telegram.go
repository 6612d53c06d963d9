package analytics

import (
	"github.com/antipiracy/exposure-dashboard/internal/models"
)

// Channel types kept by ChannelTypes
var channelTypes = map[string]string{
	"public":  "Public",
	"private": "Private",
}

// TelegramOverview computes the Telegram tab counters over the Telegram
// sheet of d. Views and subscriber cells that did not parse as numbers are
// left out of the sums.
func TelegramOverview(d *models.Dataset) models.TelegramSummary {
	properties, fixtures, domains := distinct{}, distinct{}, distinct{}
	suspended := distinct{}
	var urls urlTally
	var s models.TelegramSummary

	for _, r := range d.Sheet(models.SheetTelegram).Records() {
		properties.add(r.PropertyName)
		fixtures.add(r.Fixture)
		domains.add(r.DomainName)
		urls.add(r.URL, r.Status)

		if normalize(r.ChannelStatus) == "suspended" {
			suspended.add(r.URL)
		}
		if r.Views != nil {
			s.TotalViews += *r.Views
		}
		if r.ChannelSubscribers != nil {
			s.TotalSubscribers += *r.ChannelSubscribers
			if IsResolved(r.Status) {
				s.ImpactedSubscribers += *r.ChannelSubscribers
			}
		}
	}

	s.TotalProperties = len(properties)
	s.TotalFixtures = len(fixtures)
	s.TotalInfringements = urls.total()
	s.TotalChannels = len(domains)
	s.RemovalPercentage = RemovalPercentage(urls.removed(), urls.total())
	s.ChannelsSuspended = len(suspended)
	return s
}

// DomainsBySubscribers sums channel subscribers per Telegram domain, top 10.
// A domain whose subscriber cells are all absent is kept with a zero total.
func DomainsBySubscribers(d *models.Dataset) []models.DomainSubscribers {
	g := newGrouper[float64]()
	for _, r := range d.Sheet(models.SheetTelegram).Records() {
		sum := g.get(r.DomainName)
		if r.ChannelSubscribers != nil {
			*sum += *r.ChannelSubscribers
		}
	}

	rows := make([]models.DomainSubscribers, 0, len(g.keys))
	for _, k := range g.keys {
		rows = append(rows, models.DomainSubscribers{Domain: k, TotalSubscribers: *g.byKey[k]})
	}
	sortStableDesc(rows, func(r models.DomainSubscribers) float64 { return r.TotalSubscribers })
	return head(rows, TopDomainsLimit)
}

// ChannelTypes counts Telegram rows per channel type, keeping only Public
// and Private, most frequent first
func ChannelTypes(d *models.Dataset) []models.CategoryCount {
	g := newGrouper[int]()
	for _, r := range d.Sheet(models.SheetTelegram).Records() {
		name, ok := channelTypes[normalize(r.ChannelType)]
		if !ok {
			continue
		}
		*g.get(name)++
	}

	rows := make([]models.CategoryCount, 0, len(g.keys))
	for _, k := range g.keys {
		rows = append(rows, models.CategoryCount{Category: k, Count: *g.byKey[k]})
	}
	sortStableDesc(rows, func(r models.CategoryCount) float64 { return float64(r.Count) })
	return rows
}

// TopFixturesByViews sums Telegram views per fixture, top 5. Rows whose
// views did not parse are dropped before grouping.
func TopFixturesByViews(d *models.Dataset) []models.ViewsByFixture {
	g := newGrouper[float64]()
	for _, r := range d.Sheet(models.SheetTelegram).Records() {
		if r.Views == nil {
			continue
		}
		*g.get(r.Fixture) += *r.Views
	}

	rows := make([]models.ViewsByFixture, 0, len(g.keys))
	for _, k := range g.keys {
		rows = append(rows, models.ViewsByFixture{Fixture: k, Views: *g.byKey[k]})
	}
	sortStableDesc(rows, func(r models.ViewsByFixture) float64 { return r.Views })
	return head(rows, TopViewsLimit)
}
