package analytics

import (
	"github.com/antipiracy/exposure-dashboard/internal/models"
)

// Overview computes the headline counters. Removal percentage is the share
// of distinct URLs with at least one resolved row.
func Overview(d *models.Dataset) models.Summary {
	properties, fixtures, domains := distinct{}, distinct{}, distinct{}
	var urls urlTally

	for _, r := range d.Records() {
		properties.add(r.PropertyName)
		fixtures.add(r.Fixture)
		domains.add(r.DomainName)
		urls.add(r.URL, r.Status)
	}

	return models.Summary{
		TotalProperties:    len(properties),
		TotalFixtures:      len(fixtures),
		TotalInfringements: urls.total(),
		TotalWebsites:      len(domains),
		RemovalPercentage:  RemovalPercentage(urls.removed(), urls.total()),
	}
}

// TopFixtures ranks fixtures by distinct URL count, top 5. Pass a
// sheet-scoped Dataset for the Telegram variant.
func TopFixtures(d *models.Dataset) []models.RankedGroup {
	return rankByURLs(d, func(r models.Record) string { return r.Fixture }, TopFixturesLimit)
}

// TopProperties ranks properties by distinct URL count, top 5
func TopProperties(d *models.Dataset) []models.RankedGroup {
	return rankByURLs(d, func(r models.Record) string { return r.PropertyName }, TopPropertiesLimit)
}

// SheetTotals counts distinct URLs and resolved rows per sheet, largest
// first. A URL detected twice and resolved twice counts one URL and two
// removals.
func SheetTotals(d *models.Dataset) []models.RankedGroup {
	g := newGrouper[urlTally]()
	for _, r := range d.Records() {
		g.get(string(r.Sheet)).add(r.URL, r.Status)
	}

	rows := make([]models.RankedGroup, 0, len(g.keys))
	for _, k := range g.keys {
		t := g.byKey[k]
		rows = append(rows, models.RankedGroup{Name: k, TotalURLs: t.total(), RemovedCount: t.resolvedRows})
	}
	sortStableDesc(rows, func(r models.RankedGroup) float64 { return float64(r.TotalURLs) })
	return rows
}

// DomainSummary counts rows and resolved rows per domain within one sheet,
// largest first. Used for the social platform and Telegram platform tables.
func DomainSummary(d *models.Dataset, sheet models.SheetName) []models.RankedGroup {
	g := newGrouper[rowTally]()
	for _, r := range d.Sheet(sheet).Records() {
		g.get(r.DomainName).add(r.Status)
	}

	rows := make([]models.RankedGroup, 0, len(g.keys))
	for _, k := range g.keys {
		t := g.byKey[k]
		rows = append(rows, models.RankedGroup{Name: k, TotalURLs: t.rows, RemovedCount: t.resolved})
	}
	sortStableDesc(rows, func(r models.RankedGroup) float64 { return float64(r.TotalURLs) })
	return rows
}

// SocialPlatformHighlights summarises the social platform table: the share
// of feeds removed and the platform with the most removals
func SocialPlatformHighlights(d *models.Dataset) models.SocialHighlights {
	rows := DomainSummary(d, models.SheetSocialMediaPlatforms)

	var total, removed int
	var top *models.RankedGroup
	for i := range rows {
		total += rows[i].TotalURLs
		removed += rows[i].RemovedCount
		if top == nil || rows[i].RemovedCount > top.RemovedCount {
			row := rows[i]
			top = &row
		}
	}

	return models.SocialHighlights{
		FeedsRemovedPercentage: RemovalPercentage(removed, total),
		TopPlatform:            top,
	}
}

// MobileApps counts distinct app names and sums downloads on the
// MobileApplications sheet. Unparsable download cells are not counted.
func MobileApps(d *models.Dataset) models.MobileAppSummary {
	apps := distinct{}
	var downloads float64
	for _, r := range d.Sheet(models.SheetMobileApplications).Records() {
		if r.AppName != "" {
			apps.add(r.AppName)
		}
		if r.Downloads != nil {
			downloads += *r.Downloads
		}
	}
	return models.MobileAppSummary{UniqueApps: len(apps), TotalDownloads: downloads}
}

func rankByURLs(d *models.Dataset, key func(models.Record) string, limit int) []models.RankedGroup {
	g := newGrouper[urlTally]()
	for _, r := range d.Records() {
		g.get(key(r)).add(r.URL, r.Status)
	}

	rows := make([]models.RankedGroup, 0, len(g.keys))
	for _, k := range g.keys {
		t := g.byKey[k]
		rows = append(rows, models.RankedGroup{Name: k, TotalURLs: t.total(), RemovedCount: t.removed()})
	}
	sortStableDesc(rows, func(r models.RankedGroup) float64 { return float64(r.TotalURLs) })
	return head(rows, limit)
}
