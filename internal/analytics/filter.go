package analytics

import (
	"github.com/antipiracy/exposure-dashboard/internal/models"
)

// Apply returns the records of d matching the selection. Property and
// fixture values are compared case-insensitively after trimming; the date
// range is inclusive at both ends. The dimensions combine with AND and an
// unset dimension does not restrict. Nothing matching yields an empty Dataset.
func Apply(d *models.Dataset, sel models.Selection) *models.Dataset {
	property := ""
	if sel.RestrictsProperty() {
		property = normalize(sel.Property)
	}

	var fixtures map[string]struct{}
	if len(sel.Fixtures) > 0 {
		fixtures = make(map[string]struct{}, len(sel.Fixtures))
		for _, f := range sel.Fixtures {
			fixtures[normalize(f)] = struct{}{}
		}
	}

	dates := sel.RestrictsDates()

	return d.Where(func(r models.Record) bool {
		if property != "" && normalize(r.PropertyName) != property {
			return false
		}
		if fixtures != nil {
			if _, ok := fixtures[normalize(r.Fixture)]; !ok {
				return false
			}
		}
		if dates && (r.IdentifiedAt.Before(sel.Start) || r.IdentifiedAt.After(sel.End)) {
			return false
		}
		return true
	})
}

// Options lists the distinct properties and fixtures in first-seen order and
// the timestamp bounds, used to seed the dashboard filter widgets
func Options(d *models.Dataset) models.FilterOptions {
	var opts models.FilterOptions
	seenProps := distinct{}
	seenFixtures := distinct{}

	for _, r := range d.Records() {
		if _, ok := seenProps[r.PropertyName]; !ok {
			seenProps.add(r.PropertyName)
			opts.Properties = append(opts.Properties, r.PropertyName)
		}
		if _, ok := seenFixtures[r.Fixture]; !ok {
			seenFixtures.add(r.Fixture)
			opts.Fixtures = append(opts.Fixtures, r.Fixture)
		}
	}

	if first, last, ok := d.TimeRange(); ok {
		opts.Start, opts.End = first, last
	}
	return opts
}
