package models

import "time"

// Summary holds the headline counters for a filtered Dataset
type Summary struct {
	TotalProperties    int     `json:"total_properties"`
	TotalFixtures      int     `json:"total_fixtures"`
	TotalInfringements int     `json:"total_infringements"` // unique URLs
	TotalWebsites      int     `json:"total_websites"`      // unique domains
	RemovalPercentage  float64 `json:"removal_percentage"`
}

// TelegramSummary holds the Telegram tab counters
type TelegramSummary struct {
	TotalProperties     int     `json:"total_properties"`
	TotalFixtures       int     `json:"total_fixtures"`
	TotalInfringements  int     `json:"total_infringements"`
	TotalChannels       int     `json:"total_channels"` // unique domains
	RemovalPercentage   float64 `json:"removal_percentage"`
	TotalViews          float64 `json:"total_views"`
	ChannelsSuspended   int     `json:"channels_suspended"`
	TotalSubscribers    float64 `json:"total_subscribers"`
	ImpactedSubscribers float64 `json:"impacted_subscribers"`
}

// RankedGroup is one row of a grouped URL-volume table. Name is the fixture,
// property, domain or sheet the group is keyed on.
type RankedGroup struct {
	Name         string `json:"name"`
	TotalURLs    int    `json:"total_urls"`
	RemovedCount int    `json:"removed_count"`
}

// MonthlyTotal is one calendar month bucket
type MonthlyTotal struct {
	Month        time.Time `json:"month"` // first instant of the month, UTC
	TotalURLs    int       `json:"total_urls"`
	RemovedCount int       `json:"removed_count"`
}

// Label formats the bucket as "2006-01"
func (m MonthlyTotal) Label() string {
	return m.Month.Format("2006-01")
}

// MatchdayTotal is one matchday bucket
type MatchdayTotal struct {
	Matchday  string `json:"matchday"`
	Ordinal   int    `json:"ordinal"`
	TotalURLs int    `json:"total_urls"`
}

// DomainSubscribers is the subscriber sum for one Telegram domain
type DomainSubscribers struct {
	Domain           string  `json:"domain"`
	TotalSubscribers float64 `json:"total_subscribers"`
}

// CategoryCount counts records per category value
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ViewsByFixture is the summed view count for one fixture
type ViewsByFixture struct {
	Fixture string  `json:"fixture"`
	Views   float64 `json:"views"`
}

// SocialHighlights are the headline figures shown with the social platform chart
type SocialHighlights struct {
	FeedsRemovedPercentage float64      `json:"feeds_removed_percentage"`
	TopPlatform            *RankedGroup `json:"top_platform,omitempty"`
}

// MobileAppSummary holds the mobile application counters
type MobileAppSummary struct {
	UniqueApps     int     `json:"unique_apps"`
	TotalDownloads float64 `json:"total_downloads"`
}

// FilterOptions are the values offered by the dashboard filter widgets
type FilterOptions struct {
	Properties []string  `json:"properties"`
	Fixtures   []string  `json:"fixtures"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}
