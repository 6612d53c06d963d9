package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SheetName identifies which workbook sheet a record came from
type SheetName string

const (
	SheetInfringingURLs       SheetName = "InfringingUrls"
	SheetSourceURLs           SheetName = "SourceUrls"
	SheetTelegram             SheetName = "Telegram"
	SheetSocialMediaPlatforms SheetName = "SocialMediaPlatforms"
	SheetMobileApplications   SheetName = "MobileApplications"
)

// AllSheets lists the sheets in the order they appear in an upload
var AllSheets = []SheetName{
	SheetInfringingURLs,
	SheetSourceURLs,
	SheetTelegram,
	SheetSocialMediaPlatforms,
	SheetMobileApplications,
}

const (
	// Unknown fills missing property, fixture, domain and url cells
	Unknown = "Unknown"
	// StatusPending fills missing status cells
	StatusPending = "Pending"
	// AllProperties is the property selection that disables the property filter
	AllProperties = "All"
)

// Record represents one detected item: a URL, a social post, a Telegram
// message or an app listing
type Record struct {
	Sheet        SheetName `json:"sheet_name"`
	PropertyName string    `json:"property_name"`
	Fixture      string    `json:"fixture"`
	DomainName   string    `json:"domain_name"`
	URL          string    `json:"url"`
	Status       string    `json:"status"` // "Pending", "Approved", "Removed", ...
	IdentifiedAt time.Time `json:"identification_timestamp"`

	// Sheet specific, empty or nil when the sheet has no such column
	Matchday           string   `json:"matchday,omitempty"`
	ChannelName        string   `json:"channel_name,omitempty"`
	ChannelSubscribers *float64 `json:"channel_subscribers,omitempty"`
	Views              *float64 `json:"views,omitempty"`
	ChannelStatus      string   `json:"channel_status,omitempty"`
	ChannelType        string   `json:"channel_type,omitempty"`
	AppName            string   `json:"app_name,omitempty"`
	Downloads          *float64 `json:"downloads,omitempty"`
}

// Selection is the dashboard filter. Zero values mean "no restriction".
type Selection struct {
	Property string    `json:"property"`
	Fixtures []string  `json:"fixtures"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// RestrictsProperty reports whether the selection names a single property
func (s Selection) RestrictsProperty() bool {
	p := strings.TrimSpace(s.Property)
	return p != "" && !strings.EqualFold(p, AllProperties)
}

// RestrictsDates reports whether both ends of the date range are set
func (s Selection) RestrictsDates() bool {
	return !s.Start.IsZero() && !s.End.IsZero()
}

// Float returns a pointer to v, for optional numeric fields
func Float(v float64) *float64 {
	return &v
}

// MatchdayLabel collapses whitespace and title-cases a matchday label, so
// "matchday  10" and "MATCHDAY 10" group together
func MatchdayLabel(raw string) string {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return ""
	}
	return cases.Title(language.Und).String(raw)
}
