package models

import "time"

// Report is a composed exposure report. Pages keep the fixed order in which
// they are rendered into the email and the attached workbook.
type Report struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Period      string          `json:"period"` // "October 2024", "on demand", ...
	DatasetID   string          `json:"dataset_id"`
	Selection   Selection       `json:"selection"`
	Summary     Summary         `json:"summary"`
	Telegram    TelegramSummary `json:"telegram"`
	Pages       []ReportPage    `json:"pages"`
}

// ReportPage is one table of the report
type ReportPage struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Attachment is a file sent with a delivery
type Attachment struct {
	Filename string
	Content  []byte
}

// Delivery is one outbound email: the report whose summary forms the body,
// plus the attached file
type Delivery struct {
	Subject    string
	Kind       string // "report" or "export"
	Report     *Report
	Attachment *Attachment
}
