package models

import "time"

// Dataset is an immutable, ordered collection of records: the union of all
// sheets of one upload. A new upload produces a new Dataset.
type Dataset struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	records []Record
}

// NewDataset copies records into a new Dataset
func NewDataset(id, source string, loadedAt time.Time, records []Record) *Dataset {
	owned := make([]Record, len(records))
	copy(owned, records)
	return &Dataset{
		ID:       id,
		Source:   source,
		LoadedAt: loadedAt,
		records:  owned,
	}
}

// Len returns the number of records. A nil Dataset is empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in input order
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Where returns a sub-Dataset holding the records keep accepts, in order.
// The receiver is not modified.
func (d *Dataset) Where(keep func(Record) bool) *Dataset {
	if d == nil {
		return &Dataset{}
	}
	var kept []Record
	for _, r := range d.records {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	return &Dataset{
		ID:       d.ID,
		Source:   d.Source,
		LoadedAt: d.LoadedAt,
		records:  kept,
	}
}

// Sheet scopes the Dataset to records from one sheet
func (d *Dataset) Sheet(name SheetName) *Dataset {
	return d.Where(func(r Record) bool { return r.Sheet == name })
}

// TimeRange returns the earliest and latest identification timestamps.
// ok is false for an empty Dataset.
func (d *Dataset) TimeRange() (first, last time.Time, ok bool) {
	if d.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = d.records[0].IdentifiedAt, d.records[0].IdentifiedAt
	for _, r := range d.records[1:] {
		if r.IdentifiedAt.Before(first) {
			first = r.IdentifiedAt
		}
		if r.IdentifiedAt.After(last) {
			last = r.IdentifiedAt
		}
	}
	return first, last, true
}
