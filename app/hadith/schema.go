package hadith

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	// PageSize is the fixed bucket size behind the stored page index.
	PageSize = 50

	// SearchResultCap bounds every search for responsiveness; scanning
	// stops as soon as this many matches are collected.
	SearchResultCap = 100
)

// RawRecord is the upstream wire shape. Reference and grades pass through
// opaquely; the number is kept verbatim as the primary key.
type RawRecord struct {
	HadithNumber json.Number     `json:"hadithnumber"`
	Text         string          `json:"text"`
	Reference    json.RawMessage `json:"reference,omitempty"`
	Grades       json.RawMessage `json:"grades,omitempty"`
}

// Record is the stored shape. PageIndex is derived once at ingestion from
// the record's position in the upstream array, which makes page retrieval an
// index lookup instead of an offset scan.
type Record struct {
	HadithNumber string          `json:"hadith_number"`
	Text         string          `json:"text"`
	Reference    json.RawMessage `json:"reference,omitempty"`
	Grades       json.RawMessage `json:"grades,omitempty"`
	PageIndex    int             `json:"page_index"`
}

// Store persists prebuilt records. Empty results (page past the end, no
// matches, corpus not downloaded) are empty slices, never errors.
type Store interface {
	Exists(ctx context.Context) (bool, error)
	SaveAll(ctx context.Context, records []Record) error
	GetPage(ctx context.Context, page int) ([]Record, error)
	GetByNumbers(ctx context.Context, numbers []string) ([]Record, error)
	Search(ctx context.Context, query string) ([]Record, error)
	SearchRegex(ctx context.Context, pattern string) ([]Record, error)
	Clear(ctx context.Context) error
}

// BuildRecords transforms the upstream array into stored records, assigning
// page buckets strictly by input position. Input order is what defines page
// membership; no sort is applied.
func BuildRecords(raws []RawRecord) ([]Record, error) {
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		if raw.HadithNumber.String() == "" {
			return nil, fmt.Errorf("record at position %d has no hadith number", i)
		}
		records = append(records, Record{
			HadithNumber: raw.HadithNumber.String(),
			Text:         raw.Text,
			Reference:    raw.Reference,
			Grades:       raw.Grades,
			PageIndex:    i/PageSize + 1,
		})
	}
	return records, nil
}
