// Package cve defines the vulnerability record delivered by the CVE API and
// the formatting rules used when those records are displayed.
//
// Every field other than the identifier is optional. Absent values and JSON
// nulls both decode to nil and are rendered as NotAvailable by the helpers in
// format.go, so a sparse record never causes a rendering failure.
package cve

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingID is returned when a decoded record has no cve_id.
var ErrMissingID = errors.New("record has no cve_id")

// timestampLayouts are tried in order when decoding published/last_modified.
// The API serializes Python datetimes, which omit the zone for naive values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// wallClock marks timestamps that carried no zone. They are stored at UTC
// offset zero and formatted as written, without conversion to the display
// location.
//
//nolint:gochecknoglobals // Identity is compared by DateFormatter.
var wallClock = time.FixedZone("UTC", 0)

// Record is a single CVE entry as returned by GET /cves/ and GET /cves/{id}.
// Records are immutable once decoded.
type Record struct {
	ID           string     `json:"cve_id"`
	Published    *time.Time `json:"published,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	Description  *string    `json:"description,omitempty"`
	BaseScoreV3  *float64   `json:"base_score_v3,omitempty"`
	BaseScoreV2  *float64   `json:"base_score_v2,omitempty"`
}

// wireRecord mirrors Record with raw timestamps so that naive ISO-8601
// values can be accepted alongside RFC 3339.
type wireRecord struct {
	ID           string   `json:"cve_id"`
	Published    *string  `json:"published"`
	LastModified *string  `json:"last_modified"`
	Description  *string  `json:"description"`
	BaseScoreV3  *float64 `json:"base_score_v3"`
	BaseScoreV2  *float64 `json:"base_score_v2"`
}

// UnmarshalJSON decodes a record and enforces the non-empty identifier.
func (r *Record) UnmarshalJSON(data []byte) error {
	if r == nil {
		return errors.New("cannot unmarshal into nil Record")
	}

	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id := strings.TrimSpace(w.ID)
	if id == "" {
		return ErrMissingID
	}

	published, err := parseTimestamp(w.Published)
	if err != nil {
		return fmt.Errorf("%s: published: %w", id, err)
	}
	lastModified, err := parseTimestamp(w.LastModified)
	if err != nil {
		return fmt.Errorf("%s: last_modified: %w", id, err)
	}

	*r = Record{
		ID:           id,
		Published:    published,
		LastModified: lastModified,
		Description:  w.Description,
		BaseScoreV3:  w.BaseScoreV3,
		BaseScoreV2:  w.BaseScoreV2,
	}
	return nil
}

// parseTimestamp returns nil for an absent or null value. Zone-less values
// are read in the wallClock zone.
func parseTimestamp(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // Absent timestamp is not an error.
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil, nil //nolint:nilnil // Empty string is treated as absent.
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, wallClock); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", s)
}

// DecodeList decodes a JSON array of records, preserving arrival order.
func DecodeList(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		// A JSON null body is an empty list, never a nil one.
		records = []Record{}
	}
	return records, nil
}

// DecodeOne decodes a single JSON record.
func DecodeOne(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
