package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// EnrichmentColumns is the column contract shared with the CSV-producing importer.
// Order and spelling must not change.
var EnrichmentColumns = []string{
	"policyHash",
	"customerName",
	"email",
	"claims",
	"carrierRating",
	"churnRisk",
	"crmId",
	"calendarEventId",
	"meetingNotes",
	"lastContactDate",
	"carrierStatus",
}

// WriteEnrichmentTemplate writes the header and one row per record, pre-filled with
// whatever enrichment the record already carries.
func WriteEnrichmentTemplate(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EnrichmentColumns); err != nil {
		return fmt.Errorf("enrichment.header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(enrichmentRow(r)); err != nil {
			return fmt.Errorf("enrichment.row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EnrichmentTemplate returns the template as a string.
func EnrichmentTemplate(records []Record) (string, error) {
	var buf bytes.Buffer
	if err := WriteEnrichmentTemplate(&buf, records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func enrichmentRow(r Record) []string {
	e := r.Enrichment
	return []string{
		r.ID,
		r.CustomerName,
		r.Email,
		optInt(e.ClaimsCount),
		optFloat(e.CarrierRating),
		optFloat(e.ChurnRisk),
		r.CRMID,
		e.CalendarEventID,
		e.MeetingNotes,
		e.LastContactDate,
		e.CarrierStatus,
	}
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
