// Package seed holds the demo book of business used by cmd/seed and DB_TYPE=memory.
package seed

import (
	"time"

	"github.com/MrKriegler/go-renewals/internal/core"
)

const day = int64(24 * 60 * 60)

// DemoRecords returns a mixed ledger/CSV population whose expiries are relative to now.
func DemoRecords(now time.Time) []core.Record {
	at := func(daysLeft int64) (start, duration int64) {
		start = now.Unix() - 300*day
		return start, 300*day + daysLeft*day
	}
	f := func(v float64) *float64 { return &v }
	n := func(v int) *int { return &v }
	ago := func(days int) time.Time { return now.Add(-time.Duration(days) * 24 * time.Hour).UTC().Truncate(time.Second) }

	type spec struct {
		id, name, email string
		source          core.RecordSource
		premium         float64
		daysLeft        int64
		status          core.RecordStatus
		enrich          core.Enrichment
	}
	specs := []spec{
		{"0x8a1f0c", "Harbor Logistics", "risk@harborlogistics.example", core.RecordSourceLedger, 48_000, 12, core.RecordStatusActive,
			core.Enrichment{ClaimsCount: n(3), CarrierRating: f(2.5), ChurnRisk: f(65),
				Interactions: []core.InteractionEvent{
					{Direction: core.DirectionOutbound, Sentiment: core.SentimentNeutral, OccurredAt: ago(41)},
					{Direction: core.DirectionInbound, Sentiment: core.SentimentNegative, OccurredAt: ago(55)},
				},
				Market:        &core.MarketConditions{MarketType: core.MarketHard, SectorTrend: core.SectorVolatile},
				CarrierStatus: "slow to respond"}},
		{"0x3b77d2", "Northwind Dental Group", "office@northwind.example", core.RecordSourceLedger, 9_500, 38, core.RecordStatusActive,
			core.Enrichment{ClaimsCount: n(0), CarrierRating: f(4.5), ChurnRisk: f(20),
				Interactions: []core.InteractionEvent{
					{Direction: core.DirectionInbound, Sentiment: core.SentimentPositive, OccurredAt: ago(3)},
				},
				LastContactDate: now.AddDate(0, 0, -3).Format("2006-01-02")}},
		{"0x19c4aa", "Crescent Bakery", "owner@crescentbakery.example", core.RecordSourceCSV, 1_200, 75, core.RecordStatusActive,
			core.Enrichment{ClaimsCount: n(1), MeetingNotes: "asked about bundling property cover"}},
		{"0x5e02bb", "Atlas Freight", "ops@atlasfreight.example", core.RecordSourceLedger, 120_000, -4, core.RecordStatusExpired,
			core.Enrichment{ClaimsCount: n(6), CarrierRating: f(3),
				Market: &core.MarketConditions{SectorTrend: core.SectorCrisis, CarrierAppetite: core.AppetiteLow}}},
		{"0x7d90e1", "Lumen Architects", "admin@lumen.example", core.RecordSourceCSV, 6_800, 150, core.RecordStatusActive,
			core.Enrichment{ChurnRisk: f(35)}},
		{"0x2f6a43", "Greenfield Co-op", "board@greenfield.example", core.RecordSourceLedger, 22_000, 20, core.RecordStatusPending,
			core.Enrichment{CarrierRating: f(4)}},
	}

	recs := make([]core.Record, 0, len(specs)+1)
	for _, s := range specs {
		start, duration := at(s.daysLeft)
		premium := s.premium
		recs = append(recs, core.Record{
			ID:           s.id,
			Source:       s.source,
			CustomerName: s.name,
			Email:        s.email,
			Premium:      &premium,
			Coverage:     premium * 40,
			Status:       s.status,
			StartTime:    start,
			Duration:     duration,
			RenewalCount: 1,
			Enrichment:   s.enrich,
		})
	}

	// Not started yet, so it never enters the pipeline.
	unstarted := 3_000.0
	recs = append(recs, core.Record{
		ID:           "0x000c01",
		Source:       core.RecordSourceLedger,
		CustomerName: "Quarry Lane Studios",
		Premium:      &unstarted,
		Status:       core.RecordStatusPending,
	})
	return recs
}
