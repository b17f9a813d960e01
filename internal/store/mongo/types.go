package mongo

import (
	"time"

	"github.com/MrKriegler/go-renewals/internal/core"
)

const (
	ColRecords   = "records"
	ColOverrides = "overrides"
)

type InteractionDoc struct {
	Direction  string    `bson:"direction"`
	Sentiment  string    `bson:"sentiment"`
	OccurredAt time.Time `bson:"occurred_at"`
}

type MarketDoc struct {
	MarketType      string `bson:"market_type,omitempty"`
	SectorTrend     string `bson:"sector_trend,omitempty"`
	CarrierAppetite string `bson:"carrier_appetite,omitempty"`
}

type EnrichmentDoc struct {
	ClaimsCount     *int             `bson:"claims_count,omitempty"`
	CarrierRating   *float64         `bson:"carrier_rating,omitempty"`
	ChurnRisk       *float64         `bson:"churn_risk,omitempty"`
	Interactions    []InteractionDoc `bson:"interactions,omitempty"`
	Market          *MarketDoc       `bson:"market,omitempty"`
	CalendarEventID string           `bson:"calendar_event_id,omitempty"`
	MeetingNotes    string           `bson:"meeting_notes,omitempty"`
	LastContactDate string           `bson:"last_contact_date,omitempty"`
	CarrierStatus   string           `bson:"carrier_status,omitempty"`
}

// Record
type RecordDoc struct {
	ID           string        `bson:"_id"`
	Source       string        `bson:"source,omitempty"`
	CustomerName string        `bson:"customer_name,omitempty"`
	Email        string        `bson:"email,omitempty"`
	CRMID        string        `bson:"crm_id,omitempty"`
	Premium      *float64      `bson:"premium"`
	Coverage     float64       `bson:"coverage"`
	Status       string        `bson:"status"`
	StartTime    int64         `bson:"start_time"`
	Duration     int64         `bson:"duration"`
	RenewalCount int           `bson:"renewal_count"`
	Enrichment   EnrichmentDoc `bson:"enrichment"`
}

func fromRecordDoc(d RecordDoc) core.Record {
	e := d.Enrichment
	rec := core.Record{
		ID:           d.ID,
		Source:       core.RecordSource(d.Source),
		CustomerName: d.CustomerName,
		Email:        d.Email,
		CRMID:        d.CRMID,
		Premium:      d.Premium,
		Coverage:     d.Coverage,
		Status:       core.RecordStatus(d.Status),
		StartTime:    d.StartTime,
		Duration:     d.Duration,
		RenewalCount: d.RenewalCount,
		Enrichment: core.Enrichment{
			ClaimsCount:     e.ClaimsCount,
			CarrierRating:   e.CarrierRating,
			ChurnRisk:       e.ChurnRisk,
			CalendarEventID: e.CalendarEventID,
			MeetingNotes:    e.MeetingNotes,
			LastContactDate: e.LastContactDate,
			CarrierStatus:   e.CarrierStatus,
		},
	}
	for _, ev := range e.Interactions {
		rec.Enrichment.Interactions = append(rec.Enrichment.Interactions, core.InteractionEvent{
			Direction:  core.Direction(ev.Direction),
			Sentiment:  core.Sentiment(ev.Sentiment),
			OccurredAt: ev.OccurredAt.UTC(),
		})
	}
	if e.Market != nil {
		rec.Enrichment.Market = &core.MarketConditions{
			MarketType:      core.MarketType(e.Market.MarketType),
			SectorTrend:     core.SectorTrend(e.Market.SectorTrend),
			CarrierAppetite: core.CarrierAppetite(e.Market.CarrierAppetite),
		}
	}
	return rec
}

func toRecordDoc(r core.Record) RecordDoc {
	e := r.Enrichment
	doc := RecordDoc{
		ID:           r.ID,
		Source:       string(r.Source),
		CustomerName: r.CustomerName,
		Email:        r.Email,
		CRMID:        r.CRMID,
		Premium:      r.Premium,
		Coverage:     r.Coverage,
		Status:       string(r.Status),
		StartTime:    r.StartTime,
		Duration:     r.Duration,
		RenewalCount: r.RenewalCount,
		Enrichment: EnrichmentDoc{
			ClaimsCount:     e.ClaimsCount,
			CarrierRating:   e.CarrierRating,
			ChurnRisk:       e.ChurnRisk,
			CalendarEventID: e.CalendarEventID,
			MeetingNotes:    e.MeetingNotes,
			LastContactDate: e.LastContactDate,
			CarrierStatus:   e.CarrierStatus,
		},
	}
	for _, ev := range e.Interactions {
		doc.Enrichment.Interactions = append(doc.Enrichment.Interactions, InteractionDoc{
			Direction:  string(ev.Direction),
			Sentiment:  string(ev.Sentiment),
			OccurredAt: ev.OccurredAt,
		})
	}
	if e.Market != nil {
		doc.Enrichment.Market = &MarketDoc{
			MarketType:      string(e.Market.MarketType),
			SectorTrend:     string(e.Market.SectorTrend),
			CarrierAppetite: string(e.Market.CarrierAppetite),
		}
	}
	return doc
}

// Override, keyed by record ID
type OverrideDoc struct {
	RecordID  string    `bson:"_id"`
	Score     int       `bson:"score"`
	Reason    string    `bson:"reason"`
	CreatedBy string    `bson:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func fromOverrideDoc(d OverrideDoc) core.ManualOverride {
	return core.ManualOverride{
		RecordID:  d.RecordID,
		Score:     d.Score,
		Reason:    d.Reason,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func toOverrideDoc(o core.ManualOverride) OverrideDoc {
	return OverrideDoc{
		RecordID:  o.RecordID,
		Score:     o.Score,
		Reason:    o.Reason,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
	}
}
