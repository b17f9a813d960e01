package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/MrKriegler/go-renewals/internal/core"
)

// API is the subset of the DynamoDB client the repositories use.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type InteractionItem struct {
	Direction  string `dynamodbav:"direction"`
	Sentiment  string `dynamodbav:"sentiment"`
	OccurredAt string `dynamodbav:"occurred_at"`
}

type MarketItem struct {
	MarketType      string `dynamodbav:"market_type,omitempty"`
	SectorTrend     string `dynamodbav:"sector_trend,omitempty"`
	CarrierAppetite string `dynamodbav:"carrier_appetite,omitempty"`
}

type RecordItem struct {
	ID              string            `dynamodbav:"id"`
	Source          string            `dynamodbav:"source,omitempty"`
	CustomerName    string            `dynamodbav:"customer_name,omitempty"`
	Email           string            `dynamodbav:"email,omitempty"`
	CRMID           string            `dynamodbav:"crm_id,omitempty"`
	Premium         *float64          `dynamodbav:"premium,omitempty"`
	Coverage        float64           `dynamodbav:"coverage"`
	Status          string            `dynamodbav:"status"`
	StartTime       int64             `dynamodbav:"start_time"`
	Duration        int64             `dynamodbav:"duration"`
	RenewalCount    int               `dynamodbav:"renewal_count"`
	ClaimsCount     *int              `dynamodbav:"claims_count,omitempty"`
	CarrierRating   *float64          `dynamodbav:"carrier_rating,omitempty"`
	ChurnRisk       *float64          `dynamodbav:"churn_risk,omitempty"`
	Interactions    []InteractionItem `dynamodbav:"interactions,omitempty"`
	Market          *MarketItem       `dynamodbav:"market,omitempty"`
	CalendarEventID string            `dynamodbav:"calendar_event_id,omitempty"`
	MeetingNotes    string            `dynamodbav:"meeting_notes,omitempty"`
	LastContactDate string            `dynamodbav:"last_contact_date,omitempty"`
	CarrierStatus   string            `dynamodbav:"carrier_status,omitempty"`
}

func (i RecordItem) ToCore() core.Record {
	rec := core.Record{
		ID:           i.ID,
		Source:       core.RecordSource(i.Source),
		CustomerName: i.CustomerName,
		Email:        i.Email,
		CRMID:        i.CRMID,
		Premium:      i.Premium,
		Coverage:     i.Coverage,
		Status:       core.RecordStatus(i.Status),
		StartTime:    i.StartTime,
		Duration:     i.Duration,
		RenewalCount: i.RenewalCount,
		Enrichment: core.Enrichment{
			ClaimsCount:     i.ClaimsCount,
			CarrierRating:   i.CarrierRating,
			ChurnRisk:       i.ChurnRisk,
			CalendarEventID: i.CalendarEventID,
			MeetingNotes:    i.MeetingNotes,
			LastContactDate: i.LastContactDate,
			CarrierStatus:   i.CarrierStatus,
		},
	}
	for _, ev := range i.Interactions {
		at, _ := time.Parse(time.RFC3339, ev.OccurredAt)
		rec.Enrichment.Interactions = append(rec.Enrichment.Interactions, core.InteractionEvent{
			Direction:  core.Direction(ev.Direction),
			Sentiment:  core.Sentiment(ev.Sentiment),
			OccurredAt: at.UTC(),
		})
	}
	if i.Market != nil {
		rec.Enrichment.Market = &core.MarketConditions{
			MarketType:      core.MarketType(i.Market.MarketType),
			SectorTrend:     core.SectorTrend(i.Market.SectorTrend),
			CarrierAppetite: core.CarrierAppetite(i.Market.CarrierAppetite),
		}
	}
	return rec
}

func recordItemFromCore(r core.Record) RecordItem {
	e := r.Enrichment
	item := RecordItem{
		ID:              r.ID,
		Source:          string(r.Source),
		CustomerName:    r.CustomerName,
		Email:           r.Email,
		CRMID:           r.CRMID,
		Premium:         r.Premium,
		Coverage:        r.Coverage,
		Status:          string(r.Status),
		StartTime:       r.StartTime,
		Duration:        r.Duration,
		RenewalCount:    r.RenewalCount,
		ClaimsCount:     e.ClaimsCount,
		CarrierRating:   e.CarrierRating,
		ChurnRisk:       e.ChurnRisk,
		CalendarEventID: e.CalendarEventID,
		MeetingNotes:    e.MeetingNotes,
		LastContactDate: e.LastContactDate,
		CarrierStatus:   e.CarrierStatus,
	}
	for _, ev := range e.Interactions {
		item.Interactions = append(item.Interactions, InteractionItem{
			Direction:  string(ev.Direction),
			Sentiment:  string(ev.Sentiment),
			OccurredAt: ev.OccurredAt.UTC().Format(time.RFC3339),
		})
	}
	if e.Market != nil {
		item.Market = &MarketItem{
			MarketType:      string(e.Market.MarketType),
			SectorTrend:     string(e.Market.SectorTrend),
			CarrierAppetite: string(e.Market.CarrierAppetite),
		}
	}
	return item
}

type OverrideItem struct {
	RecordID  string `dynamodbav:"record_id"`
	Score     int    `dynamodbav:"score"`
	Reason    string `dynamodbav:"reason"`
	CreatedBy string `dynamodbav:"created_by,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
}

func (i OverrideItem) ToCore() core.ManualOverride {
	createdAt, _ := time.Parse(time.RFC3339Nano, i.CreatedAt)
	return core.ManualOverride{
		RecordID:  i.RecordID,
		Score:     i.Score,
		Reason:    i.Reason,
		CreatedBy: i.CreatedBy,
		CreatedAt: createdAt.UTC(),
	}
}

func overrideItemFromCore(o core.ManualOverride) OverrideItem {
	return OverrideItem{
		RecordID:  o.RecordID,
		Score:     o.Score,
		Reason:    o.Reason,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
