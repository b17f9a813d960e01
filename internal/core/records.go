package core

import (
	"context"
	"fmt"
	"math"
	"time"
)

type RecordStatus string

const (
	RecordStatusPending RecordStatus = "pending"
	RecordStatusActive  RecordStatus = "active"
	RecordStatusExpired RecordStatus = "expired"
)

type RecordSource string

const (
	RecordSourceLedger RecordSource = "ledger"
	RecordSourceCSV    RecordSource = "csv"
)

// PendingDaysSentinel marks a record whose coverage has not started yet.
const PendingDaysSentinel = 999

const secondsPerDay = 24 * 60 * 60

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// InteractionEvent is one contact between broker and client (email, meeting, call).
type InteractionEvent struct {
	Direction  Direction `json:"direction"`
	Sentiment  Sentiment `json:"sentiment"`
	OccurredAt time.Time `json:"occurredAt"`
}

type MarketType string

const (
	MarketNormal MarketType = "normal"
	MarketHard   MarketType = "hard"
)

type SectorTrend string

const (
	SectorStable   SectorTrend = "stable"
	SectorVolatile SectorTrend = "volatile"
	SectorCrisis   SectorTrend = "crisis"
)

type CarrierAppetite string

const (
	AppetiteNormal CarrierAppetite = "normal"
	AppetiteLow    CarrierAppetite = "low"
)

// MarketConditions describes the placement market a record renews into.
type MarketConditions struct {
	MarketType      MarketType      `json:"marketType,omitempty"`
	SectorTrend     SectorTrend     `json:"sectorTrend,omitempty"`
	CarrierAppetite CarrierAppetite `json:"carrierAppetite,omitempty"`
}

// Enrichment carries signals from connected systems (CRM, inbox, calendar, claims).
// Every field is optional.
type Enrichment struct {
	ClaimsCount     *int               `json:"claimsCount,omitempty"`
	CarrierRating   *float64           `json:"carrierRating,omitempty"` // 1-5
	ChurnRisk       *float64           `json:"churnRisk,omitempty"`     // 0-100
	Interactions    []InteractionEvent `json:"interactions,omitempty"`
	Market          *MarketConditions  `json:"market,omitempty"`
	CalendarEventID string             `json:"calendarEventId,omitempty"`
	MeetingNotes    string             `json:"meetingNotes,omitempty"`
	LastContactDate string             `json:"lastContactDate,omitempty"` // YYYY-MM-DD
	CarrierStatus   string             `json:"carrierStatus,omitempty"`
}

// Record is a policy or placement under renewal consideration. The engine treats it read-only.
type Record struct {
	ID           string       `json:"id"`
	Source       RecordSource `json:"source,omitempty"`
	CustomerName string       `json:"customerName,omitempty"`
	Email        string       `json:"email,omitempty"`
	CRMID        string       `json:"crmId,omitempty"`
	Premium      *float64     `json:"premium"` // nil when the source did not provide one
	Coverage     float64      `json:"coverage"`
	Status       RecordStatus `json:"status"`
	StartTime    int64        `json:"startTime"` // epoch seconds, 0 = not started
	Duration     int64        `json:"duration"`  // seconds
	RenewalCount int          `json:"renewalCount"`
	Enrichment   Enrichment   `json:"enrichment"`
}

// Validate reports whether a record is well formed enough to be scored at all.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: record id is required", ErrValidation)
	}
	if r.Premium == nil {
		return fmt.Errorf("%w: record %s has no premium", ErrValidation, r.ID)
	}
	if math.IsNaN(*r.Premium) || math.IsInf(*r.Premium, 0) {
		return fmt.Errorf("%w: record %s premium is not a number", ErrValidation, r.ID)
	}
	return nil
}

// ExpiresAt returns the end of coverage, or the zero time when coverage has not started.
func (r Record) ExpiresAt() time.Time {
	if r.StartTime == 0 {
		return time.Time{}
	}
	return time.Unix(r.StartTime+r.Duration, 0).UTC()
}

// DaysUntilExpiry returns whole days until coverage ends, rounded up. Expired records
// return 0 and records that have not started return PendingDaysSentinel.
func DaysUntilExpiry(r Record, now time.Time) int {
	if r.StartTime == 0 {
		return PendingDaysSentinel
	}
	remaining := r.StartTime + r.Duration - now.Unix()
	if remaining <= 0 {
		return 0
	}
	return int((remaining + secondsPerDay - 1) / secondsPerDay)
}

// Eligible reports whether a record belongs in a live renewal pipeline.
// Pending contracts qualify only once they have a start time.
func (r Record) Eligible() bool {
	switch r.Status {
	case RecordStatusActive, RecordStatusExpired:
		return true
	case RecordStatusPending:
		return r.StartTime > 0
	default:
		return false
	}
}

type RecordRepo interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Upsert(ctx context.Context, rec Record) error
}

var ErrRecordNotFound = fmt.Errorf("%w: record not found", ErrNotFound)
