package core

import (
	"math"
	"time"
)

// Factor names a component of the priority score.
type Factor string

const (
	FactorPremiumAtRisk         Factor = "premiumAtRisk"
	FactorTimeToExpiry          Factor = "timeToExpiry"
	FactorClaimsHistory         Factor = "claimsHistory"
	FactorCarrierResponsiveness Factor = "carrierResponsiveness"
	FactorChurnLikelihood       Factor = "churnLikelihood"
	FactorMarketConditions      Factor = "marketConditions"
	FactorInteractionHealth     Factor = "interactionHealth"
)

// AllFactors lists recognized factors in a stable order.
var AllFactors = []Factor{
	FactorPremiumAtRisk,
	FactorTimeToExpiry,
	FactorClaimsHistory,
	FactorCarrierResponsiveness,
	FactorChurnLikelihood,
	FactorMarketConditions,
	FactorInteractionHealth,
}

// Neutral defaults used when a signal is absent or unusable.
const (
	DefaultClaimsScore      = 30
	DefaultCarrierScore     = 50
	DefaultChurnScore       = 40
	DefaultInteractionScore = 50
	DefaultMarketScore      = 30

	// TimeDecayRate is calibrated so that 90 days out scores roughly 35.
	TimeDecayRate    = 0.012
	TimeScoreFloor   = 5
	TimeHorizonDays  = 365
	claimPenalty     = 20
	carrierStep      = 25
	maxCarrierRating = 5
	minCarrierRating = 1
)

// PriorityFactors holds 0-100 sub-scores. MarketConditions and InteractionHealth are
// optional; a nil value stands for the neutral default when aggregating.
type PriorityFactors struct {
	PremiumAtRisk         float64  `json:"premiumAtRisk"`
	TimeToExpiry          float64  `json:"timeToExpiry"`
	ClaimsHistory         float64  `json:"claimsHistory"`
	CarrierResponsiveness float64  `json:"carrierResponsiveness"`
	ChurnLikelihood       float64  `json:"churnLikelihood"`
	MarketConditions      *float64 `json:"marketConditions,omitempty"`
	InteractionHealth     *float64 `json:"interactionHealth,omitempty"`
}

// Value returns the sub-score for a factor, substituting neutral defaults for
// unset optional factors. ok is false for unrecognized names.
func (f PriorityFactors) Value(name Factor) (v float64, ok bool) {
	switch name {
	case FactorPremiumAtRisk:
		return f.PremiumAtRisk, true
	case FactorTimeToExpiry:
		return f.TimeToExpiry, true
	case FactorClaimsHistory:
		return f.ClaimsHistory, true
	case FactorCarrierResponsiveness:
		return f.CarrierResponsiveness, true
	case FactorChurnLikelihood:
		return f.ChurnLikelihood, true
	case FactorMarketConditions:
		if f.MarketConditions == nil {
			return DefaultMarketScore, true
		}
		return *f.MarketConditions, true
	case FactorInteractionHealth:
		if f.InteractionHealth == nil {
			return DefaultInteractionScore, true
		}
		return *f.InteractionHealth, true
	default:
		return 0, false
	}
}

// PopulationContext is computed once per pipeline build and shared read-only by
// every per-record calculation.
type PopulationContext struct {
	MaxPremium float64
	Now        time.Time
}

// NewPopulationContext scans the population for its largest valid premium.
func NewPopulationContext(records []Record, now time.Time) PopulationContext {
	premiums := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Premium != nil {
			premiums = append(premiums, *r.Premium)
		}
	}
	return PopulationContext{MaxPremium: MaxPremium(premiums), Now: now}
}

// MaxPremium returns the largest finite premium, or 0 for an empty or invalid set.
func MaxPremium(premiums []float64) float64 {
	top := 0.0
	for _, p := range premiums {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		if p > top {
			top = p
		}
	}
	return top
}

// PremiumAtRiskScore log-normalizes a premium against the population maximum.
func PremiumAtRiskScore(premium, maxPremium float64) float64 {
	if premium <= 0 || math.IsNaN(premium) || math.IsInf(premium, 0) {
		return 0
	}
	if maxPremium <= 0 || math.IsNaN(maxPremium) || math.IsInf(maxPremium, 0) {
		return 0
	}
	denom := math.Log10(maxPremium)
	if denom == 0 {
		return 100
	}
	return clamp(100*math.Log10(premium)/denom, 0, 100)
}

// TimeToExpiryScore decays exponentially with the days left before expiry.
func TimeToExpiryScore(days int) float64 {
	switch {
	case days >= TimeHorizonDays:
		return TimeScoreFloor
	case days <= 0:
		return 100
	}
	return math.Round(clamp(100*math.Exp(-TimeDecayRate*float64(days)), TimeScoreFloor, 100))
}

// ClaimsHistoryScore adds a fixed penalty per claim. ok is false when the input is unusable.
func ClaimsHistoryScore(claims *int) (score float64, ok bool) {
	if claims == nil {
		return DefaultClaimsScore, true
	}
	if *claims < 0 {
		return DefaultClaimsScore, false
	}
	if *claims >= 100/claimPenalty {
		return 100, true
	}
	return float64(*claims * claimPenalty), true
}

// CarrierResponsivenessScore inverts a 1-5 carrier rating into a concern score.
func CarrierResponsivenessScore(rating *float64) (score float64, ok bool) {
	if rating == nil {
		return DefaultCarrierScore, true
	}
	r := *rating
	if math.IsNaN(r) || r < minCarrierRating || r > maxCarrierRating {
		return DefaultCarrierScore, false
	}
	return math.Round((maxCarrierRating - r) * carrierStep), true
}

// ChurnLikelihoodScore passes an external 0-100 estimate through.
func ChurnLikelihoodScore(risk *float64) (score float64, ok bool) {
	if risk == nil {
		return DefaultChurnScore, true
	}
	if math.IsNaN(*risk) || math.IsInf(*risk, 0) {
		return DefaultChurnScore, false
	}
	return clamp(*risk, 0, 100), *risk >= 0 && *risk <= 100
}

// InteractionHealthScore rates ghosting risk from the contact history.
func InteractionHealthScore(history []InteractionEvent, now time.Time) float64 {
	if len(history) == 0 {
		return DefaultInteractionScore
	}

	last := history[0]
	negatives := 0
	for _, ev := range history {
		if ev.OccurredAt.After(last.OccurredAt) {
			last = ev
		}
		if ev.Sentiment == SentimentNegative {
			negatives++
		}
	}

	daysSince := now.Sub(last.OccurredAt).Hours() / 24
	score := 0.0
	switch {
	case daysSince > 30:
		score += 60
	case daysSince > 14:
		score += 30
	}
	score += float64(10 * negatives)
	if last.Direction == DirectionOutbound && daysSince > 7 {
		score += 20
	}
	return clamp(score, 0, 100)
}

// MarketRiskScore rates the renewal market. nil means no market data.
func MarketRiskScore(m *MarketConditions) float64 {
	if m == nil {
		return DefaultMarketScore
	}
	score := 30.0
	if m.MarketType == MarketHard {
		score += 40
	}
	switch m.SectorTrend {
	case SectorVolatile:
		score += 20
	case SectorCrisis:
		score += 40
	}
	if m.CarrierAppetite == AppetiteLow {
		score += 30
	}
	return math.Min(score, 100)
}

// ComputeFactors runs every calculator for one record. The returned issues describe
// inputs that were replaced by defaults.
func ComputeFactors(r Record, days int, pc PopulationContext) (PriorityFactors, []string) {
	var issues []string

	premium := 0.0
	if r.Premium != nil {
		premium = *r.Premium
		if premium < 0 {
			issues = append(issues, "negative premium")
		}
	}

	claims, ok := ClaimsHistoryScore(r.Enrichment.ClaimsCount)
	if !ok {
		issues = append(issues, "invalid claims count")
	}
	carrier, ok := CarrierResponsivenessScore(r.Enrichment.CarrierRating)
	if !ok {
		issues = append(issues, "carrier rating outside 1-5")
	}
	churn, ok := ChurnLikelihoodScore(r.Enrichment.ChurnRisk)
	if !ok {
		issues = append(issues, "churn risk outside 0-100")
	}

	market := MarketRiskScore(r.Enrichment.Market)
	interaction := InteractionHealthScore(r.Enrichment.Interactions, pc.Now)

	return PriorityFactors{
		PremiumAtRisk:         PremiumAtRiskScore(premium, pc.MaxPremium),
		TimeToExpiry:          TimeToExpiryScore(days),
		ClaimsHistory:         claims,
		CarrierResponsiveness: carrier,
		ChurnLikelihood:       churn,
		MarketConditions:      &market,
		InteractionHealth:     &interaction,
	}, issues
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
