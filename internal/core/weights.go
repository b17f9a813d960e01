package core

import (
	"fmt"
	"math"
)

// PriorityWeights maps factor names to non-negative weights. Absent keys weigh 0.
// Weights are normalized at evaluation time, so they need not sum to 1.
type PriorityWeights map[Factor]float64

// DefaultWeights returns a fresh copy of the default weighting on every call.
func DefaultWeights() PriorityWeights {
	return PriorityWeights{
		FactorPremiumAtRisk:         0.25,
		FactorTimeToExpiry:          0.25,
		FactorClaimsHistory:         0.10,
		FactorCarrierResponsiveness: 0.10,
		FactorChurnLikelihood:       0.10,
		FactorMarketConditions:      0.10,
		FactorInteractionHealth:     0.10,
	}
}

// Clone returns an independent copy.
func (w PriorityWeights) Clone() PriorityWeights {
	out := make(PriorityWeights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Validate rejects unknown factor names and negative or non-finite weights.
func (w PriorityWeights) Validate() error {
	for name, v := range w {
		if !knownFactor(name) {
			return fmt.Errorf("%w: unknown factor %q", ErrInvalidWeights, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: weight for %s must be a non-negative number", ErrInvalidWeights, name)
		}
	}
	return nil
}

// Normalized returns weights over the recognized factors scaled to sum to 1.
// Unusable entries count as 0. A zero sum yields an empty map. Weights are divided
// by the largest one before summing so huge finite weights cannot overflow to +Inf.
func (w PriorityWeights) Normalized() PriorityWeights {
	top := 0.0
	for _, name := range AllFactors {
		top = math.Max(top, usableWeight(w[name]))
	}
	out := make(PriorityWeights, len(AllFactors))
	if top == 0 {
		return out
	}
	sum := 0.0
	for _, name := range AllFactors {
		sum += usableWeight(w[name]) / top
	}
	for _, name := range AllFactors {
		if v := usableWeight(w[name]); v > 0 {
			out[name] = (v / top) / sum
		}
	}
	return out
}

// Aggregate combines factor scores into a single 0-100 priority score.
// Every recognized factor with a positive weight contributes; unset optional
// factors contribute their neutral default, so they always count toward the
// normalization denominator.
func Aggregate(f PriorityFactors, w PriorityWeights) int {
	norm := w.Normalized()
	if len(norm) == 0 {
		return 0
	}
	total := 0.0
	for _, name := range AllFactors {
		weight, ok := norm[name]
		if !ok {
			continue
		}
		v, _ := f.Value(name)
		total += clamp(v, 0, 100) * weight
	}
	return int(clamp(math.Round(total), 0, 100))
}

func usableWeight(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func knownFactor(name Factor) bool {
	for _, f := range AllFactors {
		if f == name {
			return true
		}
	}
	return false
}

var ErrInvalidWeights = fmt.Errorf("%w: invalid weights", ErrValidation)
