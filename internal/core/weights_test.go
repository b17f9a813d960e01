package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_FreshCopy(t *testing.T) {
	a := DefaultWeights()
	a[FactorPremiumAtRisk] = 99

	b := DefaultWeights()
	assert.Equal(t, 0.25, b[FactorPremiumAtRisk])
}

func TestNormalized_SumsToOne(t *testing.T) {
	cases := []PriorityWeights{
		DefaultWeights(),
		{FactorPremiumAtRisk: 3, FactorTimeToExpiry: 1},
		{FactorClaimsHistory: 0.0001},
		{FactorChurnLikelihood: 7, FactorMarketConditions: 2, FactorInteractionHealth: 11, FactorCarrierResponsiveness: 5},
		{FactorPremiumAtRisk: 1e308, FactorTimeToExpiry: 1e308, FactorClaimsHistory: 1e-300},
	}
	for _, w := range cases {
		sum := 0.0
		for _, v := range w.Normalized() {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestNormalized_HugeFiniteWeights(t *testing.T) {
	w := PriorityWeights{FactorPremiumAtRisk: 1e308, FactorTimeToExpiry: 1e308}
	require.NoError(t, w.Validate())

	norm := w.Normalized()
	assert.InDelta(t, 0.5, norm[FactorPremiumAtRisk], 1e-12)
	assert.InDelta(t, 0.5, norm[FactorTimeToExpiry], 1e-12)

	f := PriorityFactors{PremiumAtRisk: 100, TimeToExpiry: 100}
	assert.Equal(t, 100, Aggregate(f, w))
	assert.Equal(t, 100, Aggregate(f, PriorityWeights{FactorPremiumAtRisk: math.MaxFloat64, FactorTimeToExpiry: 1}))
}

func TestNormalized_IgnoresUnusableEntries(t *testing.T) {
	w := PriorityWeights{
		FactorPremiumAtRisk: 1,
		FactorTimeToExpiry:  -4,
		FactorClaimsHistory: math.NaN(),
		Factor("legacy"):    10,
	}
	norm := w.Normalized()
	assert.Equal(t, PriorityWeights{FactorPremiumAtRisk: 1}, norm)
}

func TestAggregate_ZeroSumWeights(t *testing.T) {
	f := PriorityFactors{PremiumAtRisk: 90, TimeToExpiry: 90, ClaimsHistory: 90}
	assert.Equal(t, 0, Aggregate(f, PriorityWeights{}))
	assert.Equal(t, 0, Aggregate(f, nil))
	assert.Equal(t, 0, Aggregate(f, PriorityWeights{FactorPremiumAtRisk: 0, FactorTimeToExpiry: 0}))
}

func TestAggregate_Deterministic(t *testing.T) {
	m, ih := 61.0, 77.0
	f := PriorityFactors{
		PremiumAtRisk:         73.2,
		TimeToExpiry:          41,
		ClaimsHistory:         20,
		CarrierResponsiveness: 12,
		ChurnLikelihood:       66.6,
		MarketConditions:      &m,
		InteractionHealth:     &ih,
	}
	w := DefaultWeights()
	first := Aggregate(f, w)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Aggregate(f, w))
	}
}

func TestAggregate_ClaimsOnlyRecordAgainstDefaults(t *testing.T) {
	rec := Record{
		ID:         "rec-claims",
		Premium:    ptr(1000.0),
		Status:     RecordStatusActive,
		Enrichment: Enrichment{ClaimsCount: ptr(3)},
	}
	f, _ := ComputeFactors(rec, 60, PopulationContext{MaxPremium: 1000, Now: testNow})

	// 0.25*100 + 0.25*49 + 0.10*(60+50+40+30+50) = 25 + 12.25 + 23 = 60.25
	assert.Equal(t, 60, Aggregate(f, DefaultWeights()))
}

func TestAggregate_NonNormalizedWeightsMatchNormalized(t *testing.T) {
	f := PriorityFactors{PremiumAtRisk: 80, TimeToExpiry: 20}
	a := Aggregate(f, PriorityWeights{FactorPremiumAtRisk: 3, FactorTimeToExpiry: 1})
	b := Aggregate(f, PriorityWeights{FactorPremiumAtRisk: 0.75, FactorTimeToExpiry: 0.25})
	assert.Equal(t, 65, a)
	assert.Equal(t, a, b)
}

func TestAggregate_OptionalFactorsUseNeutralDefaults(t *testing.T) {
	f := PriorityFactors{PremiumAtRisk: 100}
	w := PriorityWeights{FactorPremiumAtRisk: 1, FactorMarketConditions: 1}
	// unset market counts as 30, and its weight stays in the denominator
	assert.Equal(t, 65, Aggregate(f, w))
}

func TestAggregate_RangeInvariant(t *testing.T) {
	extremes := []float64{-50, 0, 50, 100, 250, math.NaN()}
	for _, v := range extremes {
		v := v
		f := PriorityFactors{
			PremiumAtRisk:         v,
			TimeToExpiry:          v,
			ClaimsHistory:         v,
			CarrierResponsiveness: v,
			ChurnLikelihood:       v,
			MarketConditions:      &v,
			InteractionHealth:     &v,
		}
		got := Aggregate(f, DefaultWeights())
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())

	err := PriorityWeights{Factor("vibes"): 1}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	err = PriorityWeights{FactorPremiumAtRisk: -1}.Validate()
	assert.ErrorIs(t, err, ErrInvalidWeights)
}
