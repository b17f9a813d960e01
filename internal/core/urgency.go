package core

import "fmt"

type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyLow      UrgencyLevel = "low"
)

// UrgencyFromScore buckets a 0-100 priority score.
func UrgencyFromScore(score int) UrgencyLevel {
	switch {
	case score >= 75:
		return UrgencyCritical
	case score >= 50:
		return UrgencyHigh
	case score >= 25:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// UrgencyFromDays buckets the days left before expiry.
func UrgencyFromDays(days int) UrgencyLevel {
	switch {
	case days >= PendingDaysSentinel:
		return UrgencyLow
	case days <= 7:
		return UrgencyCritical
	case days <= 30:
		return UrgencyHigh
	case days <= 90:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// UrgencyClassifier derives the urgency tier of a pipeline item. Each strategy reads
// exactly one signal.
type UrgencyClassifier interface {
	Name() string
	Classify(finalScore, daysUntilExpiry int) UrgencyLevel
}

// ScoreBasedClassifier tiers by the final (possibly overridden) priority score.
type ScoreBasedClassifier struct{}

func (ScoreBasedClassifier) Name() string { return "score" }

func (ScoreBasedClassifier) Classify(finalScore, _ int) UrgencyLevel {
	return UrgencyFromScore(finalScore)
}

// ExpiryBasedClassifier tiers by days until expiry and ignores the score.
type ExpiryBasedClassifier struct{}

func (ExpiryBasedClassifier) Name() string { return "expiry" }

func (ExpiryBasedClassifier) Classify(_, daysUntilExpiry int) UrgencyLevel {
	return UrgencyFromDays(daysUntilExpiry)
}

// PipelineMode selects how records reached the pipeline and, with it, the classifier.
type PipelineMode string

const (
	// ModeCSV pipelines come from CSV/CRM placements and tier by score.
	ModeCSV PipelineMode = "csv"
	// ModeLedger pipelines come from on-chain policies and tier by days to expiry.
	ModeLedger PipelineMode = "ledger"
)

// ParseMode accepts "" as ModeCSV.
func ParseMode(s string) (PipelineMode, error) {
	switch PipelineMode(s) {
	case "", ModeCSV:
		return ModeCSV, nil
	case ModeLedger:
		return ModeLedger, nil
	default:
		return "", fmt.Errorf("%w: unknown pipeline mode %q", ErrValidation, s)
	}
}

// Classifier returns the canonical urgency strategy for the mode.
func (m PipelineMode) Classifier() UrgencyClassifier {
	if m == ModeLedger {
		return ExpiryBasedClassifier{}
	}
	return ScoreBasedClassifier{}
}
