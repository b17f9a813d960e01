package core

import (
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// RenewalPipelineItem is a scored record. It is derived and never persisted.
type RenewalPipelineItem struct {
	Record           Record          `json:"record"`
	DaysUntilExpiry  int             `json:"daysUntilExpiry"`
	ExpiresAt        *time.Time      `json:"expiresAt,omitempty"`
	PriorityScore    int             `json:"priorityScore"`
	ComputedScore    int             `json:"computedScore"`
	UrgencyLevel     UrgencyLevel    `json:"urgencyLevel"`
	Classifier       string          `json:"classifier"`
	Factors          PriorityFactors `json:"factors"`
	ManualOverride   *ManualOverride `json:"manualOverride,omitempty"`
	Explanation      string          `json:"explanation"`
	DataQualityFlags []string        `json:"dataQualityFlags,omitempty"`
}

type PipelineOptions struct {
	Weights        PriorityWeights
	TimeWindowDays int
	// Overrides must be a snapshot; the engine only reads it.
	Overrides map[string]ManualOverride
	Mode      PipelineMode
}

// Engine builds renewal pipelines. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	log     *slog.Logger
	clock   func() time.Time
	workers int
}

type EngineOption func(*Engine)

// WithClock fixes "now" for expiry and interaction calculations.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithWorkers scores records on up to n goroutines.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func NewEngine(log *slog.Logger, opts ...EngineOption) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{log: log, clock: time.Now, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// candidate is a record that passed filtering, with its days to expiry.
type candidate struct {
	rec  Record
	days int
}

// BuildPipeline filters, scores, overrides, explains and sorts a record set.
// It never fails: malformed records are skipped and logged, unusable inputs fall
// back to defaults and are flagged on the item.
func (e *Engine) BuildPipeline(records []Record, opts PipelineOptions) []RenewalPipelineItem {
	now := e.clock()
	classifier := opts.Mode.Classifier()

	candidates := e.filter(records, opts.TimeWindowDays, now)
	if len(candidates) == 0 {
		return []RenewalPipelineItem{}
	}

	population := make([]Record, len(candidates))
	for i, c := range candidates {
		population[i] = c.rec
	}
	pc := NewPopulationContext(population, now)
	weights := opts.Weights.Clone()

	items := make([]RenewalPipelineItem, len(candidates))
	score := func(i int) {
		items[i] = e.scoreOne(candidates[i], pc, weights, opts.Overrides, classifier)
	}

	if e.workers <= 1 || len(candidates) == 1 {
		for i := range candidates {
			score(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for i := range candidates {
			g.Go(func() error {
				score(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	SortPipeline(items)
	return items
}

func (e *Engine) filter(records []Record, windowDays int, now time.Time) []candidate {
	out := make([]candidate, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			e.log.Warn("skipping malformed record", "record_id", rec.ID, "err", err)
			continue
		}
		if !rec.Eligible() {
			continue
		}
		days := DaysUntilExpiry(rec, now)
		// Already-expired records always need action, whatever the window.
		if days != 0 && days > windowDays {
			continue
		}
		out = append(out, candidate{rec: rec, days: days})
	}
	return out
}

func (e *Engine) scoreOne(
	c candidate,
	pc PopulationContext,
	weights PriorityWeights,
	overrides map[string]ManualOverride,
	classifier UrgencyClassifier,
) RenewalPipelineItem {
	factors, issues := ComputeFactors(c.rec, c.days, pc)
	for _, issue := range issues {
		e.log.Warn("data quality issue", "record_id", c.rec.ID, "issue", issue)
	}

	computed := Aggregate(factors, weights)
	item := RenewalPipelineItem{
		Record:           c.rec,
		DaysUntilExpiry:  c.days,
		PriorityScore:    computed,
		ComputedScore:    computed,
		Classifier:       classifier.Name(),
		Factors:          factors,
		Explanation:      Explain(factors),
		DataQualityFlags: issues,
	}
	if exp := c.rec.ExpiresAt(); !exp.IsZero() {
		item.ExpiresAt = &exp
	}

	if o, ok := overrides[c.rec.ID]; ok {
		if o.Usable() {
			o.Score = int(clamp(float64(o.Score), 0, 100))
			item.PriorityScore = o.Score
			item.ManualOverride = &o
		} else {
			e.log.Warn("ignoring override without reason", "record_id", c.rec.ID)
		}
	}

	item.UrgencyLevel = classifier.Classify(item.PriorityScore, c.days)
	return item
}

// SortPipeline orders by final score descending, then soonest expiry, then record ID.
func SortPipeline(items []RenewalPipelineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if a.DaysUntilExpiry != b.DaysUntilExpiry {
			return a.DaysUntilExpiry < b.DaysUntilExpiry
		}
		return a.Record.ID < b.Record.ID
	})
}

// CountByUrgency tallies items per tier.
func CountByUrgency(items []RenewalPipelineItem) map[UrgencyLevel]int {
	counts := map[UrgencyLevel]int{
		UrgencyCritical: 0,
		UrgencyHigh:     0,
		UrgencyMedium:   0,
		UrgencyLow:      0,
	}
	for _, it := range items {
		counts[it.UrgencyLevel]++
	}
	return counts
}
