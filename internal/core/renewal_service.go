package core

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DefaultWindowDays is the pipeline look-ahead used when a query does not set one.
const DefaultWindowDays = 90

// PipelineQuery selects what a pipeline build covers. Nil Weights means DefaultWeights.
type PipelineQuery struct {
	Weights        PriorityWeights `json:"weights,omitempty"`
	TimeWindowDays int             `json:"timeWindowDays,omitempty"`
	Mode           PipelineMode    `json:"mode,omitempty"`
}

func (q PipelineQuery) normalize() (PipelineQuery, error) {
	if q.TimeWindowDays < 0 {
		return q, fmt.Errorf("%w: timeWindowDays must not be negative", ErrValidation)
	}
	if q.TimeWindowDays == 0 {
		q.TimeWindowDays = DefaultWindowDays
	}
	mode, err := ParseMode(string(q.Mode))
	if err != nil {
		return q, err
	}
	q.Mode = mode
	if q.Weights == nil {
		q.Weights = DefaultWeights()
	} else if err := q.Weights.Validate(); err != nil {
		return q, err
	}
	return q, nil
}

// Pipeline is a built pipeline plus the parameters it was built with.
type Pipeline struct {
	Items          []RenewalPipelineItem `json:"items"`
	Counts         map[UrgencyLevel]int  `json:"counts"`
	TimeWindowDays int                   `json:"timeWindowDays"`
	Mode           PipelineMode          `json:"mode"`
	Weights        PriorityWeights       `json:"weights"`
	GeneratedAt    time.Time             `json:"generatedAt"`
}

type RenewalService interface {
	// Pipeline builds the ranked renewal pipeline over all stored records
	Pipeline(ctx context.Context, q PipelineQuery) (Pipeline, error)

	// Item returns the pipeline entry for one record, scored against the same population
	Item(ctx context.Context, recordID string, q PipelineQuery) (RenewalPipelineItem, error)

	// SetOverride validates and stores a manual score for a record
	SetOverride(ctx context.Context, recordID string, in OverrideInput) (ManualOverride, error)

	// RemoveOverride deletes a record's manual score
	RemoveOverride(ctx context.Context, recordID string) error

	// ListOverrides returns every stored override
	ListOverrides(ctx context.Context) ([]ManualOverride, error)

	// EnrichmentTemplate renders the enrichment CSV for every stored record
	EnrichmentTemplate(ctx context.Context) (string, error)
}

type renewalService struct {
	records   RecordRepo
	overrides OverrideStore
	engine    *Engine
	clock     func() time.Time
}

func NewRenewalService(records RecordRepo, overrides OverrideStore, engine *Engine) RenewalService {
	return &renewalService{
		records:   records,
		overrides: overrides,
		engine:    engine,
		clock:     time.Now,
	}
}

func (s *renewalService) Pipeline(ctx context.Context, q PipelineQuery) (Pipeline, error) {
	// 1) Validate query and fill defaults
	q, err := q.normalize()
	if err != nil {
		return Pipeline{}, err
	}

	// 2) Load population
	recs, err := s.records.List(ctx)
	if err != nil {
		return Pipeline{}, err
	}

	// 3) Snapshot overrides so concurrent edits cannot race the build
	overrides, err := s.overrides.Snapshot(ctx)
	if err != nil {
		return Pipeline{}, err
	}

	// 4) Score
	items := s.engine.BuildPipeline(recs, PipelineOptions{
		Weights:        q.Weights,
		TimeWindowDays: q.TimeWindowDays,
		Overrides:      overrides,
		Mode:           q.Mode,
	})

	return Pipeline{
		Items:          items,
		Counts:         CountByUrgency(items),
		TimeWindowDays: q.TimeWindowDays,
		Mode:           q.Mode,
		Weights:        q.Weights,
		GeneratedAt:    s.clock(),
	}, nil
}

func (s *renewalService) Item(ctx context.Context, recordID string, q PipelineQuery) (RenewalPipelineItem, error) {
	if recordID == "" {
		return RenewalPipelineItem{}, fmt.Errorf("%w: missing record ID", ErrValidation)
	}
	if _, err := s.records.Get(ctx, recordID); err != nil {
		return RenewalPipelineItem{}, err
	}

	p, err := s.Pipeline(ctx, q)
	if err != nil {
		return RenewalPipelineItem{}, err
	}
	for _, it := range p.Items {
		if it.Record.ID == recordID {
			return it, nil
		}
	}
	return RenewalPipelineItem{}, ErrNotInPipeline
}

func (s *renewalService) SetOverride(ctx context.Context, recordID string, in OverrideInput) (ManualOverride, error) {
	// 1) Validate input at the boundary; the engine assumes valid overrides
	if recordID == "" {
		return ManualOverride{}, fmt.Errorf("%w: missing record ID", ErrValidation)
	}
	if err := in.Validate(); err != nil {
		return ManualOverride{}, err
	}

	// 2) Overrides only make sense for known records
	if _, err := s.records.Get(ctx, recordID); err != nil {
		return ManualOverride{}, err
	}

	// 3) Save
	o := ManualOverride{
		RecordID:  recordID,
		Score:     in.Score,
		Reason:    in.Reason,
		CreatedBy: in.CreatedBy,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.overrides.Set(ctx, o); err != nil {
		return ManualOverride{}, err
	}
	return o, nil
}

func (s *renewalService) RemoveOverride(ctx context.Context, recordID string) error {
	if recordID == "" {
		return fmt.Errorf("%w: missing record ID", ErrValidation)
	}
	return s.overrides.Delete(ctx, recordID)
}

func (s *renewalService) ListOverrides(ctx context.Context) ([]ManualOverride, error) {
	snap, err := s.overrides.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ManualOverride, 0, len(snap))
	for _, o := range snap {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID < out[j].RecordID })
	return out, nil
}

func (s *renewalService) EnrichmentTemplate(ctx context.Context) (string, error) {
	recs, err := s.records.List(ctx)
	if err != nil {
		return "", err
	}
	return EnrichmentTemplate(recs)
}

var ErrNotInPipeline = fmt.Errorf("%w: record is not in the renewal pipeline", ErrNotFound)
