package seed

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-renewals/internal/core"
)

func TestDemoRecordsBuildAPipeline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recs := DemoRecords(now)
	for _, r := range recs {
		require.NoError(t, r.Validate(), r.ID)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := core.NewEngine(log, core.WithClock(func() time.Time { return now }))
	items := engine.BuildPipeline(recs, core.PipelineOptions{Weights: core.DefaultWeights(), TimeWindowDays: 90})

	ids := make(map[string]bool)
	for _, it := range items {
		ids[it.Record.ID] = true
	}
	assert.True(t, ids["0x5e02bb"], "expired record stays in the pipeline")
	assert.False(t, ids["0x7d90e1"], "150 days out is beyond the window")
	assert.False(t, ids["0x000c01"], "unstarted pending record is ineligible")
	assert.Equal(t, core.UrgencyCritical, items[0].UrgencyLevel)
}
