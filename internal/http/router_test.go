package transporthttp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/internal/http/handlers"
	"github.com/MrKriegler/go-renewals/internal/http/health"
	"github.com/MrKriegler/go-renewals/internal/store/memory"
	"github.com/MrKriegler/go-renewals/pkg/problem"

	_ "github.com/MrKriegler/go-renewals/docs"
)

const testKey = "test-key"

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type staticLatest struct {
	p   core.Pipeline
	err error
}

func (s staticLatest) Latest() (core.Pipeline, error) { return s.p, s.err }

func record(id string, premium float64, daysLeft int64) core.Record {
	return core.Record{
		ID:        id,
		Premium:   &premium,
		Status:    core.RecordStatusActive,
		StartTime: now.Unix() - 100*86400,
		Duration:  (100 + daysLeft) * 86400,
	}
}

func newTestServer(t *testing.T, latest handlers.LatestPipeline) (*httptest.Server, *memory.RecordRepo) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewRecordRepo(
		record("alpha", 5000, 5),
		record("beta", 50, 45),
		record("gamma", 500, 300),
	)
	engine := core.NewEngine(log, core.WithClock(func() time.Time { return now }))
	svc := core.NewRenewalService(repo, core.NewMemoryOverrideStore(), engine)

	h := NewRouter(Deps{
		Mounts: []handlers.Mountable{
			handlers.NewPipelineHandler(svc, latest, log),
			handlers.NewOverrideHandler(svc, log),
			handlers.NewRecordHandler(repo, log),
			handlers.NewEnrichmentHandler(svc, log),
		},
		Health:  health.New(log, nil, time.Second),
		APIKeys: []string{testKey},
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, repo
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", testKey)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func TestPipelineEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	res := do(t, srv, http.MethodGet, "/api/v1/pipeline", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	p := decode[core.Pipeline](t, res)
	assert.Equal(t, 90, p.TimeWindowDays)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "alpha", p.Items[0].Record.ID)
	assert.Equal(t, 5, p.Items[0].DaysUntilExpiry)

	res = do(t, srv, http.MethodGet, "/api/v1/pipeline?window=365&mode=ledger", "")
	p = decode[core.Pipeline](t, res)
	assert.Len(t, p.Items, 3)
	assert.Equal(t, core.ModeLedger, p.Mode)
	assert.Equal(t, "expiry", p.Items[0].Classifier)
}

func TestPipelineEndpoint_BadQuery(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	res := do(t, srv, http.MethodGet, "/api/v1/pipeline?window=soon", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"))
	prob := decode[problem.Problem](t, res)
	assert.Equal(t, "/api/v1/pipeline", prob.Instance)
	assert.NotEmpty(t, prob.RequestID)

	res = do(t, srv, http.MethodGet, "/api/v1/pipeline?mode=chain", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, srv, http.MethodPost, "/api/v1/pipeline", `{"weights":{"vibes":1}}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPipelineEndpoint_CustomWeights(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	res := do(t, srv, http.MethodPost, "/api/v1/pipeline", `{"weights":{"premiumAtRisk":1},"timeWindowDays":400}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	p := decode[core.Pipeline](t, res)
	require.Len(t, p.Items, 3)
	assert.Equal(t, 100, p.Items[0].PriorityScore)
	assert.Equal(t, []string{"alpha", "gamma", "beta"}, []string{p.Items[0].Record.ID, p.Items[1].Record.ID, p.Items[2].Record.ID})
}

func TestOverrideFlow(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	res := do(t, srv, http.MethodPut, "/api/v1/overrides/beta", `{"score":95}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, srv, http.MethodPut, "/api/v1/overrides/beta", `{"score":140,"reason":"x"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, srv, http.MethodPut, "/api/v1/overrides/nobody", `{"score":50,"reason":"x"}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = do(t, srv, http.MethodPut, "/api/v1/overrides/beta", `{"score":95,"reason":"VIP escalation"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = do(t, srv, http.MethodGet, "/api/v1/pipeline/beta", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	item := decode[core.RenewalPipelineItem](t, res)
	assert.Equal(t, 95, item.PriorityScore)
	assert.Equal(t, core.UrgencyCritical, item.UrgencyLevel)
	require.NotNil(t, item.ManualOverride)
	assert.Equal(t, "VIP escalation", item.ManualOverride.Reason)

	res = do(t, srv, http.MethodGet, "/api/v1/overrides", "")
	list := decode[map[string][]core.ManualOverride](t, res)
	assert.Len(t, list["items"], 1)

	res = do(t, srv, http.MethodDelete, "/api/v1/overrides/beta", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res = do(t, srv, http.MethodDelete, "/api/v1/overrides/beta", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPipelineItem_OutsideWindow(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	res := do(t, srv, http.MethodGet, "/api/v1/pipeline/gamma", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = do(t, srv, http.MethodGet, "/api/v1/pipeline/gamma?window=365", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLatestPipeline(t *testing.T) {
	srv, _ := newTestServer(t, staticLatest{err: core.ErrNotReady})
	res := do(t, srv, http.MethodGet, "/api/v1/pipeline/latest", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	srv, _ = newTestServer(t, staticLatest{p: core.Pipeline{TimeWindowDays: 30, Items: []core.RenewalPipelineItem{}}})
	res = do(t, srv, http.MethodGet, "/api/v1/pipeline/latest", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 30, decode[core.Pipeline](t, res).TimeWindowDays)
}

func TestRecordsEndpoints(t *testing.T) {
	srv, repo := newTestServer(t, nil)

	res := do(t, srv, http.MethodPut, "/api/v1/records/beta",
		`{"premium":50,"status":"active","startTime":1,"duration":1,"enrichment":{"claimsCount":4}}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	rec, err := repo.Get(t.Context(), "beta")
	require.NoError(t, err)
	require.NotNil(t, rec.Enrichment.ClaimsCount)
	assert.Equal(t, 4, *rec.Enrichment.ClaimsCount)

	res = do(t, srv, http.MethodPut, "/api/v1/records/beta", `{"id":"other","premium":1}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, srv, http.MethodPost, "/api/v1/records", `{"status":"active"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = do(t, srv, http.MethodPost, "/api/v1/records", `{"customerName":"Delta","premium":10,"status":"active"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	created := decode[core.Record](t, res)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, core.RecordSourceCSV, created.Source)

	res = do(t, srv, http.MethodGet, "/api/v1/records/"+created.ID, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res = do(t, srv, http.MethodGet, "/api/v1/records/missing", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestImportLedger(t *testing.T) {
	srv, repo := newTestServer(t, nil)

	body := `[{"id":"0xfeed","holder":"0xh","premiumWei":"2000000000000000000","status":1,"startTime":1700000000,"duration":31536000}]`
	res := do(t, srv, http.MethodPost, "/api/v1/records/ledger", body)
	require.Equal(t, http.StatusOK, res.StatusCode)

	rec, err := repo.Get(t.Context(), "0xfeed")
	require.NoError(t, err)
	require.NotNil(t, rec.Premium)
	assert.Equal(t, 2.0, *rec.Premium)
	assert.Equal(t, core.RecordSourceLedger, rec.Source)

	res = do(t, srv, http.MethodPost, "/api/v1/records/ledger", `[{"id":"0xbad","premiumWei":"1","status":9}]`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestEnrichmentTemplateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	res := do(t, srv, http.MethodGet, "/api/v1/enrichment/template", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", res.Header.Get("Content-Type"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Equal(t, strings.Join(core.EnrichmentColumns, ","), lines[0])
	assert.Len(t, lines, 4)
}

func TestDefaultWeightsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	res := do(t, srv, http.MethodGet, "/api/v1/weights/default", "")
	w := decode[map[string]float64](t, res)
	assert.Equal(t, 0.25, w["premiumAtRisk"])
	assert.Len(t, w, 7)
}

func TestAuthAndProbes(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	res, err := srv.Client().Get(srv.URL + "/api/v1/pipeline")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res2, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusOK, res2.StatusCode)
	assert.Equal(t, "nosniff", res2.Header.Get("X-Content-Type-Options"))
}

func TestSwaggerDoc(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	res, err := srv.Client().Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var doc struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]any         `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&doc))
	assert.Equal(t, "Renewals API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/pipeline/{record_id}")
	assert.Contains(t, doc.Paths, "/overrides/{record_id}")
}
