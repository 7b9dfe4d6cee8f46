package daemon

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/klidoop/fire-calculation/internal/config"
	"github.com/klidoop/fire-calculation/internal/export"
	"github.com/klidoop/fire-calculation/internal/model"
)

func newTestService() *Service {
	return New(Config{Addr: "127.0.0.1:0", Base: config.DefaultConfig()})
}

func do(t *testing.T, s *Service, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeDocument(t *testing.T, rec *httptest.ResponseRecorder) export.Document {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var doc export.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	return doc
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestService(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestQueryProjectionDefaults(t *testing.T) {
	s := newTestService()
	rec := do(t, s, http.MethodGet, "/v1/projection", "")
	doc := decodeDocument(t, rec)

	runID := rec.Header().Get("X-Run-ID")
	if _, err := uuid.Parse(runID); err != nil {
		t.Fatalf("X-Run-ID %q is not a uuid: %v", runID, err)
	}
	if doc.RunID != runID {
		t.Fatalf("document run id = %q, header = %q", doc.RunID, runID)
	}
	if doc.Mode != model.ModeSolvency {
		t.Fatalf("mode = %q", doc.Mode)
	}

	want := map[string]int{"No Kid": 57, "With Kid": 65, "Part-Time Work": 55}
	if len(doc.Summaries) != len(want) {
		t.Fatalf("summaries = %d, want %d", len(doc.Summaries), len(want))
	}
	for _, sum := range doc.Summaries {
		if !sum.Feasible || sum.TriggerStep != want[sum.Scenario] {
			t.Errorf("%s: trigger = %d feasible = %v, want %d", sum.Scenario, sum.TriggerStep, sum.Feasible, want[sum.Scenario])
		}
	}
	if len(doc.Points) != 3*61 {
		t.Fatalf("points = %d, want %d", len(doc.Points), 3*61)
	}
}

func TestQueryProjectionOverrides(t *testing.T) {
	s := newTestService()
	doc := decodeDocument(t, do(t, s, http.MethodGet, "/v1/projection?mode=withdrawal-rate&no_dependent=true&no_part_time=1", ""))

	if doc.Mode != model.ModeWithdrawalRate || len(doc.Summaries) != 1 {
		t.Fatalf("mode = %q summaries = %+v", doc.Mode, doc.Summaries)
	}
	if got := doc.Summaries[0]; got.TriggerStep != 27 || got.FireNumber != 1e6 {
		t.Fatalf("baseline = %+v, want 27 years to 1e6", got)
	}
}

func TestQueryProjectionBadInput(t *testing.T) {
	s := newTestService()
	for _, target := range []string{
		"/v1/projection?current_age=thirty",
		"/v1/projection?current_age=95",
		"/v1/projection?mode=monte-carlo",
		"/v1/projection.csv?withdrawal_rate=abc",
	} {
		rec := do(t, s, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
			continue
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !strings.Contains(body["error"], "invalid config") {
			t.Errorf("%s: error body = %s", target, rec.Body.String())
		}
	}
	if st := s.snapshotStatus(); st.Runs != 0 {
		t.Fatalf("rejected requests counted as runs: %d", st.Runs)
	}
}

func TestProjectionRejectsLongHorizons(t *testing.T) {
	s := newTestService()
	for _, target := range []string{
		"/v1/projection?lifespan_age=40000",
		"/v1/projection?mode=swr&retirement_years=2000000",
		"/v1/projection?mode=swr&retirement_years=9223372036854775800",
		"/v1/projection?current_savings=NaN",
		"/v1/projection.csv?lifespan_age=151",
	} {
		if rec := do(t, s, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}

	body := `{"scenarios": [{"label": "Forever", "dependent": {"start_age": 30, "years": 100000}}]}`
	if rec := do(t, s, http.MethodPost, "/v1/projection", body); rec.Code != http.StatusBadRequest {
		t.Errorf("long dependent window: status = %d, want 400", rec.Code)
	}
	if st := s.snapshotStatus(); st.Runs != 0 {
		t.Fatalf("rejected requests counted as runs: %d", st.Runs)
	}
}

func TestProjectionUnencodableResult(t *testing.T) {
	// Balances this large overflow to +Inf, which JSON cannot carry.
	rec := do(t, newTestService(), http.MethodGet, "/v1/projection?current_savings=1e308", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !strings.Contains(body["error"], "encoding response") {
		t.Fatalf("error body = %s", rec.Body.String())
	}

	rec = do(t, newTestService(), http.MethodGet, "/v1/projection.csv?current_savings=1e308", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "+Inf,No Kid") {
		t.Fatalf("csv status = %d, want overflowed rows written as +Inf", rec.Code)
	}
}

func TestPostProjection(t *testing.T) {
	s := newTestService()
	body := `{
		"mode": "withdrawal-rate",
		"parameters": {"current_age": 30},
		"scenarios": [
			{"label": "Solo"},
			{"label": "Big Spender", "annual_expenses": 60000, "annual_savings": 10000}
		]
	}`
	doc := decodeDocument(t, do(t, s, http.MethodPost, "/v1/projection", body))

	if doc.Parameters.AnnualExpenses != 40000 || doc.Parameters.LifespanAge != 90 {
		t.Fatalf("omitted parameters should keep configured values: %+v", doc.Parameters)
	}
	if len(doc.Summaries) != 2 {
		t.Fatalf("summaries = %+v", doc.Summaries)
	}
	if doc.Summaries[0].Scenario != "Solo" || doc.Summaries[0].TriggerStep != 27 {
		t.Errorf("solo = %+v", doc.Summaries[0])
	}
	if doc.Summaries[1].TriggerStep != 40 {
		t.Errorf("big spender = %+v, want 40 years", doc.Summaries[1])
	}
}

func TestPostProjectionRejects(t *testing.T) {
	s := newTestService()
	cases := map[string]string{
		"malformed":       `{"mode":`,
		"unknown field":   `{"modes": "solvency"}`,
		"duplicate label": `{"scenarios": [{"label": "A"}, {"label": "A"}]}`,
		"blank label":     `{"scenarios": [{"label": " "}]}`,
		"bad rate":        `{"parameters": {"expense_reduction": 2}}`,
	}
	for name, body := range cases {
		if rec := do(t, s, http.MethodPost, "/v1/projection", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestProjectionCSV(t *testing.T) {
	rec := do(t, newTestService(), http.MethodGet, "/v1/projection.csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 1+3*61 {
		t.Fatalf("rows = %d, want %d", len(rows), 1+3*61)
	}
	if strings.Join(rows[0], ",") != "Age,Savings,Scenario" {
		t.Fatalf("header = %v", rows[0])
	}
	if strings.Join(rows[1], ",") != "30,50000.00,No Kid" {
		t.Fatalf("first row = %v", rows[1])
	}
}

func TestStatusTracksRuns(t *testing.T) {
	s := newTestService()
	do(t, s, http.MethodGet, "/v1/projection", "")
	rec := do(t, s, http.MethodGet, "/v1/projection", "")
	last := rec.Header().Get("X-Run-ID")

	var st Status
	rec = do(t, s, http.MethodGet, "/v1/status", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Runs != 2 || st.LastRunID != last || st.LastRunAt == nil {
		t.Fatalf("status = %+v, want 2 runs ending at %s", st, last)
	}
	if st.Mode != model.ModeSolvency {
		t.Fatalf("default mode = %q", st.Mode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestService()
	do(t, s, http.MethodGet, "/v1/projection", "")
	do(t, s, http.MethodGet, "/v1/projection?current_age=70&lifespan_age=72&current_savings=0", "")

	body := do(t, s, http.MethodGet, "/metrics", "").Body.String()
	for _, want := range []string{
		`firecalc_projections_total{mode="solvency"} 6`,
		`firecalc_projections_infeasible_total{mode="solvency"} 3`,
		`firecalc_http_requests_total{method="GET",route="/v1/projection",status_code="200"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	if rec := do(t, newTestService(), http.MethodDelete, "/v1/projection", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
