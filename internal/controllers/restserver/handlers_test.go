package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/chrissnell/sieveanalysis/pkg/config"
	"github.com/chrissnell/sieveanalysis/pkg/responseformat"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

type staticProvider struct {
	cfg config.ConfigData
}

func (p *staticProvider) LoadConfig() (*config.ConfigData, error) { return &p.cfg, nil }
func (p *staticProvider) GetServerConfig() (*config.ServerData, error) {
	return &p.cfg.Server, nil
}
func (p *staticProvider) GetAnalysisConfig() (*config.AnalysisData, error) {
	return &p.cfg.Analysis, nil
}
func (p *staticProvider) IsReadOnly() bool { return true }
func (p *staticProvider) Close() error     { return nil }

func newTestController(t *testing.T, mutate func(*config.ConfigData)) *Controller {
	t.Helper()

	cfg := config.ConfigData{}
	cfg.ApplyDefaults()
	cfg.Analysis.InterpKind = "linear"
	if mutate != nil {
		mutate(&cfg)
	}

	ctrl, err := NewController(context.Background(), &sync.WaitGroup{}, &staticProvider{cfg: cfg}, "test", zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return ctrl
}

func do(t *testing.T, ctrl *Controller, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ctrl.Handler().ServeHTTP(rec, req)
	return rec
}

const scenarioBody = `{
	"samples": [
		{
			"name": "fine aggregate",
			"sizes": [0.6, 1.18, 2.36, 4.75, 10, 20, 40],
			"values": [100, 98.8, 76.2, null, 22, null, 10]
		}
	]
}`

func TestAnalyzeScenario(t *testing.T) {
	ctrl := newTestController(t, nil)
	rec := do(t, ctrl, http.MethodPost, "/api/v1/analyze", scenarioBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	if resp.RequestID == "" {
		t.Error("missing request id")
	}
	if resp.Options.InterpKind != "linear" || resp.Options.CurvePoints != 300 {
		t.Errorf("effective options %+v", resp.Options)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("got %d results", len(resp.Results))
	}

	r := resp.Results[0]
	if r.Error != "" {
		t.Fatalf("unexpected sample error: %s", r.Error)
	}
	if r.Classification != "poorly-graded" {
		t.Errorf("classification %q", r.Classification)
	}
	if r.D10 == nil || math.Abs(*r.D10-40) > 1e-9 {
		t.Errorf("d10 %v, want 40", r.D10)
	}
	if r.Cu == nil || r.Cc == nil {
		t.Fatalf("coefficients should be defined: cu=%v cc=%v", r.Cu, r.Cc)
	}
	if len(r.Reasons) != 2 {
		t.Errorf("reasons %v, want both criteria", r.Reasons)
	}
	if r.Curve == nil || len(r.Curve.X) != 300 || len(r.Curve.Y) != 300 {
		t.Errorf("curve missing or wrong size")
	}

	if len(r.Points) != 7 {
		t.Fatalf("got %d points", len(r.Points))
	}
	filled := r.Points[5]
	if !filled.Filled || filled.Value == nil || math.Abs(*filled.Value-16) > 1e-9 {
		t.Errorf("20 mm point %+v, want filled 16", filled)
	}
	if r.Points[0].Filled {
		t.Error("observed point marked filled")
	}
}

func TestAnalyzePerSampleErrors(t *testing.T) {
	ctrl := newTestController(t, nil)
	body := `{
		"samples": [
			{"name": "ok", "sizes": [0.3, 1.18, 4.75], "values": [10, 50, 100]},
			{"name": "mismatch", "sizes": [0.3, 1.18], "values": [10]},
			{"name": "sparse", "sizes": [0.3, 1.18, 4.75], "values": [null, 50, null]},
			{"sizes": [0.3, 1.18], "values": [10, 150]}
		]
	}`

	rec := do(t, ctrl, http.MethodPost, "/api/v1/analyze", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	tests := []struct {
		name string
		kind string
	}{
		{"ok", ""},
		{"mismatch", errorKindInvalidSample},
		{"sparse", errorKindInsufficientData},
		{"sample 4", errorKindInvalidSample},
	}

	if len(resp.Results) != len(tests) {
		t.Fatalf("got %d results, want %d", len(resp.Results), len(tests))
	}
	for i, tt := range tests {
		r := resp.Results[i]
		if r.Name != tt.name {
			t.Errorf("result %d name %q, want %q", i, r.Name, tt.name)
		}
		if r.ErrorKind != tt.kind {
			t.Errorf("%s: error kind %q, want %q (%s)", r.Name, r.ErrorKind, tt.kind, r.Error)
		}
		if r.Reasons == nil {
			t.Errorf("%s: reasons should never be null", r.Name)
		}
	}
}

func TestAnalyzeNullsInResponse(t *testing.T) {
	ctrl := newTestController(t, nil)
	// the passing range 40-60 never reaches 10 or 30
	body := `{"samples": [{"sizes": [1, 2, 4], "values": [40, 50, 60]}]}`

	rec := do(t, ctrl, http.MethodPost, "/api/v1/analyze", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var raw struct {
		Results []map[string]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid response: %v", err)
	}

	r := raw.Results[0]
	for _, key := range []string{"d10", "d30", "cu", "cc"} {
		if string(r[key]) != "null" {
			t.Errorf("%s = %s, want null", key, r[key])
		}
	}
	if string(r["classification"]) != `"insufficient-data"` {
		t.Errorf("classification %s", r["classification"])
	}
	if string(r["reasons"]) != `["insufficient data"]` {
		t.Errorf("reasons %s", r["reasons"])
	}
}

func TestAnalyzeOptionOverrides(t *testing.T) {
	ctrl := newTestController(t, nil)
	body := `{
		"samples": [{"sizes": [0.3, 1.18, 4.75], "values": [null, 50, 100]}],
		"options": {"null_policy": "zero", "curve_points": 150}
	}`

	rec := do(t, ctrl, http.MethodPost, "/api/v1/analyze", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Options.NullPolicy != "zero" || resp.Options.CurvePoints != 150 {
		t.Errorf("options %+v", resp.Options)
	}
	r := resp.Results[0]
	if r.Points[0].Value == nil || *r.Points[0].Value != 0 || !r.Points[0].Filled {
		t.Errorf("zero policy point %+v", r.Points[0])
	}
	if len(r.Curve.X) != 150 {
		t.Errorf("curve has %d points, want 150", len(r.Curve.X))
	}
}

func TestAnalyzeRejectsMalformedRequests(t *testing.T) {
	ctrl := newTestController(t, func(c *config.ConfigData) {
		c.Analysis.MaxSamples = 2
		c.Server.MaxBodyBytes = 2048
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"not json", `{"samples": [`, http.StatusBadRequest},
		{"unknown field", `{"samples": [], "extra": 1}`, http.StatusBadRequest},
		{"no samples", `{"samples": []}`, http.StatusBadRequest},
		{"missing sizes", `{"samples": [{"values": [1]}]}`, http.StatusBadRequest},
		{"bad policy", `{"samples": [{"sizes": [1], "values": [1]}], "options": {"null_policy": "guess"}}`, http.StatusBadRequest},
		{"coarse curve", `{"samples": [{"sizes": [1], "values": [1]}], "options": {"curve_points": 10}}`, http.StatusBadRequest},
		{"too many samples", `{"samples": [{"sizes": [1], "values": [1]}, {"sizes": [1], "values": [1]}, {"sizes": [1], "values": [1]}]}`, http.StatusBadRequest},
		{"too large", `{"samples": [{"name": "` + strings.Repeat("x", 4096) + `"}]}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, ctrl, http.MethodPost, "/api/v1/analyze", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}

			var errResp struct {
				Error  string `json:"error"`
				Status int    `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if errResp.Error == "" || errResp.Status != tt.status {
				t.Errorf("error body %+v", errResp)
			}
		})
	}
}

func TestAnalyzeMsgPack(t *testing.T) {
	ctrl := newTestController(t, nil)
	rec := do(t, ctrl, http.MethodPost, "/api/v1/analyze?format=msgpack", scenarioBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-msgpack" {
		t.Fatalf("content type %q", ct)
	}

	var resp map[string]any
	if err := msgpack.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&resp); err != nil {
		t.Fatalf("invalid msgpack: %v", err)
	}
	if _, ok := resp["request_id"]; !ok {
		t.Errorf("msgpack response lacks request_id: %v", resp)
	}
}

func TestGetSieves(t *testing.T) {
	ctrl := newTestController(t, nil)
	rec := do(t, ctrl, http.MethodGet, "/api/v1/sieves", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var resp SievesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Sieves) != 11 || resp.Sieves[0].SizeMM != 0.075 || resp.Sieves[10].SizeMM != 53 {
		t.Errorf("sieves %+v", resp.Sieves)
	}
}

func TestRoutingErrors(t *testing.T) {
	ctrl := newTestController(t, nil)

	if rec := do(t, ctrl, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status %d", rec.Code)
	}
	if rec := do(t, ctrl, http.MethodGet, "/nowhere", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status %d", rec.Code)
	}
	if rec := do(t, ctrl, http.MethodGet, "/api/v1/unknown", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown API route status %d", rec.Code)
	}

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/analyze"},
		{http.MethodPost, "/api/v1/sieves"},
		{http.MethodDelete, "/healthz"},
	}
	for _, tt := range tests {
		rec := do(t, ctrl, tt.method, tt.path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s status %d, want 405", tt.method, tt.path, rec.Code)
			continue
		}
		var body responseformat.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Status != http.StatusMethodNotAllowed {
			t.Errorf("%s %s body %q (%v)", tt.method, tt.path, rec.Body.String(), err)
		}
	}
}

func TestCORS(t *testing.T) {
	ctrl := newTestController(t, func(c *config.ConfigData) {
		c.Server.EnableCORS = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sieves", nil)
	req.Header.Set("Origin", "https://lab.example.com")
	rec := httptest.NewRecorder()
	ctrl.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin %q, want *", got)
	}
}
