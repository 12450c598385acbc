package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"joblens-engine/internal/clean"
	"joblens-engine/internal/config"
	"joblens-engine/internal/events"
	"joblens-engine/internal/session"
	"joblens-engine/internal/stats"
)

const sampleCSV = "Salary (USD),Location,Job Title,Company Name,Link,Skills\n" +
	"\"$3,000\",\"Cairo, Egypt\",Senior Backend Engineer,Acme,https://x/1,Go · SQL\n" +
	"\"$1,000\",\"Giza, Egypt\",Junior Developer,Beta,https://x/2,Python\n" +
	"N/A,Remote,Lead Analyst,Gamma,https://x/3,Excel\n"

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	cfg := config.Config{}
	cfg.App.Port = 38471
	cfg, res := config.NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("test config invalid: %v", res.Errors)
	}
	return New(cfg, session.NewStore(0, 8), clean.New(cfg), nil, events.NewHub())
}

func upload(t *testing.T, h *Handlers, body string) datasetResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/datasets?profile=listings&name=jobs.csv", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Upload(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d body=%s", w.Code, w.Body.String())
	}
	var resp datasetResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp
}

func TestUploadAndQueryRoundTrip(t *testing.T) {
	h := testHandlers(t)
	up := upload(t, h, sampleCSV)

	if up.Rows != 3 {
		t.Fatalf("rows = %d, want 3", up.Rows)
	}
	if len(up.Options.Countries) != 1 || up.Options.Countries[0] != "Egypt" {
		t.Errorf("countries = %v", up.Options.Countries)
	}
	if up.Options.SalaryMin == nil || *up.Options.SalaryMin != 1000 {
		t.Errorf("salaryMin = %v, want 1000", up.Options.SalaryMin)
	}

	// unfiltered query returns everything in order
	q := `{}`
	req := httptest.NewRequest(http.MethodPost, "/api/query?id="+up.Session.ID, strings.NewReader(q))
	w := httptest.NewRecorder()
	h.Query(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("query status = %d body=%s", w.Code, w.Body.String())
	}
	var resp queryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode query response: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d, want 3", resp.Count)
	}
	if resp.Stats.Salary == nil || resp.Stats.Salary.Count != 2 {
		t.Errorf("salary stats = %+v, want count 2 (N/A excluded)", resp.Stats.Salary)
	}

	// restricted query: salary range drops the unparseable record, seniority AND applies
	q = `{"seniority":["Senior","Lead"],"salary":{"min":0,"max":10000}}`
	req = httptest.NewRequest(http.MethodPost, "/api/query?id="+up.Session.ID, strings.NewReader(q))
	w = httptest.NewRecorder()
	h.Query(w, req)
	resp = queryResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode query response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1 (Lead has no parseable salary)", resp.Count)
	}
	if got := resp.Records[0].Raw["Company Name"]; got != "Acme" {
		t.Errorf("matched company = %q, want Acme", got)
	}
}

func TestQueryEmptyResultHasNoAggregates(t *testing.T) {
	h := testHandlers(t)
	up := upload(t, h, sampleCSV)

	q := `{"salary":{"min":10,"max":5}}`
	req := httptest.NewRequest(http.MethodPost, "/api/query?id="+up.Session.ID, strings.NewReader(q))
	w := httptest.NewRecorder()
	h.Query(w, req)

	var resp queryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0 for inverted range", resp.Count)
	}
	if resp.Stats.Salary != nil {
		t.Errorf("salary stats = %+v, want null on empty set", resp.Stats.Salary)
	}
}

func TestUploadSchemaErrorListsMissing(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets?profile=listings",
		strings.NewReader("Location,Job Title\nCairo,Dev\n"))
	w := httptest.NewRecorder()
	h.Upload(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	var body struct {
		Missing []string `json:"missing"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Missing) != 3 {
		t.Errorf("missing = %v, want the three absent required columns", body.Missing)
	}
}

func TestUploadBadCSVIsParseError(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets",
		strings.NewReader("Salary (USD),Location\n\"broken\n"))
	w := httptest.NewRecorder()
	h.Upload(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadRejectsWrongMethod(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	w := httptest.NewRecorder()
	h.Upload(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestQueryUnknownSession(t *testing.T) {
	h := testHandlers(t)
	req := httptest.NewRequest(http.MethodPost, "/api/query?id=deadbeef", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Query(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStoreExportWithoutTargetConfigured(t *testing.T) {
	h := testHandlers(t)
	up := upload(t, h, sampleCSV)

	req := httptest.NewRequest(http.MethodPost, "/api/store?id="+up.Session.ID, nil)
	w := httptest.NewRecorder()
	h.StoreExport(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 when no store is configured", w.Code)
	}
}

func TestSkillStatsComeBackLowercased(t *testing.T) {
	h := testHandlers(t)
	up := upload(t, h, sampleCSV)

	sess, err := h.Sessions.Get(up.Session.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range stats.SkillFrequencies(sess.Records) {
		if item.Value != strings.ToLower(item.Value) {
			t.Errorf("skill %q not lowercased", item.Value)
		}
	}
}
