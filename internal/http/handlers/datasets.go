package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"joblens-engine/internal/dataset"
	"joblens-engine/internal/events"
	"joblens-engine/internal/filter"
	"joblens-engine/internal/ingest"
	"joblens-engine/internal/session"
	"joblens-engine/internal/stats"
)

type datasetResponse struct {
	Session *session.Session `json:"session"`
	Rows    int              `json:"rows"`
	Options filter.Options   `json:"options"`
}

// Upload ingests a CSV into a new session. The profile query parameter
// selects the ingestion shape (defaults to the scraped-listings profile).
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if !h.Uploads.AllowAddr(r.RemoteAddr) {
		writeError(w, http.StatusTooManyRequests, "too many uploads, slow down", nil)
		return
	}

	profile, err := dataset.ParseProfile(r.URL.Query().Get("profile"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	body, name, err := uploadBody(w, r, h.Cfg.Ingest.MaxUploadBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	defer body.Close()

	table, err := ingest.Read(body, profile)
	if err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusUnprocessableEntity, schemaErr.Error(),
				map[string]any{"missing": schemaErr.Missing})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	records := h.Deriver.Derive(table, profile)

	sess := &session.Session{
		Name:    name,
		Profile: profile,
		Columns: table.Columns,
		Records: records,
	}
	id := h.Sessions.Put(sess)
	log.Printf("[ingest] session=%s profile=%s rows=%d name=%q", id, profile, len(records), name)
	h.Hub.Publish(events.TypeDatasetIngested, map[string]any{"id": id, "rows": len(records)})

	writeJSON(w, datasetResponse{
		Session: sess,
		Rows:    len(records),
		Options: filter.OptionsFor(records),
	})
}

func uploadBody(w http.ResponseWriter, r *http.Request, maxBytes int64) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New("multipart upload needs a \"file\" part")
		}
		return f, hdr.Filename, nil
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}
	return r.Body, name, nil
}

// SessionList lists live sessions (GET) or drops one (DELETE ?id=).
func (h *Handlers) SessionList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.Sessions.List())
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing id", nil)
			return
		}
		h.Sessions.Delete(id)
		h.Hub.Publish(events.TypeSessionGone, map[string]any{"id": id})
		writeJSON(w, map[string]any{"ok": true})
	default:
		http.Error(w, "GET or DELETE only", http.StatusMethodNotAllowed)
	}
}

// Options returns the distinct values per filterable attribute for widget
// population, plus observed salary bounds.
func (h *Handlers) Options(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, filter.OptionsFor(sess.Records))
}

type querySpec struct {
	Countries []string      `json:"countries"`
	Cities    []string      `json:"cities"`
	Seniority []string      `json:"seniority"`
	JobLevels []string      `json:"jobLevels"`
	WorkTypes []string      `json:"workTypes"`
	Salary    *filter.Range `json:"salary"`
	Limit     int           `json:"limit"`
}

type statsPayload struct {
	Salary              *stats.Summary       `json:"salary"`
	SalaryBySeniority   []stats.GroupSummary `json:"salaryBySeniority"`
	TopCities           []stats.CountItem    `json:"topCities"`
	SeniorityCounts     []stats.CountItem    `json:"seniorityCounts"`
	JobLevelCounts      []stats.CountItem    `json:"jobLevelCounts"`
	WorkTypeCounts      []stats.CountItem    `json:"workTypeCounts"`
	Skills              []stats.CountItem    `json:"skills"`
	Experience          *stats.Summary       `json:"experience"`
	ExperienceHistogram []stats.HistogramBin `json:"experienceHistogram"`
}

type queryResponse struct {
	Count   int              `json:"count"`
	Records []dataset.Record `json:"records"`
	Stats   statsPayload     `json:"stats"`
}

// Query runs one filter interaction: the session's full cleaned record set
// is re-filtered against the posted spec and the aggregates the dashboards
// chart are computed over the matching subset. An empty JSON array (or an
// omitted field) means "this dimension is unfiltered", never "match none".
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var q querySpec
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "bad query body: "+err.Error(), nil)
		return
	}

	spec := filter.Spec{
		Countries: selection(q.Countries),
		Cities:    selection(q.Cities),
		Seniority: selection(q.Seniority),
		JobLevels: selection(q.JobLevels),
		WorkTypes: selection(q.WorkTypes),
		Salary:    q.Salary,
	}
	matched := filter.Apply(sess.Records, spec)

	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	shown := matched
	if len(shown) > limit {
		shown = shown[:limit]
	}

	payload := statsPayload{
		SalaryBySeniority:   stats.SalaryBySeniority(matched),
		TopCities:           stats.TopCities(matched, 10),
		SeniorityCounts:     stats.CountBySeniority(matched),
		JobLevelCounts:      stats.CountByJobLevel(matched),
		WorkTypeCounts:      stats.CountByWorkType(matched),
		Skills:              stats.SkillFrequencies(matched),
		ExperienceHistogram: stats.ExperienceHistogram(matched, 10),
	}
	if s, ok := stats.Salary(matched); ok {
		payload.Salary = &s
	}
	if s, ok := stats.Experience(matched); ok {
		payload.Experience = &s
	}

	writeJSON(w, queryResponse{
		Count:   len(matched),
		Records: shown,
		Stats:   payload,
	})
}

func selection(values []string) filter.Selection {
	if len(values) == 0 {
		return filter.Any()
	}
	return filter.OneOf(values...)
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id", nil)
		return nil, false
	}
	sess, err := h.Sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), nil)
		return nil, false
	}
	return sess, true
}
