package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"joblens-engine/internal/clean"
	"joblens-engine/internal/config"
	"joblens-engine/internal/events"
	"joblens-engine/internal/session"
	"joblens-engine/internal/store"
)

type Handlers struct {
	Cfg      config.Config
	Sessions *session.Store
	Deriver  *clean.Deriver
	DB       *store.DB
	Hub      *events.Hub
	Uploads  *ClientLimiter
}

func New(cfg config.Config, sessions *session.Store, deriver *clean.Deriver, db *store.DB, hub *events.Hub) *Handlers {
	return &Handlers{
		Cfg:      cfg,
		Sessions: sessions,
		Deriver:  deriver,
		DB:       db,
		Hub:      hub,
		Uploads:  NewClientLimiter(cfg.Ingest.UploadsPerMinute/60.0, cfg.Ingest.UploadBurst),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, extra map[string]any) {
	body := map[string]any{"error": msg}
	for k, v := range extra {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
