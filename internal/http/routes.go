package http

import (
	"net/http"

	"joblens-engine/internal/http/handlers"
)

func Routes(h *handlers.Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/api/datasets", h.Upload)
	mux.HandleFunc("/api/sessions", h.SessionList)
	mux.HandleFunc("/api/options", h.Options)
	mux.HandleFunc("/api/query", h.Query)
	mux.HandleFunc("/api/store", h.StoreExport)
	mux.HandleFunc("/api/archives", h.Archives)
	mux.HandleFunc("/api/archives/load", h.ArchiveLoad)
	mux.HandleFunc("/events", h.Events)

	return cors(mux)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The dashboard frontends fetch from a local UI origin.
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}
