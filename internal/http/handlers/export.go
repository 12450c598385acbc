package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"joblens-engine/internal/dataset"
	"joblens-engine/internal/docstore"
	"joblens-engine/internal/events"
	"joblens-engine/internal/filter"
	"joblens-engine/internal/secrets"
	"joblens-engine/internal/session"
	"joblens-engine/internal/store"
)

// StoreExport replaces the configured document-store collection with the
// session's full cleaned record set. The export always uses the cleaned
// set, not whatever filter the dashboard currently shows.
func (h *Handlers) StoreExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(h.Cfg.Store.URI) == "" {
		writeError(w, http.StatusConflict, "no document store configured", nil)
		return
	}

	uri, err := h.storeURI()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error(), nil)
		return
	}

	timeout := time.Duration(h.Cfg.Store.TimeoutSeconds) * time.Second
	target := docstore.Target{
		URI:        uri,
		Database:   h.Cfg.Store.Database,
		Collection: h.Cfg.Store.Collection,
		Timeout:    timeout,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 6*timeout)
	defer cancel()

	inserted, err := docstore.ReplaceAll(ctx, target, sess.Records)
	if err != nil {
		log.Printf("[store] export failed session=%s: %v", sess.ID, err)
		writeError(w, http.StatusBadGateway, err.Error(), nil)
		return
	}

	log.Printf("[store] exported session=%s docs=%d collection=%s", sess.ID, inserted, target.Collection)
	h.Hub.Publish(events.TypeDatasetStored, map[string]any{"id": sess.ID, "inserted": inserted})
	writeJSON(w, map[string]any{"inserted": inserted, "collection": target.Collection})
}

// storeURI injects the keychain password into the configured URI when the
// config names a keyring account; the config file itself never carries it.
func (h *Handlers) storeURI() (string, error) {
	uri := h.Cfg.Store.URI
	account := strings.TrimSpace(h.Cfg.Store.KeyringAccount)
	if account == "" {
		return uri, nil
	}

	pw, err := secrets.GetStorePassword(account)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("bad store.uri: %w", err)
	}
	user := account
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, pw)
	return u.String(), nil
}

// Archives lists archived datasets (GET) or archives a session (POST ?id=).
func (h *Handlers) Archives(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		metas, err := store.ListDatasets(r.Context(), h.DB.Pool)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		if metas == nil {
			metas = []store.ArchiveMeta{}
		}
		writeJSON(w, metas)

	case http.MethodPost:
		sess, ok := h.session(w, r)
		if !ok {
			return
		}
		id, err := store.SaveDataset(r.Context(), h.DB.Pool, sess.Name, sess.Profile,
			sess.Columns, sess.Records, h.Cfg.Archive.Keep)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		log.Printf("[archive] saved session=%s archive=%d rows=%d", sess.ID, id, len(sess.Records))
		h.Hub.Publish(events.TypeDatasetArchived, map[string]any{"archive": id, "rows": len(sess.Records)})
		writeJSON(w, map[string]any{"archive": id})

	default:
		http.Error(w, "GET or POST only", http.StatusMethodNotAllowed)
	}
}

// ArchiveLoad reopens an archived dataset as a fresh session, the way the
// second dashboard starts from the previously cleaned export.
func (h *Handlers) ArchiveLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	archiveID, err := strconv.ParseInt(r.URL.Query().Get("archive"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad archive id", nil)
		return
	}

	meta, columns, records, err := store.LoadDataset(r.Context(), h.DB.Pool, archiveID)
	if err != nil {
		writeError(w, http.StatusNotFound, "archive not found", nil)
		return
	}

	sess := &session.Session{
		Name:    meta.Name,
		Profile: profileOf(meta.Profile),
		Columns: columns,
		Records: records,
	}
	id := h.Sessions.Put(sess)
	log.Printf("[archive] loaded archive=%d session=%s rows=%d", archiveID, id, len(records))
	h.Hub.Publish(events.TypeDatasetIngested, map[string]any{"id": id, "rows": len(records)})

	writeJSON(w, datasetResponse{
		Session: sess,
		Rows:    len(records),
		Options: filter.OptionsFor(records),
	})
}

func profileOf(s string) dataset.Profile {
	p, err := dataset.ParseProfile(s)
	if err != nil {
		return dataset.ProfileListings
	}
	return p
}
