package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"joblens-engine/internal/dataset"
)

// Session owns one ingested dataset for the lifetime of a dashboard tab.
// The cleaned record set is derived once and never mutated; every query
// re-filters it.
type Session struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Profile   dataset.Profile `json:"profile"`
	Columns   []string        `json:"columns"`
	CreatedAt time.Time       `json:"createdAt"`

	Records []dataset.Record `json:"-"`
}

type entry struct {
	sess     *Session
	lastUsed time.Time
}

// Store is the in-memory session registry. Idle sessions are evicted by the
// sweep loop; the oldest session is evicted when the cap is hit. Each session
// holds its own independent record set, so there is no sharing to coordinate
// beyond this map's lock.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	max      int
	sessions map[string]*entry
}

var ErrNotFound = errors.New("session not found or expired")

func NewStore(ttl time.Duration, max int) *Store {
	return &Store{
		ttl:      ttl,
		max:      max,
		sessions: make(map[string]*entry),
	}
}

// Put registers the session under a fresh random ID and returns it.
func (st *Store) Put(sess *Session) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.max > 0 && len(st.sessions) >= st.max {
		st.evictOldestLocked()
	}

	id := newID()
	sess.ID = id
	sess.CreatedAt = time.Now().UTC()
	st.sessions[id] = &entry{sess: sess, lastUsed: time.Now()}
	return id
}

// Get returns the session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastUsed = time.Now()
	return e.sess, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// List returns the live sessions, newest first.
func (st *Store) List() []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]*Session, 0, len(st.sessions))
	for _, e := range st.sessions {
		out = append(out, e.sess)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.After(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Sweep evicts sessions idle longer than the TTL and reports how many went.
// A zero TTL disables expiry.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := time.Now().Add(-st.ttl)
	n := 0
	for id, e := range st.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *Store) evictOldestLocked() {
	var oldest string
	var when time.Time
	for id, e := range st.sessions {
		if oldest == "" || e.lastUsed.Before(when) {
			oldest = id
			when = e.lastUsed
		}
	}
	if oldest != "" {
		delete(st.sessions, oldest)
	}
}

func newID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
