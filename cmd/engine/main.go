package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"joblens-engine/internal/clean"
	"joblens-engine/internal/config"
	"joblens-engine/internal/events"
	httpapi "joblens-engine/internal/http"
	"joblens-engine/internal/http/handlers"
	"joblens-engine/internal/session"
	"joblens-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided (the desktop shell can pass one),
	// else local folder.
	dataDir := os.Getenv("JOBLENS_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over sqlite.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("instance lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running on %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, res := config.NormalizeAndValidate(cfg)
	for _, warning := range res.Warnings {
		log.Printf("[config] warning: %s", warning)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[config] error: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}

	dbPath := filepath.Join(dataDir, "joblens.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()
	deriver := clean.New(cfg)
	sessions := session.NewStore(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		cfg.Session.MaxSessions,
	)

	h := handlers.New(cfg, sessions, deriver, db, hub)
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A server failure cancels ctx, which stops the sweeper and lets Wait
	// return the error.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.Start(addr, httpapi.Routes(h))
	})
	g.Go(func() error {
		sessions.SweepEvery(ctx, time.Duration(cfg.Session.SweepSeconds)*time.Second)
		return nil
	})

	log.Printf("engine up (data=%s db=%s)", dataDir, dbPath)
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
