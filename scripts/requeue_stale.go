// Manually re-dispatch artifacts stuck in pending.
//
// The same sweep runs inside the server on a timer when
// generation.requeue_after_seconds is set. This script exists for one-off
// runs, e.g. after a dispatcher outage left a backlog behind.
//
// Usage: go run scripts/requeue_stale.go [-max-age 30m]

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"studyforge_backend/internal/config"
	"studyforge_backend/internal/repository"
	"studyforge_backend/internal/service"
	"studyforge_backend/pkg/database"
	"studyforge_backend/pkg/logger"
)

func main() {
	maxAge := flag.Duration("max-age", 30*time.Minute, "only requeue pending records older than this")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	artifacts := repository.NewArtifactRepository(db)
	ai := service.NewAIService(cfg.AI)
	gen := service.NewGenerationService(artifacts, ai, nil)

	log.Printf("Requeueing pending artifacts older than %s...", *maxAge)
	if err := gen.RequeueStale(context.Background(), *maxAge); err != nil {
		log.Fatalf("Requeue failed: %v", err)
	}
	log.Println("Done")
}
