// skael-api-service
//
// Job-search aggregation backend:
//   - fetches listings from the Theirstack API and ingests them into
//     PostgreSQL (deduplicated companies, technologies and job listings)
//   - exposes REST endpoints for users, jobs, resumes and activity
//   - runs a periodic saved-search ingestion cycle per complete profile
//
// Publishes EVENT_JOBS_INGESTED to Redis after each committed batch.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/KnightCoder27/Skael/internal/auth"
	"github.com/KnightCoder27/Skael/internal/config"
	"github.com/KnightCoder27/Skael/internal/db"
	"github.com/KnightCoder27/Skael/internal/enrich"
	"github.com/KnightCoder27/Skael/internal/httpapi"
	"github.com/KnightCoder27/Skael/internal/ingest"
	"github.com/KnightCoder27/Skael/internal/scheduler"
	"github.com/KnightCoder27/Skael/internal/store"
	"github.com/KnightCoder27/Skael/internal/theirstack"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[api-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[api-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[api-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[api-service] PostgreSQL connected ✓")

	if err := db.Bootstrap(ctx, pool); err != nil {
		log.Fatalf("[api-service] Schema bootstrap: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[api-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[api-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[api-service] Redis connected ✓")

	// ── Wiring ───────────────────────────────────────────────────────────────
	var cache *theirstack.ResponseCache
	if cfg.ResponseCachePath != "" {
		cache = theirstack.NewResponseCache(cfg.ResponseCachePath)
	}
	source := theirstack.NewClient(cfg.TheirstackBaseURL, cfg.TheirstackAPIKey, cache)
	pipeline := ingest.New(pool, rdb, enrich.NewKeywordExtractor(nil))

	users := store.NewUserStore(pool)
	jobs := store.NewJobStore(pool)
	activity := store.NewActivityStore(pool)
	tokens := auth.NewManager(cfg.JWTSecret)

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := httpapi.NewHandler(users, jobs, activity, tokens, source, pipeline)
	h.RegisterRoutes(mux)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(httpapi.Recover(mux))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[api-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[api-service] HTTP server error: %v", err)
		}
	}()

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(users, jobs, source, pipeline, cfg.IngestIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[api-service] Scheduler: %v", err)
	}

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[api-service] Shutting down…")
	sched.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[api-service] Shutdown error: %v", err)
	}
	log.Println("[api-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "api-service",
		"version": version,
	})
}
