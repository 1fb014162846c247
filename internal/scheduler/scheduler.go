// Package scheduler wires up the cron job that periodically fetches fresh
// listings for every user with a complete search profile.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/KnightCoder27/Skael/internal/ingest"
	"github.com/KnightCoder27/Skael/internal/model"
	"github.com/KnightCoder27/Skael/internal/store"
	"github.com/KnightCoder27/Skael/internal/theirstack"
)

// Scheduler wraps robfig/cron and manages the periodic ingestion loop.
type Scheduler struct {
	cron     *cron.Cron
	users    *store.UserStore
	jobs     *store.JobStore
	source   *theirstack.Client
	pipeline *ingest.Pipeline
	spec     string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(users *store.UserStore, jobs *store.JobStore, source *theirstack.Client, pipeline *ingest.Pipeline, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		users:    users,
		jobs:     jobs,
		source:   source,
		pipeline: pipeline,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so listings are populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runCycle(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// runCycle fetches and ingests once per user whose profile carries a desired
// role. One user's failure never stops the others.
func (s *Scheduler) runCycle(ctx context.Context) {
	log.Println("[scheduler] Ingestion cycle started")

	profiles, err := s.users.SearchProfiles(ctx)
	if err != nil {
		log.Printf("[scheduler] SearchProfiles error: %v", err)
		return
	}
	if len(profiles) == 0 {
		log.Println("[scheduler] No complete search profiles — nothing to fetch")
		return
	}

	log.Printf("[scheduler] Running fetch for %d profile(s)", len(profiles))
	for _, u := range profiles {
		if err := s.runForUser(ctx, u); err != nil {
			log.Printf("[scheduler] Fetch error for user %d: %v", u.ID, err)
		}
	}

	log.Println("[scheduler] Ingestion cycle complete")
}

// runForUser maps one profile onto search criteria, fetches and ingests.
func (s *Scheduler) runForUser(ctx context.Context, u model.User) error {
	knownIDs, err := s.jobs.StoredAPIIDs(ctx)
	if err != nil {
		return fmt.Errorf("load stored api ids: %w", err)
	}

	rawJobs, err := s.source.Search(ctx, CriteriaFor(u), knownIDs)
	if err != nil {
		return err
	}
	if len(rawJobs) == 0 {
		return nil
	}

	summary, err := s.pipeline.Ingest(ctx, rawJobs)
	if err != nil {
		return err
	}
	log.Printf("[scheduler] User %d: %d job(s) fetched, %d new job(s), %d new company(ies)",
		u.ID, len(rawJobs), summary.NewJobs, summary.NewCompanies)
	return nil
}

// CriteriaFor maps a stored profile onto source search criteria. Only an
// explicit Remote preference sets the remote flag.
func CriteriaFor(u model.User) theirstack.SearchCriteria {
	c := theirstack.SearchCriteria{
		Skills:     u.Skills,
		Experience: u.Experience,
		Locations:  u.PreferredLocations,
	}
	if u.DesiredJobRole != nil && *u.DesiredJobRole != "" {
		c.JobTitles = []string{*u.DesiredJobRole}
	}
	if u.RemotePreference != nil && *u.RemotePreference == model.RemotePreferenceRemote {
		remote := true
		c.Remote = &remote
	}
	return c
}
