// Package jobs runs the scheduled maintenance sweeps: nightly memory
// consolidation and tool-log pruning.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/service"
	"github.com/maliksaad1/ai-surrogate/internal/store"
)

// Pruning runs on a fixed slot after the default consolidation slot so
// the two sweeps do not contend for the database.
const pruneSchedule = "30 3 * * *"

// sweepTimeout bounds one whole sweep across all users.
const sweepTimeout = 5 * time.Minute

// Scheduler owns the cron runner for both sweeps.
type Scheduler struct {
	cron      *cron.Cron
	store     store.Store
	svc       *service.Service
	retention time.Duration
}

// NewScheduler wires the sweeps. schedule is a five-field cron spec for
// memory consolidation; retention bounds the tool execution log.
func NewScheduler(st store.Store, svc *service.Service, schedule string, retention time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		store:     st,
		svc:       svc,
		retention: retention,
	}
	if _, err := s.cron.AddFunc(schedule, s.consolidateAll); err != nil {
		return nil, fmt.Errorf("consolidation schedule %q: %w", schedule, err)
	}
	if _, err := s.cron.AddFunc(pruneSchedule, s.pruneToolLog); err != nil {
		return nil, fmt.Errorf("prune schedule: %w", err)
	}
	return s, nil
}

// Start begins running the schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("job scheduler started")
}

// Stop halts the schedules and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// consolidateAll runs the memory consolidation sweep for every user
// holding memories.
func (s *Scheduler) consolidateAll() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	users, err := s.store.ListMemoryUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("consolidation sweep: listing users failed")
		return
	}
	for _, userID := range users {
		res, err := s.svc.Consolidate(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("consolidation failed")
			continue
		}
		if res.Consolidated > 0 {
			log.Info().Str("user_id", userID).Int("consolidated", res.Consolidated).Msg("memories consolidated")
		}
	}
}

// pruneToolLog drops audit rows older than the retention window.
func (s *Scheduler) pruneToolLog() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := s.store.PruneToolExecutions(ctx, time.Now().UTC().Add(-s.retention))
	if err != nil {
		log.Error().Err(err).Msg("tool log pruning failed")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("tool log pruned")
	}
}
