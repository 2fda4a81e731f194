// Package scheduler runs the background cache refresh for the stats
// provider so interactive requests mostly hit warm data.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/statsapi"
)

// Scheduler manages the scheduled provider cache refresh jobs
type Scheduler struct {
	cron      *cron.Cron
	provider  statsapi.Provider
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// New creates a scheduler. Jobs run in UTC.
func New(provider statsapi.Provider, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		provider: provider,
		logger:   logger,
		jobIDs:   make([]cron.EntryID, 0),
	}
}

// ScheduleRefresh schedules a cache warm-up for the given teams. An
// empty team list refreshes every registered NBA team.
func (s *Scheduler) ScheduleRefresh(cronExpression string, teams []string, recentGames int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if len(teams) == 0 {
		teams = statsapi.NewTeamRegistry().Names()
	}
	if recentGames <= 0 {
		recentGames = statsapi.DefaultRecentGames
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.refreshTeams(ctx, teams, recentGames)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron_spec": cronExpression,
		"teams":     len(teams),
	}).Info("Scheduled provider cache refresh")

	return nil
}

// refreshTeams walks the team list and pulls efficiency plus recent form
// through the provider, letting the caching decorator absorb the results.
func (s *Scheduler) refreshTeams(ctx context.Context, teams []string, recentGames int) {
	start := time.Now()
	var failures int

	for _, team := range teams {
		if ctx.Err() != nil {
			s.logger.WithError(ctx.Err()).Warn("Cache refresh aborted")
			return
		}

		if _, err := s.provider.GetTeamEfficiency(ctx, team); err != nil {
			failures++
			s.logger.WithError(err).WithField("team", team).Warn("Efficiency refresh failed")
			continue
		}
		if _, err := s.provider.GetRecentPerformance(ctx, team, recentGames); err != nil {
			failures++
			s.logger.WithError(err).WithField("team", team).Warn("Recent form refresh failed")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"teams":       len(teams),
		"failures":    failures,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Provider cache refresh completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
