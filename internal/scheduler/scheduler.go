package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"portfolio-access-backend/internal/jobs"
	"portfolio-access-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler running the cleanup sweep on the given
// cron spec (six fields, seconds first).
func NewScheduler(jobRunner *jobs.JobRunner, sweepSpec string) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs(sweepSpec)
	return s
}

func (s *Scheduler) registerJobs(sweepSpec string) {
	_, err := s.cron.AddFunc(sweepSpec, s.jobs.RunSweep)
	if err != nil {
		logger.Error("Failed to register cleanup sweep job", "error", err, "spec", sweepSpec)
		return
	}

	logger.Info("Cleanup sweep registered", "spec", sweepSpec)
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
