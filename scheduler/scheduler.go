package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"lottohouse/config"
	"lottohouse/domain/interfaces"
)

// Scheduler runs the background draw maintenance jobs
type Scheduler struct {
	cron *cron.Cron
}

// New wires the cron jobs. Draws are never completed automatically:
// winning numbers are operator input, so the jobs only keep an open draw
// on the calendar and grow its jackpot.
func New(cfg *config.Config, uowFactory interfaces.UnitOfWorkFactory) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddJob("@every 5m", NewEnsureOpenDrawJob(cfg, uowFactory)); err != nil {
		return nil, fmt.Errorf("failed to schedule draw maintenance job: %w", err)
	}

	interval := time.Duration(cfg.JackpotUpdateIntervalMinutes) * time.Minute
	if _, err := c.AddJob(fmt.Sprintf("@every %s", interval), NewJackpotBumpJob(cfg, uowFactory)); err != nil {
		return nil, fmt.Errorf("failed to schedule jackpot job: %w", err)
	}

	return &Scheduler{cron: c}, nil
}

// Start begins running jobs on their schedule
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}
