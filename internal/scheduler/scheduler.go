// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of periodic work.
type Job struct {
	Name string
	Spec string
	Run  func()
}

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))))),
		logger: logger,
	}
}

// Add registers job; Spec uses the standard five-field cron syntax or
// descriptors such as "@every 1m".
func (s *Scheduler) Add(job Job) error {
	run := job.Run
	name := job.Name
	if _, err := s.cron.AddFunc(job.Spec, func() {
		s.logger.Debug("cron job started", "job", name)
		run()
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Info("cron job scheduled", "job", name, "spec", job.Spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// SweepJob periodically evicts expired entries from a cache.
func SweepJob(name, spec string, sweep func() int, logger *slog.Logger) Job {
	return Job{
		Name: name,
		Spec: spec,
		Run: func() {
			if n := sweep(); n > 0 {
				logger.Debug("cache swept", "cache", name, "removed", n)
			}
		},
	}
}
