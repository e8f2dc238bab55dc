package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DigestSender runs one digest pass over all users.
type DigestSender interface {
	SendWeeklyDigests(ctx context.Context)
}

// Scheduler runs periodic jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	svc  DigestSender
	log  *logrus.Logger
}

// NewScheduler creates a scheduler for the service's periodic jobs.
func NewScheduler(svc DigestSender, log *logrus.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), svc: svc, log: log}
}

// Start registers the digest job on the given five-field cron schedule
// and begins running it.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Info("Starting weekly digest run")
		s.svc.SendWeeklyDigests(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule digest job: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Digest scheduler started with schedule %q", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
