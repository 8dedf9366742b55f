package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	pkg "github.com/ScrpTrx-Go/GoInstaTrend/pkg/logger"
)

const jobTimeout = 30 * time.Minute

// Job is one scheduled task.
type Job func(ctx context.Context) error

// Scheduler runs recurring analysis jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  pkg.Logger
}

func New(log pkg.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

func (s *Scheduler) AddJob(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		s.log.Info("Scheduled job starting", "job", name)
		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("Scheduled job failed", "job", name, "err", err)
			return
		}
		s.log.Info("Scheduled job completed", "job", name, "duration", time.Since(start).String())
	})
	if err != nil {
		return fmt.Errorf("schedule job %s with spec %q: %w", name, spec, err)
	}

	s.log.Info("Scheduled job added", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
