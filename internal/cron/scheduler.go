package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// registeredJob pairs a job with the mutex that keeps its ticks from
// overlapping. The prune job can outlast a minute when the run table
// has grown large, so a slow tick must not stack a second one on top.
type registeredJob struct {
	job  Job
	busy sync.Mutex
}

// Scheduler ticks maintenance jobs on five-field cron expressions.
// Register every job before Start; registration after Start is not
// picked up.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	order  []string
	byName map[string]*registeredJob
	logger *slog.Logger
	cancel context.CancelFunc
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		byName: make(map[string]*registeredJob),
		logger: logger,
	}
}

// RegisterJob adds a job under its name. Names identify jobs in logs,
// so two jobs sharing one is an error.
func (s *Scheduler) RegisterJob(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := j.Name()
	if _, exists := s.byName[name]; exists {
		return fmt.Errorf("cron: duplicate job name %q", name)
	}
	s.byName[name] = &registeredJob{job: j}
	s.order = append(s.order, name)
	return nil
}

// Start parses every schedule and begins ticking. One bad expression
// fails the whole start, which maps it back to the config that carried
// the expression instead of silently dropping the job.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	s.cron = cron.New(cron.WithParser(parser))

	for _, name := range s.order {
		rj := s.byName[name]
		name := name

		_, err := s.cron.AddFunc(rj.job.Schedule(), func() {
			if !rj.busy.TryLock() {
				s.logger.Warn("cron: previous tick still running, skipping", "job", name)
				return
			}
			defer rj.busy.Unlock()

			if err := rj.job.Run(ctx); err != nil {
				s.logger.Error("cron: job failed", "job", name, "error", err)
				return
			}
			s.logger.Debug("cron: job completed", "job", name)
		})
		if err != nil {
			cancel()
			return fmt.Errorf("cron: invalid schedule for job %q: %w", name, err)
		}
	}

	s.cron.Start()
	s.logger.Info("cron: scheduler started", "jobs", len(s.order))
	return nil
}

// Stop cancels the job context and waits for in-flight ticks to drain.
// Calling Stop on a never-started scheduler is a no-op.
func (s *Scheduler) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info("cron: scheduler stopped")
	}
	return nil
}
