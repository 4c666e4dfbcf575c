// Package scheduler implements the scheduler module: a fixed-interval
// scan loop that detects due tasks, executes each through the agent
// backend, and advances recurrence timestamps.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/omarawad11/finsched/internal/agent"
	"github.com/omarawad11/finsched/internal/core"
	"github.com/omarawad11/finsched/internal/notify"
	"github.com/omarawad11/finsched/internal/store"
	"github.com/omarawad11/finsched/internal/task"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Module       = (*Module)(nil)
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Starter      = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Config holds the scheduler module configuration.
type Config struct {
	// ScanInterval is the pause between scan cycles. Defaults to 60s.
	ScanInterval string `yaml:"scan_interval"`
}

func (c *Config) defaults() {
	if c.ScanInterval == "" {
		c.ScanInterval = "60s"
	}
}

func (c *Config) scanInterval() time.Duration {
	d, err := time.ParseDuration(c.ScanInterval)
	if err != nil {
		return time.Minute
	}
	return d
}

// Module is the scan-loop module. It resolves its collaborators from
// the service registry during provisioning, so the store, agent, and
// notification modules must load before it.
type Module struct {
	config   Config
	logger   *slog.Logger
	tasks    store.TaskStore
	executor *Executor
	stats    Stats
	now      func() time.Time // injectable for testing

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "scheduler",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("scheduler: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	svc, ok := ctx.Service("store.tasks")
	if !ok {
		return errors.New("scheduler: store.tasks service not registered (is store.sqlite configured?)")
	}
	tasks, ok := svc.(store.TaskStore)
	if !ok {
		return errors.New("scheduler: store.tasks service has wrong type")
	}
	m.tasks = tasks

	svc, ok = ctx.Service("agent.invoker")
	if !ok {
		return errors.New("scheduler: agent.invoker service not registered (is agent.openai configured?)")
	}
	invoker, ok := svc.(agent.Invoker)
	if !ok {
		return errors.New("scheduler: agent.invoker service has wrong type")
	}

	svc, ok = ctx.Service("notify.channel")
	if !ok {
		return errors.New("scheduler: notify.channel service not registered (is notify.smtp configured?)")
	}
	channel, ok := svc.(notify.Channel)
	if !ok {
		return errors.New("scheduler: notify.channel service has wrong type")
	}

	// Run history is optional; the store module registers it when present.
	var runs store.RunLog
	if svc, ok := ctx.Service("store.runs"); ok {
		runs, _ = svc.(store.RunLog)
	}

	fanout := notify.NewFanout(tasks, channel, ctx.Logger)
	m.executor = NewExecutor(invoker, fanout, runs, ctx.Logger)

	ctx.RegisterService("scheduler.stats", &m.stats)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if _, err := time.ParseDuration(m.config.ScanInterval); err != nil {
		return fmt.Errorf("scheduler: invalid scan_interval %q: %w", m.config.ScanInterval, err)
	}
	if m.config.scanInterval() <= 0 {
		return fmt.Errorf("scheduler: scan_interval must be positive, got %s", m.config.ScanInterval)
	}
	return nil
}

// Start implements core.Starter.
func (m *Module) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return errors.New("scheduler: already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(ctx)

	m.logger.Info("scheduler started", "scan_interval", m.config.ScanInterval)
	return nil
}

// Stop implements core.Stopper. It waits for an in-flight scan to
// observe cancellation and wind down.
func (m *Module) Stop(ctx context.Context) error {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler: stop: %w", ctx.Err())
	}
}

// run scans immediately, then on every tick until cancelled.
func (m *Module) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.config.scanInterval())
	defer ticker.Stop()

	for {
		m.scan(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// scan is one cycle: query due tasks, execute each with failures
// isolated, advance every attempted task's next_run unconditionally.
func (m *Module) scan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	clock := m.now
	if clock == nil {
		clock = time.Now
	}
	started := clock()
	now := started.UTC()

	due, err := m.tasks.DueTasks(ctx, now)
	if err != nil {
		// Store failure aborts the whole cycle; the next scan
		// starts from scratch.
		scanFailures.Inc()
		m.stats.recordScanFailure()
		m.logger.Error("scan aborted: due-task query failed", "error", err)
		return
	}

	dueTasks.Set(float64(len(due)))
	if len(due) > 0 {
		m.logger.Info("scan found due tasks", "count", len(due))
	}

	for _, t := range due {
		if ctx.Err() != nil {
			return
		}

		if err := m.executor.Execute(ctx, t); err != nil {
			// Task-local failure: recorded, never propagated past
			// the task boundary.
			m.stats.recordTaskFailure()
			m.logger.Error("task execution failed", "task", t.ID, "error", err)
		} else {
			m.stats.recordTaskSuccess()
		}

		// Advance even after failure so a permanently failing task
		// cannot hot-loop. An unrecognized frequency keeps next_run
		// at now, making the task due again next scan.
		next := task.NextRun(t.Frequency, now)
		if next.Equal(now) {
			m.logger.Warn("unrecognized frequency, task due again next scan",
				"task", t.ID, "frequency", t.Frequency)
		}
		if err := m.tasks.AdvanceNextRun(ctx, t.ID, next); err != nil {
			m.logger.Error("failed to advance next_run", "task", t.ID, "error", err)
		}
	}

	scansTotal.Inc()
	scanDuration.Observe(time.Since(started).Seconds())
	m.stats.recordScan(now, len(due))
}
