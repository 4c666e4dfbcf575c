package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/omarawad11/finsched/internal/core"
	"github.com/omarawad11/finsched/internal/store"
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

// Config holds the maintenance module configuration.
type Config struct {
	// Retention is how long finished run-history rows are kept.
	// Defaults to 720h (30 days).
	Retention string `yaml:"retention"`

	// PruneSchedule is the cron expression for the prune job.
	// Defaults to "0 3 * * *".
	PruneSchedule string `yaml:"prune_schedule"`
}

func (c *Config) defaults() {
	if c.Retention == "" {
		c.Retention = "720h"
	}
}

func (c *Config) retention() time.Duration {
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

// Module schedules background maintenance jobs. It currently owns a
// single nightly job that prunes old run-history rows.
type Module struct {
	config    Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "maintenance",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("maintenance: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	svc, ok := ctx.Service("store.runs")
	if !ok {
		return errors.New("maintenance: store.runs service not registered (is store.sqlite configured?)")
	}
	runs, ok := svc.(store.RunLog)
	if !ok {
		return errors.New("maintenance: store.runs service has wrong type")
	}

	m.scheduler = NewScheduler(ctx.Logger)
	return m.scheduler.RegisterJob(&RunHistoryPruneJob{
		Runs:         runs,
		Retention:    m.config.retention(),
		Logger:       ctx.Logger,
		ScheduleExpr: m.config.PruneSchedule,
	})
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if _, err := time.ParseDuration(m.config.Retention); err != nil {
		return fmt.Errorf("maintenance: invalid retention %q: %w", m.config.Retention, err)
	}
	if m.config.retention() <= 0 {
		return fmt.Errorf("maintenance: retention must be positive, got %s", m.config.Retention)
	}
	return nil
}

// Start implements core.Starter.
func (m *Module) Start() error {
	return m.scheduler.Start()
}

// Stop implements core.Stopper.
func (m *Module) Stop(ctx context.Context) error {
	if m.scheduler == nil {
		return nil
	}
	return m.scheduler.Stop(ctx)
}
