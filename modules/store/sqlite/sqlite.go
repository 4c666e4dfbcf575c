// Package sqlite implements the store.sqlite module: a persistent
// SQLite-backed task store holding scheduled tasks, role→recipient
// bindings, and execution history. It uses modernc.org/sqlite (pure Go,
// no CGO) with WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/omarawad11/finsched/internal/core"
	"github.com/omarawad11/finsched/internal/store"
	"gopkg.in/yaml.v3"

	_ "modernc.org/sqlite" // SQLite driver registration
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ store.TaskStore   = (*taskStore)(nil)
	_ store.RunLog      = (*taskStore)(nil)
	_ store.Admin       = (*taskStore)(nil)
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module wires a SQLite database into the service registry as
// "store.tasks", "store.runs", and "store.admin".
type Module struct {
	config Config
	db     *sql.DB
	logger *slog.Logger
	tasks  *taskStore
}

// taskStore implements the store contracts backed by SQLite.
type taskStore struct {
	db *sql.DB
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "store.sqlite",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("sqlite: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	if m.config.Path == "" {
		m.config.Path = filepath.Join(ctx.DataDir, defaultDBFile)
	}

	db, err := Open(m.config)
	if err != nil {
		return err
	}

	m.db = db
	m.tasks = &taskStore{db: db}

	ctx.RegisterService("store.tasks", store.TaskStore(m.tasks))
	ctx.RegisterService("store.runs", store.RunLog(m.tasks))
	ctx.RegisterService("store.admin", store.Admin(m.tasks))

	m.logger.Info("sqlite task store provisioned",
		"path", m.config.Path,
		"wal", m.config.walEnabled(),
	)

	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if err := m.config.validate(); err != nil {
		return err
	}
	if err := m.db.PingContext(context.TODO()); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// Stop implements core.Stopper.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("sqlite task store stopping")
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// Open opens (creating if needed) the task database described by cfg
// and migrates its schema. The caller owns the returned *sql.DB.
//
// The database uses a single connection (SQLite serialises writes) so
// PRAGMAs apply consistently.
func Open(cfg Config) (*sql.DB, error) {
	cfg.defaults()

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}

	db.SetMaxOpenConns(1)

	ctx := context.TODO()

	if cfg.walEnabled() {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: set busy_timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// OpenStore opens the task database and returns the combined store
// implementation. Used by the admin CLI, which runs outside the module
// lifecycle.
func OpenStore(cfg Config) (store.Admin, *sql.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return &taskStore{db: db}, db, nil
}
