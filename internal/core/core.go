package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// stopTimeout bounds the whole shutdown pass. The gateway drains its
// listener and the scheduler waits for an in-flight scan inside this
// window.
const stopTimeout = 30 * time.Second

// App wires the configured modules together and drives their lifecycle.
// Modules load in the order config.Resolve dictates, so the stores come
// up before the scheduler and gateway that depend on them, and stop in
// the reverse order.
type App struct {
	ctx    *AppContext
	loaded []loadedModule
	logger *slog.Logger
}

type loadedModule struct {
	id  ModuleID
	mod Module
}

func NewApp(ctx *AppContext) *App {
	return &App{
		ctx:    ctx,
		logger: ctx.Logger.With("component", "core"),
	}
}

// LoadModules instantiates, provisions, and validates each module in
// order. On failure the modules loaded so far are stopped again: a store
// that opened its database during Provision must not leak the handle
// just because a later module's config was bad.
func (a *App) LoadModules(ids []string) error {
	for _, id := range ids {
		mod, err := a.ctx.LoadModule(id)
		if err != nil {
			a.Stop()
			return fmt.Errorf("loading module %s: %w", id, err)
		}
		a.loaded = append(a.loaded, loadedModule{id: mod.ModuleInfo().ID, mod: mod})
		a.logger.Info("module loaded", "module", id)
	}
	return nil
}

// Start starts every loaded module that implements Starter, in load
// order. A failed start rolls the app back to fully stopped before
// returning.
func (a *App) Start() error {
	for _, lm := range a.loaded {
		s, ok := lm.mod.(Starter)
		if !ok {
			continue
		}
		a.logger.Info("starting module", "module", string(lm.id))
		if err := s.Start(); err != nil {
			a.Stop()
			return fmt.Errorf("starting module %s: %w", lm.id, err)
		}
	}
	a.logger.Info("all modules started")
	return nil
}

// Stop stops every loaded module in reverse load order, whether or not
// it was started. Module Stop implementations tolerate being called on
// a never-started or already-stopped module, which keeps Stop safe to
// call more than once.
func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	for i := len(a.loaded) - 1; i >= 0; i-- {
		lm := a.loaded[i]
		s, ok := lm.mod.(Stopper)
		if !ok {
			continue
		}
		a.logger.Info("stopping module", "module", string(lm.id))
		if err := s.Stop(ctx); err != nil {
			a.logger.Error("module stop error", "module", string(lm.id), "error", err)
		}
	}
	a.loaded = nil
}

// Run starts all modules and blocks until SIGINT or SIGTERM, then stops
// them.
func (a *App) Run() error {
	if err := a.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	a.logger.Info("shutdown signal received", "signal", sig.String())

	a.Stop()
	a.logger.Info("shutdown complete")
	return nil
}
