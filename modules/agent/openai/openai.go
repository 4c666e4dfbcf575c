// Package openai implements the agent.openai module: an Assistants API
// client that executes one task description per call against an
// uploaded dataset and returns the final assistant answer.
package openai

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/omarawad11/finsched/internal/agent"
	"github.com/omarawad11/finsched/internal/core"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Invoker{})
}

// Compile-time interface guards.
var (
	_ agent.Invoker     = (*Invoker)(nil)
	_ core.Module       = (*Invoker)(nil)
	_ core.Configurable = (*Invoker)(nil)
	_ core.Provisioner  = (*Invoker)(nil)
	_ core.Validator    = (*Invoker)(nil)
)

// Invoker implements agent.Invoker against the OpenAI Assistants API.
type Invoker struct {
	config Config
	logger *slog.Logger
	client *http.Client
	now    func() time.Time
}

// ModuleInfo implements core.Module.
func (inv *Invoker) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "agent.openai",
		New: func() core.Module { return &Invoker{} },
	}
}

// Configure implements core.Configurable.
func (inv *Invoker) Configure(node *yaml.Node) error {
	if err := node.Decode(&inv.config); err != nil {
		return fmt.Errorf("agent.openai: decode config: %w", err)
	}
	inv.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (inv *Invoker) Provision(ctx *core.AppContext) error {
	inv.config.defaults()
	inv.logger = ctx.Logger
	inv.client = &http.Client{Timeout: inv.config.httpTimeout()}
	inv.now = time.Now

	ctx.RegisterService("agent.invoker", agent.Invoker(inv))
	return nil
}

// Validate implements core.Validator.
func (inv *Invoker) Validate() error {
	if inv.config.APIKey == "" {
		return errors.New("agent.openai: api_key is required")
	}
	if inv.config.Model == "" {
		return errors.New("agent.openai: model is required")
	}
	if inv.config.DatasetPath == "" {
		return errors.New("agent.openai: dataset_path is required")
	}
	if _, err := os.Stat(inv.config.DatasetPath); err != nil {
		return fmt.Errorf("agent.openai: dataset_path: %w", err)
	}
	return inv.config.validateDurations()
}
