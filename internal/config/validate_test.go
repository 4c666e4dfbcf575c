package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finsched.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("FINSCHED_TEST_KEY", "sk-secret")

	path := writeConfig(t, `
version: "1"
modules:
  agent.openai:
    api_key: ${FINSCHED_TEST_KEY}
    fallback: ${FINSCHED_TEST_MISSING:-default-value}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	node := cfg.Modules["agent.openai"]
	var decoded struct {
		APIKey   string `yaml:"api_key"`
		Fallback string `yaml:"fallback"`
	}
	if err := node.Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.APIKey != "sk-secret" {
		t.Errorf("api_key = %q, want %q", decoded.APIKey, "sk-secret")
	}
	if decoded.Fallback != "default-value" {
		t.Errorf("fallback = %q, want %q", decoded.Fallback, "default-value")
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  agent.openai:
    api_key: ${FINSCHED_DEFINITELY_UNSET}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unresolved variable")
	}
	if !strings.Contains(err.Error(), "FINSCHED_DEFINITELY_UNSET") {
		t.Errorf("error should name the unresolved variable: %v", err)
	}
}

func TestLoad_ReportsEveryUnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
modules:
  agent.openai:
    api_key: ${FINSCHED_UNSET_ONE}
  notify.smtp:
    password: ${FINSCHED_UNSET_TWO}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unresolved variables")
	}
	for _, name := range []string{"FINSCHED_UNSET_ONE", "FINSCHED_UNSET_TWO"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should name %s: %v", name, err)
		}
	}
}

func TestValidate_VersionRequired(t *testing.T) {
	t.Parallel()

	cfg := &Config{Modules: map[string]yaml.Node{}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for missing version")
	}

	cfg = &Config{Version: "2", Modules: map[string]yaml.Node{}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestValidate_UnknownModule(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Version: "1",
		Modules: map[string]yaml.Node{"no.such.module": {}},
	}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for unknown module")
	}
	if !strings.Contains(err.Error(), "no.such.module") {
		t.Errorf("error should name the unknown module: %v", err)
	}
}

func TestResolve_LoadOrder(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Version: "1",
		Modules: map[string]yaml.Node{
			"gateway":      {},
			"scheduler":    {},
			"store.sqlite": {},
			"notify.smtp":  {},
			"agent.openai": {},
		},
	}

	got := Resolve(cfg)
	want := []string{"store.sqlite", "agent.openai", "notify.smtp", "scheduler", "gateway"}
	if len(got) != len(want) {
		t.Fatalf("Resolve returned %d ids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Resolve[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
