package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholders in finsched.yaml take the form ${NAME} or
// ${NAME:-fallback}. They are resolved against the environment on the
// raw bytes, before YAML parsing, so credentials such as the agent API
// key and SMTP password never have to live in the file itself.
var placeholder = regexp.MustCompile(`\$\{(\w+)(?::-([^}]*))?\}`)

// Load reads the finsched configuration at path, resolves environment
// placeholders, and decodes the result. Module sections stay as raw
// YAML nodes; each module decodes its own section during Configure.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	resolved, missing := resolvePlaceholders(raw)
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: %s: unresolved variables: %s",
			path, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := yaml.Unmarshal(resolved, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// resolvePlaceholders substitutes every ${NAME} occurrence and returns
// the names that had neither an environment value nor a fallback.
func resolvePlaceholders(raw []byte) ([]byte, []string) {
	var missing []string

	out := placeholder.ReplaceAllFunc(raw, func(match []byte) []byte {
		groups := placeholder.FindSubmatch(match)
		name := string(groups[1])

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if groups[2] != nil {
			return groups[2]
		}

		missing = append(missing, name)
		return match
	})

	return out, missing
}
