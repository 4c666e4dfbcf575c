package config

import (
	"slices"
	"strings"
)

// loadOrder pins well-known modules to an explicit position so that
// service providers load before their consumers: the store first, then
// the agent backend and notification channel, then the scheduler, and
// the ops gateway last.
var loadOrder = map[string]int{
	"store.sqlite": 0,
	"agent.openai": 1,
	"notify.smtp":  2,
	"scheduler":    3,
	"maintenance":  4,
	"gateway":      5,
}

// Resolve returns the module IDs from the configuration in load order.
// Unknown IDs sort after the pinned ones, alphabetically, so loading is
// deterministic either way.
func Resolve(cfg *Config) []string {
	ids := make([]string, 0, len(cfg.Modules))
	for id := range cfg.Modules {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		ra, oka := loadOrder[a]
		rb, okb := loadOrder[b]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return ids
}
