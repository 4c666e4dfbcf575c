package core

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// registry holds every compiled-in module. Modules register themselves
// from init() via the blank imports in cmd/finsched; lookups happen
// during config validation and again when the app loads modules.
var registry = struct {
	mu      sync.RWMutex
	entries map[ModuleID]ModuleInfo
}{entries: make(map[ModuleID]ModuleInfo)}

// RegisterModule records a compiled-in module under its ID. A duplicate
// or malformed registration is a programming error and panics so it
// surfaces the moment the binary starts.
func RegisterModule(m Module) {
	info := m.ModuleInfo()
	if info.ID == "" {
		panic("core: module registered with empty ID")
	}
	if info.New == nil {
		panic(fmt.Sprintf("core: module %s has no factory", info.ID))
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, dup := registry.entries[info.ID]; dup {
		panic(fmt.Sprintf("core: module %s registered twice", info.ID))
	}
	registry.entries[info.ID] = info
}

// GetModule looks up a registered module by ID.
func GetModule(id string) (ModuleInfo, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	info, ok := registry.entries[ModuleID(id)]
	return info, ok
}

// GetModules returns every registered module, sorted by ID.
func GetModules() []ModuleInfo {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	all := make([]ModuleInfo, 0, len(registry.entries))
	for _, info := range registry.entries {
		all = append(all, info)
	}
	slices.SortFunc(all, func(a, b ModuleInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return all
}

// resetRegistry clears all registrations between tests.
func resetRegistry() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.entries = make(map[ModuleID]ModuleInfo)
}
