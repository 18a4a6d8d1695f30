package backoffice

import (
	"fmt"
	"sort"
	"sync"
)

// ScreenDefinition describes one settings screen: its stable code, display
// metadata, and the JSON schema its payload must satisfy.
type ScreenDefinition struct {
	Code        string         `json:"code" yaml:"code"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ScreenHook lets packages register screens during init().
type ScreenHook func(reg *ScreenRegistry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ScreenHook
)

// RegisterScreenHook registers a hook executed against new registries.
func RegisterScreenHook(h ScreenHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// ScreenRegistry stores settings-screen definitions discoverable via hooks or
// manifests.
type ScreenRegistry struct {
	mu          sync.RWMutex
	definitions map[string]ScreenDefinition
}

// NewScreenRegistry builds a registry seeded with the built-in screens and
// applies global hooks.
func NewScreenRegistry() *ScreenRegistry {
	reg := &ScreenRegistry{definitions: map[string]ScreenDefinition{}}
	for _, def := range DefaultScreenDefinitions() {
		_ = reg.Register(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered screen hooks.
func (r *ScreenRegistry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register stores screen metadata, replacing any previous definition with
// the same code.
func (r *ScreenRegistry) Register(def ScreenDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("backoffice: screen definition code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// Definition fetches a screen definition by code.
func (r *ScreenRegistry) Definition(code string) (ScreenDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Definitions returns all registered screens sorted by code.
func (r *ScreenRegistry) Definitions() []ScreenDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ScreenDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}
