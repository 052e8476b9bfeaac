package llm

import (
	"fmt"
	"sync"
)

// Factory constructs a Generator from provider-specific configuration.
type Factory func(config map[string]any) (Generator, error)

type registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

var defaultRegistry = &registry{factories: make(map[string]Factory)}

// RegisterFactory registers a provider factory under a name. Providers call
// this from init so that configuration can select them by name.
func RegisterFactory(name string, factory Factory) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.factories[name] = factory
}

// New constructs the named provider with the given configuration.
func New(name string, config map[string]any) (Generator, error) {
	defaultRegistry.mu.RLock()
	factory, ok := defaultRegistry.factories[name]
	defaultRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("llm provider %q not registered", name)
	}
	return factory(config)
}

// Providers returns the registered provider names.
func Providers() []string {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	names := make([]string, 0, len(defaultRegistry.factories))
	for name := range defaultRegistry.factories {
		names = append(names, name)
	}
	return names
}

func configString(config map[string]any, key string) string {
	if v, ok := config[key].(string); ok {
		return v
	}
	return ""
}
