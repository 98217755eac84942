// Package registry provides a global registry for ad provider factories.
// Providers register themselves in init() functions, allowing the platform
// to pick one by name (--ads) without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
)

// Options configures a provider instance.
type Options struct {
	Duration time.Duration // Simulated playback length
	Seed     int64         // RNG seed for providers with random outcomes
	FailRate float64       // Probability in [0, 1] that a playback fails
}

// ProviderInfo contains metadata about a registered provider.
type ProviderInfo struct {
	Name        string
	Description string
}

// Factory creates a new ad player.
type Factory func(opts Options) continuation.AdPlayer

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a provider factory to the registry.
// Typically called from an init() function.
// Panics if a provider with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: ad provider %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered providers, sorted by name.
func List() []ProviderInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ProviderInfo, 0, len(factories))
	for name := range factories {
		result = append(result, ProviderInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a provider by name.
// Returns an error if the name is not registered.
func Create(name string, opts Options) (continuation.AdPlayer, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown ad provider %q", name)
	}

	return f(opts), nil
}

// Exists checks if a provider with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
