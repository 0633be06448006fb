// Package registry provides a global registry for level pack factories.
// Packs register themselves in init() functions, allowing the platform
// to discover and open packs without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Pack is the view of a level pack the platform needs for listing.
// Concrete packs carry their levels; callers that need them assert to the
// concrete type.
type Pack interface {
	// ID returns a unique identifier for this pack (e.g., "classic").
	// Used for CLI flags and best-time storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Len returns the number of levels in the pack.
	Len() int
}

// PackInfo contains metadata about a registered pack.
type PackInfo struct {
	ID    string
	Title string
}

// Factory opens a pack. It may read embedded or on-disk data, so it can fail.
type Factory func() (Pack, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a pack factory to the registry.
// Typically called from an init() function.
// Panics if a pack with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: pack %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered packs, sorted by ID.
func List() []PackInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PackInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PackInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create opens a pack by its ID.
// Returns an error if the pack ID is not registered or fails to open.
func Create(id string) (Pack, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown pack %q", id)
	}

	p, err := f()
	if err != nil {
		return nil, fmt.Errorf("registry: cannot open pack %q: %w", id, err)
	}
	return p, nil
}

// Exists checks if a pack with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
