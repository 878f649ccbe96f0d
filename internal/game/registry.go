// internal/game/registry.go
package game

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tablekit/cardtable/internal/models"
)

// Registry maps game-type keys to constructor factories and their metadata.
// Rooms stay ignorant of concrete engines: adding a game is a Register call
// at startup, never a change to the room layer.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	metadata  map[string]Metadata
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		metadata:  make(map[string]Metadata),
	}
}

// Register adds a game type. Re-registering a key replaces the previous
// entry; registration is expected to happen once at startup.
func (r *Registry) Register(name string, meta Metadata, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	r.metadata[name] = meta
}

// Create instantiates the engine registered under gameType. A registry miss
// fails with ErrUnknownGameType; a failure inside the constructor itself
// (such as ErrInvalidPlayerCount) propagates unwrapped.
func (r *Registry) Create(gameType, roomID string, players []*models.Player) (Game, error) {
	r.mu.RLock()
	factory, ok := r.factories[gameType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownGameType, gameType, strings.Join(r.names(), ", "))
	}
	return factory(roomID, players)
}

// Metadata returns the metadata registered for gameType.
func (r *Registry) Metadata(gameType string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.metadata[gameType]
	return meta, ok
}

// All returns metadata for every registered game, sorted by name so catalog
// listings are stable.
func (r *Registry) All() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Metadata, 0, len(r.metadata))
	for _, meta := range r.metadata {
		all = append(all, meta)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// IsRegistered reports whether gameType has a factory.
func (r *Registry) IsRegistered(gameType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[gameType]
	return ok
}

func (r *Registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
