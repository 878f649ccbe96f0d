// internal/room/manager.go
package room

import "sync"

// Manager is the in-memory room index. Rooms are created on first join and
// deleted when the last connected player leaves.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room with the given id, creating it if absent.
func (m *Manager) GetOrCreate(id string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rooms[id]; ok {
		return r
	}
	r := New(id)
	m.rooms[id] = r
	return r
}

// Get returns the room with the given id, if it exists.
func (m *Manager) Get(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Delete removes the room with the given id, reporting whether it existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[id]
	delete(m.rooms, id)
	return ok
}

// CleanupEmpty sweeps out rooms with no connected players and returns how
// many were removed. Rooms are normally deleted eagerly when their last
// player leaves; the sweep catches any that slipped through.
func (m *Manager) CleanupEmpty() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, r := range m.rooms {
		if r.IsEmpty() {
			delete(m.rooms, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// States snapshots every room for HTTP listings.
func (m *Manager) States() []State {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	states := make([]State, 0, len(rooms))
	for _, r := range rooms {
		states = append(states, r.State())
	}
	return states
}
