// internal/room/room.go
package room

import (
	"fmt"
	"sync"

	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/models"
)

// Room groups players and hosts at most one active game. All public methods
// lock the room; rule-engine access goes through WithGame so every engine
// call is serialized under the same lock.
type Room struct {
	mu      sync.Mutex
	id      string
	players []*models.Player
	game    game.Game
}

// State is a lock-free copy of a room's player roster, used for broadcasts
// and HTTP listings.
type State struct {
	RoomID        string          `json:"roomId"`
	Players       []models.Player `json:"players"`
	PlayerCount   int             `json:"playerCount"`
	HasActiveGame bool            `json:"hasActiveGame"`
}

// New creates an empty room.
func New(id string) *Room {
	return &Room{id: id}
}

// ID returns the room id.
func (r *Room) ID() string { return r.id }

// AddPlayer registers a connection under the given name. If a player with
// the same name already exists the connection takes over that identity
// (last-write-wins rebind, update not insert) and reconnected is true; the
// record is rebound in place so an active game observes the new connection
// id. Joining as a brand-new player is rejected while a game is running.
func (r *Room) AddPlayer(connID, name string) (reconnected bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.Name == name {
			p.ID = connID
			p.Disconnected = false
			return true, nil
		}
	}

	if r.game != nil {
		return false, fmt.Errorf("%w: cannot join while a game is in progress", game.ErrGameAlreadyStarted)
	}

	r.players = append(r.players, &models.Player{ID: connID, Name: name})
	return false, nil
}

// RemovePlayer detaches a connection from the room. During a game the player
// is only flagged disconnected so they can reconnect by name; once every
// player is gone the game is torn down. Outside a game the player is dropped
// outright.
func (r *Room) RemovePlayer(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game != nil {
		allGone := true
		for _, p := range r.players {
			if p.ID == connID {
				p.Disconnected = true
			}
			if !p.Disconnected {
				allGone = false
			}
		}
		if allGone {
			r.endGameLocked()
		}
		return
	}

	for i, p := range r.players {
		if p.ID == connID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

// StartGame builds a game via create and installs it. If the constructor
// fails nothing changes and the error propagates; a second start while a
// game is active fails with game.ErrGameAlreadyStarted.
func (r *Room) StartGame(create func(roomID string, players []*models.Player) (game.Game, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game != nil {
		return game.ErrGameAlreadyStarted
	}

	g, err := create(r.id, r.players)
	if err != nil {
		return err
	}
	r.game = g
	return nil
}

// WithGame runs fn with the active game under the room lock. fn returns
// endGame to atomically tear the game down before the lock is released, so
// a win and its cleanup are one step. Fails when no game is active.
func (r *Room) WithGame(fn func(g game.Game) (endGame bool, err error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.game == nil {
		return fmt.Errorf("%w: no active game", game.ErrInvalidMove)
	}

	end, err := fn(r.game)
	if end {
		r.endGameLocked()
	}
	return err
}

// EndGame tears down the active game, if any.
func (r *Room) EndGame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endGameLocked()
}

// endGameLocked drops the game and compacts the roster: disconnected players
// are removed, survivors get fresh records so the engine's borrowed pointers
// can never leak post-game writes into the lobby.
func (r *Room) endGameLocked() {
	if r.game == nil {
		return
	}
	r.game = nil

	survivors := make([]*models.Player, 0, len(r.players))
	for _, p := range r.players {
		if !p.Disconnected {
			survivors = append(survivors, &models.Player{ID: p.ID, Name: p.Name})
		}
	}
	r.players = survivors
}

// HasActiveGame reports whether a game is running.
func (r *Room) HasActiveGame() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game != nil
}

// HasPlayer reports whether the connection belongs to this room.
func (r *Room) HasPlayer(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.ID == connID {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no connected players remain.
func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if !p.Disconnected {
			return false
		}
	}
	return true
}

// State snapshots the roster for broadcasting.
func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	return State{
		RoomID:        r.id,
		Players:       players,
		PlayerCount:   len(players),
		HasActiveGame: r.game != nil,
	}
}

// PlayerIDs returns the connection ids of every player, including
// disconnected ones.
func (r *Room) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

// GameState returns the public game projection, or nil when no game is
// active.
func (r *Room) GameState() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game == nil {
		return nil
	}
	return r.game.State()
}

// PlayerPrivateState returns the player's private projection, or nil when no
// game is active.
func (r *Room) PlayerPrivateState(playerID string) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game == nil {
		return nil
	}
	return r.game.PlayerPrivateState(playerID)
}
