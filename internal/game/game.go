// internal/game/game.go
package game

import "github.com/tablekit/cardtable/internal/models"

// Game is the capability surface a room requires from any rule engine.
// Implementations own all game-specific state (hands, turn cursor, piles)
// and borrow the room's player list for its room-level fields. All methods
// are called with the room's lock held; engines expose no concurrency of
// their own.
type Game interface {
	// RoomID returns the id of the room hosting this game instance.
	RoomID() string

	// State returns the public projection of the game, safe to broadcast
	// to every player in the room (other players' hands reduced to counts).
	State() interface{}

	// PlayerPrivateState returns the projection visible only to the given
	// player, such as their hand. Unknown players get an empty view, not
	// an error.
	PlayerPrivateState(playerID string) interface{}
}

// Metadata describes a registered game type: what to call it in catalogs and
// the player-count bounds the engine will enforce at construction.
type Metadata struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	MinPlayers  int    `json:"minPlayers"`
	MaxPlayers  int    `json:"maxPlayers"`
	Description string `json:"description"`
}

// Factory constructs a rule engine bound to a room. The players slice is
// borrowed, not copied: the engine sees room-level updates (reconnects,
// disconnect flags) in place, and the room invalidates the view when the
// game ends. Construction may fail, e.g. on a player-count violation.
type Factory func(roomID string, players []*models.Player) (Game, error)
