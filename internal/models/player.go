// internal/models/player.go
package models

// Player holds the room-level identity of a participant. ID is the opaque
// identifier of the player's current connection and is rebound on every
// reconnect; Name is the stable identity used to recognize a returning
// player. Game-specific state (hands, flags) lives with the rule engine,
// never here, so a player record is always safe to carry between games.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Disconnected bool   `json:"disconnected"`
}
