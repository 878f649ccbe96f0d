// internal/game/errors.go
package game

import "errors"

// Error kinds shared by rooms and rule engines. Callers match with
// errors.Is; the wrapped message carries the human-readable detail that the
// transport reports back to the offending client. All of these are semantic
// rejections of an illegal intent, never transient faults, so nothing
// retries them.
var (
	// ErrPlayerNotFound: the referenced player is not part of the game.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrInvalidTurn: it is not that player's turn, or the player is
	// disconnected.
	ErrInvalidTurn = errors.New("not your turn")

	// ErrInvalidMove: a rule violation such as a bad card index, an
	// unplayable card, passing without drawing, or a bogus UNO call.
	ErrInvalidMove = errors.New("invalid move")

	// ErrGameAlreadyStarted: the room is already hosting a game.
	ErrGameAlreadyStarted = errors.New("game already started")

	// ErrInvalidPlayerCount: constructor-time player-count bound violation.
	ErrInvalidPlayerCount = errors.New("invalid player count")

	// ErrUnknownGameType: the registry has no factory for the given key.
	ErrUnknownGameType = errors.New("unknown game type")
)
