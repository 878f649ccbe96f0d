// internal/handlers/messages.go
package handlers

import (
	"encoding/json"

	"github.com/tablekit/cardtable/internal/models"
)

// MessageType tags every WebSocket frame in both directions. Game-specific
// commands are namespaced by the game key ("uno:...") so new engines can add
// commands without colliding.
type MessageType string

// Inbound command types.
const (
	TypeRoomJoin  MessageType = "room:join"
	TypeRoomLeave MessageType = "room:leave"
	TypeGameStart MessageType = "game:start"
	TypePing      MessageType = "ping"

	TypeUnoCardDraw  MessageType = "uno:card:draw"
	TypeUnoCardPlay  MessageType = "uno:card:play"
	TypeUnoTurnPass  MessageType = "uno:turn:pass"
	TypeUnoCall      MessageType = "uno:uno:call"
	TypeUnoChallenge MessageType = "uno:uno:challenge"
)

// Outbound message types.
const (
	TypePong      MessageType = "pong"
	TypeError     MessageType = "error"
	TypeStateRoom MessageType = "state:room"
	TypeStateGame MessageType = "state:game"
	TypeStateHand MessageType = "state:hand"
	TypeEvent     MessageType = "event"
)

// Message is the inbound frame envelope. Payload stays raw until the
// command's handler decodes it into its own typed struct, so a bad payload
// for one command never disturbs the read loop.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomJoinPayload carries a join or reconnect request. PlayerName is the
// stable reconnect identity; an empty name gets a generated fallback.
type RoomJoinPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName,omitempty"`
}

// GameStartPayload selects which registered game to start.
type GameStartPayload struct {
	GameType string `json:"gameType"`
}

// CardPlayPayload plays the card at CardIndex in the sender's hand.
// ChosenColor is required for wild-type cards and ignored otherwise.
type CardPlayPayload struct {
	CardIndex   int              `json:"cardIndex"`
	ChosenColor models.CardColor `json:"chosenColor,omitempty"`
}

// UnoChallengePayload accuses TargetID of failing to call UNO.
type UnoChallengePayload struct {
	TargetID string `json:"targetId"`
}

// stateMsg wraps a full-state push (room, game, or hand).
type stateMsg struct {
	Type  MessageType `json:"type"`
	State interface{} `json:"state"`
}

// eventMsg announces a discrete occurrence such as a join, a play, or a win.
type eventMsg struct {
	Type  MessageType `json:"type"`
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// errorMsg reports a rejected command back to its sender only.
type errorMsg struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
