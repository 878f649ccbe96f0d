// internal/handlers/uno_ws.go
package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/game/uno"
	"github.com/tablekit/cardtable/internal/models"
)

// asUno narrows the room's active game to the UNO engine. Commands in the
// uno: namespace against some other game are invalid moves.
func asUno(g game.Game) (*uno.Game, error) {
	u, ok := g.(*uno.Game)
	if !ok {
		return nil, fmt.Errorf("%w: active game is not UNO", game.ErrInvalidMove)
	}
	return u, nil
}

// broadcastUnoState pushes the public snapshot to every seated player. The
// target ids come from the snapshot itself so no room lock is needed.
func (s *Server) broadcastUnoState(snap uno.State) {
	msg := stateMsg{Type: TypeStateGame, State: snap}
	for _, p := range snap.Players {
		s.sendTo(p.ID, msg)
	}
}

// broadcastUnoEvent sends an event to every seated player.
func (s *Server) broadcastUnoEvent(snap uno.State, event string, data interface{}) {
	msg := eventMsg{Type: TypeEvent, Event: event, Data: data}
	for _, p := range snap.Players {
		s.sendTo(p.ID, msg)
	}
}

// handleUnoDraw draws one card for the sender. The turn does not advance;
// the sender may follow up with a play or a pass.
func (s *Server) handleUnoDraw(connID string) {
	r, ok := s.roomOf(connID)
	if !ok {
		s.sendError(connID, "You are not in a room.")
		return
	}

	var snap uno.State
	var hand []models.Card
	err := r.WithGame(func(g game.Game) (bool, error) {
		u, err := asUno(g)
		if err != nil {
			return false, err
		}
		if _, err := u.DrawCard(connID); err != nil {
			return false, err
		}
		snap = u.Snapshot()
		hand = u.Hand(connID)
		return false, nil
	})
	if err != nil {
		s.sendError(connID, err.Error())
		return
	}

	s.broadcastUnoEvent(snap, "card-drawn", map[string]string{"playerId": connID})
	s.broadcastUnoState(snap)
	s.sendTo(connID, stateMsg{Type: TypeStateHand, State: hand})
}

// handleUnoPlay plays a card from the sender's hand. A winning play tears
// the game down atomically and announces the winner.
func (s *Server) handleUnoPlay(connID string, payload json.RawMessage) {
	var p CardPlayPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError(connID, "Invalid uno:card:play payload.")
		return
	}

	r, ok := s.roomOf(connID)
	if !ok {
		s.sendError(connID, "You are not in a room.")
		return
	}

	var snap uno.State
	var hand []models.Card
	var result uno.PlayResult
	err := r.WithGame(func(g game.Game) (bool, error) {
		u, err := asUno(g)
		if err != nil {
			return false, err
		}
		result, err = u.PlayCard(connID, p.CardIndex, p.ChosenColor)
		if err != nil {
			return false, err
		}
		snap = u.Snapshot()
		hand = u.Hand(connID)
		return result.Winner != "", nil
	})
	if err != nil {
		s.sendError(connID, err.Error())
		return
	}

	s.broadcastUnoEvent(snap, "card-played", map[string]interface{}{
		"playerId": connID,
		"card":     result.Card,
	})

	if result.Winner != "" {
		s.Logger.Infof("Game in room %s won by %q", r.ID(), result.Winner)
		s.broadcastUnoEvent(snap, "game-ended", map[string]string{"winner": result.Winner})
		s.broadcastRoomState(r)
		return
	}

	s.broadcastUnoState(snap)
	s.sendTo(connID, stateMsg{Type: TypeStateHand, State: hand})
}

// handleUnoPass forfeits the rest of the sender's turn after a draw.
func (s *Server) handleUnoPass(connID string) {
	r, ok := s.roomOf(connID)
	if !ok {
		s.sendError(connID, "You are not in a room.")
		return
	}

	var snap uno.State
	err := r.WithGame(func(g game.Game) (bool, error) {
		u, err := asUno(g)
		if err != nil {
			return false, err
		}
		if err := u.PassTurn(connID); err != nil {
			return false, err
		}
		snap = u.Snapshot()
		return false, nil
	})
	if err != nil {
		s.sendError(connID, err.Error())
		return
	}

	s.broadcastUnoEvent(snap, "turn-passed", map[string]string{"playerId": connID})
	s.broadcastUnoState(snap)
}

// handleUnoCall announces UNO for the sender.
func (s *Server) handleUnoCall(connID string) {
	r, ok := s.roomOf(connID)
	if !ok {
		s.sendError(connID, "You are not in a room.")
		return
	}

	var snap uno.State
	err := r.WithGame(func(g game.Game) (bool, error) {
		u, err := asUno(g)
		if err != nil {
			return false, err
		}
		if err := u.CallUno(connID); err != nil {
			return false, err
		}
		snap = u.Snapshot()
		return false, nil
	})
	if err != nil {
		s.sendError(connID, err.Error())
		return
	}

	s.broadcastUnoEvent(snap, "uno-called", map[string]string{"playerId": connID})
	s.broadcastUnoState(snap)
}

// handleUnoChallenge accuses another player of failing to call UNO. A
// successful catch penalizes the target with two cards.
func (s *Server) handleUnoChallenge(connID string, payload json.RawMessage) {
	var p UnoChallengePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.TargetID == "" {
		s.sendError(connID, "uno:uno:challenge requires a targetId.")
		return
	}

	r, ok := s.roomOf(connID)
	if !ok {
		s.sendError(connID, "You are not in a room.")
		return
	}

	var snap uno.State
	var targetHand []models.Card
	var caughtMsg string
	err := r.WithGame(func(g game.Game) (bool, error) {
		u, err := asUno(g)
		if err != nil {
			return false, err
		}
		caughtMsg, err = u.CatchUnoFailure(p.TargetID)
		if err != nil {
			return false, err
		}
		snap = u.Snapshot()
		targetHand = u.Hand(p.TargetID)
		return false, nil
	})
	if err != nil {
		s.sendError(connID, err.Error())
		return
	}

	s.broadcastUnoEvent(snap, "uno-caught", map[string]string{
		"targetId": p.TargetID,
		"message":  caughtMsg,
	})
	s.broadcastUnoState(snap)
	s.sendTo(p.TargetID, stateMsg{Type: TypeStateHand, State: targetHand})
}
