// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/middleware"
	"github.com/tablekit/cardtable/internal/models"
	"github.com/tablekit/cardtable/internal/room"
)

// WSHandler upgrades the connection and runs the client's read loop. Each
// connection gets a fresh opaque id; identity across reconnects is carried
// by the player name inside room:join, never by the connection.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{s.CORSOrigin},
		})
		if err != nil {
			s.Logger.Warnf("WebSocket accept error from %s: %v", r.RemoteAddr, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		connID := uuid.NewString()
		middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, connID)

		cl := &client{connID: connID, conn: c}
		s.addClient(cl)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := s.readMessages(ctx, cl)

		s.removeClient(connID)
		s.handleDisconnect(connID)
		middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, connID, readErr)

		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readMessages reads frames until the connection closes, decoding each into
// the envelope and dispatching by type. Malformed frames are reported to the
// sender and skipped; they never end the loop.
func (s *Server) readMessages(ctx context.Context, cl *client) error {
	for {
		msgType, data, err := cl.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}

		if msgType != websocket.MessageText {
			s.Logger.Warnf("Ignoring non-text frame from %s", cl.connID)
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Logger.Warnf("Invalid JSON from %s: %v", cl.connID, err)
			s.sendError(cl.connID, "Invalid JSON format.")
			continue
		}

		s.dispatch(cl.connID, msg)
	}
}

// dispatch routes one decoded command.
func (s *Server) dispatch(connID string, msg Message) {
	s.Monitor.IncCommandsReceived(string(msg.Type))
	s.Logger.Debugf("Received command '%s' from %s", msg.Type, connID)

	switch msg.Type {
	case TypePing:
		s.sendTo(connID, map[string]MessageType{"type": TypePong})
	case TypeRoomJoin:
		s.handleRoomJoin(connID, msg.Payload)
	case TypeRoomLeave:
		s.leaveRoom(connID)
	case TypeGameStart:
		s.handleGameStart(connID, msg.Payload)
	case TypeUnoCardDraw:
		s.handleUnoDraw(connID)
	case TypeUnoCardPlay:
		s.handleUnoPlay(connID, msg.Payload)
	case TypeUnoTurnPass:
		s.handleUnoPass(connID)
	case TypeUnoCall:
		s.handleUnoCall(connID)
	case TypeUnoChallenge:
		s.handleUnoChallenge(connID, msg.Payload)
	default:
		s.sendError(connID, fmt.Sprintf("Unknown command type: %s", msg.Type))
	}
}

// handleRoomJoin puts the connection into a room, switching rooms if it was
// already in another one. A disconnected player rejoining under the same
// name resumes their seat in a running game.
func (s *Server) handleRoomJoin(connID string, payload json.RawMessage) {
	var p RoomJoinPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.RoomID == "" {
		s.sendError(connID, "room:join requires a roomId.")
		return
	}

	name := strings.TrimSpace(p.PlayerName)
	if name == "" {
		name = "Player " + connID[:4]
	}

	ctx := context.Background()
	if prevRoomID, ok, err := s.Sessions.Room(ctx, connID); err != nil {
		s.Logger.Errorf("Session lookup failed for %s: %v", connID, err)
	} else if ok && prevRoomID != p.RoomID {
		s.leaveRoom(connID)
	}

	r := s.Rooms.GetOrCreate(p.RoomID)
	reconnected, err := r.AddPlayer(connID, name)
	if err != nil {
		if r.IsEmpty() {
			s.Rooms.Delete(p.RoomID)
		}
		s.sendError(connID, err.Error())
		return
	}

	if err := s.Sessions.Bind(ctx, connID, p.RoomID); err != nil {
		s.Logger.Errorf("Session bind failed for %s: %v", connID, err)
	}
	s.Monitor.SetActiveRooms(s.Rooms.Count())

	if reconnected {
		s.Logger.Infof("Player %q reconnected to room %s as %s", name, p.RoomID, connID)
		s.broadcastRoom(r, eventMsg{Type: TypeEvent, Event: "player-reconnected", Data: map[string]string{
			"playerId":   connID,
			"playerName": name,
		}})
		if state := r.GameState(); state != nil {
			s.sendTo(connID, stateMsg{Type: TypeStateGame, State: state})
			s.sendTo(connID, stateMsg{Type: TypeStateHand, State: r.PlayerPrivateState(connID)})
		}
	} else {
		s.Logger.Infof("Player %q joined room %s as %s", name, p.RoomID, connID)
		s.broadcastRoomExcept(r, connID, eventMsg{Type: TypeEvent, Event: "player-joined", Data: map[string]string{
			"playerId":   connID,
			"playerName": name,
		}})
	}

	s.broadcastRoomState(r)
}

// leaveRoom detaches the connection from its current room, if any, and tears
// the room down when it becomes empty.
func (s *Server) leaveRoom(connID string) {
	ctx := context.Background()
	roomID, ok, err := s.Sessions.Room(ctx, connID)
	if err != nil {
		s.Logger.Errorf("Session lookup failed for %s: %v", connID, err)
		return
	}
	if !ok {
		return
	}

	if err := s.Sessions.Unbind(ctx, connID); err != nil {
		s.Logger.Errorf("Session unbind failed for %s: %v", connID, err)
	}

	r, found := s.Rooms.Get(roomID)
	if !found {
		return
	}

	r.RemovePlayer(connID)
	if r.IsEmpty() {
		s.Rooms.Delete(roomID)
	} else {
		s.broadcastRoom(r, eventMsg{Type: TypeEvent, Event: "player-left", Data: map[string]string{
			"playerId": connID,
		}})
		s.broadcastRoomState(r)
		if state := r.GameState(); state != nil {
			s.broadcastRoom(r, stateMsg{Type: TypeStateGame, State: state})
		}
	}
	s.Monitor.SetActiveRooms(s.Rooms.Count())
}

// handleDisconnect runs when a connection's read loop exits. During a game
// the player stays on the roster flagged disconnected so they can rejoin by
// name; in the lobby they are simply removed.
func (s *Server) handleDisconnect(connID string) {
	ctx := context.Background()
	roomID, ok, err := s.Sessions.Room(ctx, connID)
	if err != nil {
		s.Logger.Errorf("Session lookup failed for %s: %v", connID, err)
		return
	}
	if !ok {
		return
	}

	r, found := s.Rooms.Get(roomID)
	if !found {
		s.Sessions.Unbind(ctx, connID)
		return
	}

	wasInGame := r.HasActiveGame()
	r.RemovePlayer(connID)

	if r.IsEmpty() {
		s.Rooms.Delete(roomID)
	} else {
		event := "player-left"
		if wasInGame {
			event = "player-disconnected"
		}
		s.broadcastRoom(r, eventMsg{Type: TypeEvent, Event: event, Data: map[string]string{
			"playerId": connID,
		}})
		s.broadcastRoomState(r)
		if state := r.GameState(); state != nil {
			s.broadcastRoom(r, stateMsg{Type: TypeStateGame, State: state})
		}
	}
	s.Monitor.SetActiveRooms(s.Rooms.Count())

	s.Sessions.Unbind(ctx, connID)
}

// handleGameStart creates the selected game for the sender's room and pushes
// the opening state: public state to everyone, each hand privately.
func (s *Server) handleGameStart(connID string, payload json.RawMessage) {
	var p GameStartPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			s.sendError(connID, "Invalid game:start payload.")
			return
		}
	}
	if p.GameType == "" {
		s.sendError(connID, "game:start requires a gameType.")
		return
	}

	r, ok := s.roomOf(connID)
	if !ok {
		s.sendError(connID, "You are not in a room.")
		return
	}

	if err := r.StartGame(func(roomID string, players []*models.Player) (game.Game, error) {
		return s.Registry.Create(p.GameType, roomID, players)
	}); err != nil {
		s.sendError(connID, err.Error())
		return
	}

	s.Monitor.IncGamesStarted(p.GameType)
	s.Logger.Infof("Game %q started in room %s", p.GameType, r.ID())

	s.broadcastRoom(r, eventMsg{Type: TypeEvent, Event: "game-started", Data: map[string]string{
		"gameType": p.GameType,
	}})
	s.pushGameState(r)
	s.broadcastRoomState(r)
}

// pushGameState broadcasts the public projection and sends each player their
// private hand.
func (s *Server) pushGameState(r *room.Room) {
	state := r.GameState()
	if state == nil {
		return
	}
	s.broadcastRoom(r, stateMsg{Type: TypeStateGame, State: state})
	for _, id := range r.PlayerIDs() {
		s.sendTo(id, stateMsg{Type: TypeStateHand, State: r.PlayerPrivateState(id)})
	}
}

// roomOf resolves the sender's current room through the session store.
func (s *Server) roomOf(connID string) (*room.Room, bool) {
	roomID, ok, err := s.Sessions.Room(context.Background(), connID)
	if err != nil {
		s.Logger.Errorf("Session lookup failed for %s: %v", connID, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return s.Rooms.Get(roomID)
}
