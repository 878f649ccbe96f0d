// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tablekit/cardtable/internal/cache"
	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/monitor"
	"github.com/tablekit/cardtable/internal/room"
)

// writeTimeout bounds every outbound WebSocket write so one stalled client
// cannot back up a broadcast.
const writeTimeout = 3 * time.Second

// client is one live WebSocket connection.
type client struct {
	connID string
	conn   *websocket.Conn
}

// Server owns the connection registry and ties the transport to rooms, the
// game registry, sessions and metrics. One instance serves all rooms.
type Server struct {
	Logger   *logrus.Logger
	Rooms    *room.Manager
	Registry *game.Registry
	Sessions cache.Sessions
	Monitor  *monitor.Monitor

	CORSOrigin string

	mu      sync.RWMutex
	clients map[string]*client
}

// NewServer wires a server from its collaborators.
func NewServer(logger *logrus.Logger, rooms *room.Manager, registry *game.Registry, sessions cache.Sessions, mon *monitor.Monitor, corsOrigin string) *Server {
	return &Server{
		Logger:     logger,
		Rooms:      rooms,
		Registry:   registry,
		Sessions:   sessions,
		Monitor:    mon,
		CORSOrigin: corsOrigin,
		clients:    make(map[string]*client),
	}
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c.connID] = c
	n := len(s.clients)
	s.mu.Unlock()
	s.Monitor.SetConnectedPlayers(n)
}

func (s *Server) removeClient(connID string) {
	s.mu.Lock()
	delete(s.clients, connID)
	n := len(s.clients)
	s.mu.Unlock()
	s.Monitor.SetConnectedPlayers(n)
}

func (s *Server) lookupClient(connID string) (*client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[connID]
	return c, ok
}

// sendTo marshals message and writes it to one connection asynchronously.
// A disconnected or unknown target is silently skipped; the target's own
// read loop handles the closure.
func (s *Server) sendTo(connID string, message interface{}) {
	c, ok := s.lookupClient(connID)
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		s.Logger.Errorf("Failed to marshal message for %s: %v", connID, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
			s.Logger.Warnf("Failed to write to %s: %v", connID, err)
		}
	}()
}

// sendError reports a rejected command back to its sender.
func (s *Server) sendError(connID string, message string) {
	s.sendTo(connID, errorMsg{Type: TypeError, Message: message})
}

// broadcastTo sends message to every listed connection.
func (s *Server) broadcastTo(connIDs []string, message interface{}) {
	for _, id := range connIDs {
		s.sendTo(id, message)
	}
}

// broadcastRoom sends message to every player of the room.
func (s *Server) broadcastRoom(r *room.Room, message interface{}) {
	s.broadcastTo(r.PlayerIDs(), message)
}

// broadcastRoomExcept sends message to every player of the room but one.
func (s *Server) broadcastRoomExcept(r *room.Room, exceptID string, message interface{}) {
	for _, id := range r.PlayerIDs() {
		if id != exceptID {
			s.sendTo(id, message)
		}
	}
}

// broadcastRoomState pushes the room roster to all players.
func (s *Server) broadcastRoomState(r *room.Room) {
	s.broadcastRoom(r, stateMsg{Type: TypeStateRoom, State: r.State()})
}
