// internal/handlers/http_test.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/cardtable/internal/cache"
	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/game/uno"
	"github.com/tablekit/cardtable/internal/models"
	"github.com/tablekit/cardtable/internal/monitor"
	"github.com/tablekit/cardtable/internal/room"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := game.NewRegistry()
	uno.Register(registry)

	return NewServer(logger, room.NewManager(), registry, cache.NewMemorySessions(), monitor.New("cardtable_test"), "*")
}

func getJSON(t *testing.T, h http.Handler, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestListRooms(t *testing.T) {
	s := newTestServer(t)
	api := s.APIRouter()

	code, body := getJSON(t, api, "/rooms")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["count"])

	r := s.Rooms.GetOrCreate("room-1")
	_, err := r.AddPlayer("conn-1", "alice")
	require.NoError(t, err)

	code, body = getJSON(t, api, "/rooms")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])
}

func TestRoomDetail(t *testing.T) {
	s := newTestServer(t)
	api := s.APIRouter()

	r := s.Rooms.GetOrCreate("room-1")
	_, err := r.AddPlayer("conn-1", "alice")
	require.NoError(t, err)

	code, body := getJSON(t, api, "/rooms/room-1")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "room-1", data["roomId"])
	assert.Equal(t, float64(1), data["playerCount"])
	assert.Equal(t, false, data["hasActiveGame"])

	code, body = getJSON(t, api, "/rooms/missing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "missing")
}

func TestGamesCatalog(t *testing.T) {
	s := newTestServer(t)
	api := s.APIRouter()

	code, body := getJSON(t, api, "/games")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = getJSON(t, api, "/games/uno")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "uno", data["name"])
	assert.Equal(t, "UNO", data["displayName"])
	assert.Equal(t, float64(2), data["minPlayers"])
	assert.Equal(t, float64(10), data["maxPlayers"])

	code, body = getJSON(t, api, "/games/poker")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	api := s.APIRouter()

	r := s.Rooms.GetOrCreate("room-1")
	for _, p := range []struct{ id, name string }{{"conn-1", "alice"}, {"conn-2", "bob"}} {
		_, err := r.AddPlayer(p.id, p.name)
		require.NoError(t, err)
	}
	require.NoError(t, r.StartGame(func(roomID string, players []*models.Player) (game.Game, error) {
		return s.Registry.Create("uno", roomID, players)
	}))
	s.Rooms.GetOrCreate("room-2")

	code, body := getJSON(t, api, "/stats")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["totalRooms"])
	assert.Equal(t, float64(1), data["activeGames"])
	assert.Equal(t, float64(1), data["lobbies"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	code, body := getJSON(t, s.HealthHandler(), "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotNil(t, body["memory"])
}
