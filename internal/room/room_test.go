// internal/room/room_test.go
package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/models"
)

// fakeGame records the player slice it was built over so tests can observe
// the borrowed-roster contract.
type fakeGame struct {
	roomID  string
	players []*models.Player
}

func (f *fakeGame) RoomID() string                                 { return f.roomID }
func (f *fakeGame) State() interface{}                             { return "public" }
func (f *fakeGame) PlayerPrivateState(playerID string) interface{} { return "private:" + playerID }

func fakeFactory(roomID string, players []*models.Player) (game.Game, error) {
	return &fakeGame{roomID: roomID, players: players}, nil
}

func joinedRoom(t *testing.T, names ...string) *Room {
	t.Helper()
	r := New("room-1")
	for i, name := range names {
		_, err := r.AddPlayer("conn-"+name, name)
		require.NoError(t, err, "join %d", i)
	}
	return r
}

func TestAddPlayer(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")

	state := r.State()
	assert.Equal(t, "room-1", state.RoomID)
	assert.Equal(t, 2, state.PlayerCount)
	assert.False(t, state.HasActiveGame)
	assert.True(t, r.HasPlayer("conn-alice"))
}

func TestAddPlayerRebindsByName(t *testing.T) {
	r := joinedRoom(t, "alice")

	// Same name, new connection: last-write-wins rebind, never a duplicate.
	reconnected, err := r.AddPlayer("conn-other", "alice")
	require.NoError(t, err)
	assert.True(t, reconnected)
	assert.Equal(t, 1, r.State().PlayerCount)
	assert.True(t, r.HasPlayer("conn-other"))
	assert.False(t, r.HasPlayer("conn-alice"))
}

func TestJoinBlockedDuringGame(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")
	require.NoError(t, r.StartGame(fakeFactory))

	_, err := r.AddPlayer("conn-carol", "carol")
	assert.ErrorIs(t, err, game.ErrGameAlreadyStarted)
}

func TestReconnectByNameDuringGame(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")
	require.NoError(t, r.StartGame(fakeFactory))

	r.RemovePlayer("conn-alice")
	assert.True(t, r.HasActiveGame(), "one disconnect does not end the game")

	reconnected, err := r.AddPlayer("conn-new", "alice")
	require.NoError(t, err)
	assert.True(t, reconnected)
	assert.True(t, r.HasPlayer("conn-new"))
	assert.False(t, r.HasPlayer("conn-alice"))

	// The engine's borrowed roster sees the rebinding in place.
	err = r.WithGame(func(g game.Game) (bool, error) {
		fg := g.(*fakeGame)
		assert.Equal(t, "conn-new", fg.players[0].ID)
		assert.False(t, fg.players[0].Disconnected)
		return false, nil
	})
	require.NoError(t, err)
}

func TestRemovePlayerInLobby(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")
	r.RemovePlayer("conn-alice")

	assert.False(t, r.HasPlayer("conn-alice"))
	assert.Equal(t, 1, r.State().PlayerCount)
	assert.False(t, r.IsEmpty())

	r.RemovePlayer("conn-bob")
	assert.True(t, r.IsEmpty())
}

func TestGameEndsWhenEveryoneDisconnects(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")
	require.NoError(t, r.StartGame(fakeFactory))

	r.RemovePlayer("conn-alice")
	r.RemovePlayer("conn-bob")

	assert.False(t, r.HasActiveGame())
	assert.True(t, r.IsEmpty())
}

func TestStartGame(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")
	require.NoError(t, r.StartGame(fakeFactory))

	assert.True(t, r.HasActiveGame())
	assert.Equal(t, "public", r.GameState())
	assert.Equal(t, "private:conn-alice", r.PlayerPrivateState("conn-alice"))

	err := r.StartGame(fakeFactory)
	assert.ErrorIs(t, err, game.ErrGameAlreadyStarted)
}

func TestStartGameFactoryFailureInstallsNothing(t *testing.T) {
	r := joinedRoom(t, "alice")
	err := r.StartGame(func(roomID string, players []*models.Player) (game.Game, error) {
		return nil, game.ErrInvalidPlayerCount
	})
	assert.ErrorIs(t, err, game.ErrInvalidPlayerCount)
	assert.False(t, r.HasActiveGame())
	assert.Nil(t, r.GameState())
}

func TestWithGame(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")

	err := r.WithGame(func(g game.Game) (bool, error) { return false, nil })
	assert.ErrorIs(t, err, game.ErrInvalidMove, "no active game")

	require.NoError(t, r.StartGame(fakeFactory))
	err = r.WithGame(func(g game.Game) (bool, error) {
		assert.Equal(t, "room-1", g.RoomID())
		return false, nil
	})
	require.NoError(t, err)
	assert.True(t, r.HasActiveGame())
}

func TestWithGameTeardown(t *testing.T) {
	r := joinedRoom(t, "alice", "bob")
	require.NoError(t, r.StartGame(fakeFactory))

	// Disconnect bob mid-game, then end it via the callback.
	r.RemovePlayer("conn-bob")
	err := r.WithGame(func(g game.Game) (bool, error) { return true, nil })
	require.NoError(t, err)

	assert.False(t, r.HasActiveGame())
	state := r.State()
	assert.Equal(t, 1, state.PlayerCount, "disconnected players are dropped at teardown")
	assert.Equal(t, "alice", state.Players[0].Name)
}

func TestManager(t *testing.T) {
	m := NewManager()
	assert.Equal(t, 0, m.Count())

	r1 := m.GetOrCreate("room-1")
	assert.Same(t, r1, m.GetOrCreate("room-1"))
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get("room-1")
	require.True(t, ok)
	assert.Same(t, r1, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	m.GetOrCreate("room-2")
	states := m.States()
	assert.Len(t, states, 2)

	assert.True(t, m.Delete("room-1"))
	assert.False(t, m.Delete("room-1"), "second delete is a no-op")
	assert.Equal(t, 1, m.Count())
	_, ok = m.Get("room-1")
	assert.False(t, ok)
}

func TestManagerCleanupEmpty(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("empty-1")
	m.GetOrCreate("empty-2")
	occupied := m.GetOrCreate("occupied")
	_, err := occupied.AddPlayer("conn-1", "alice")
	require.NoError(t, err)

	assert.Equal(t, 2, m.CleanupEmpty())
	assert.Equal(t, 1, m.Count())
	_, ok := m.Get("occupied")
	assert.True(t, ok)

	assert.Equal(t, 0, m.CleanupEmpty())
}
