// internal/game/registry_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/cardtable/internal/models"
)

// stubGame is a minimal engine for registry wiring tests.
type stubGame struct {
	roomID  string
	players []*models.Player
}

func (s *stubGame) RoomID() string                                 { return s.roomID }
func (s *stubGame) State() interface{}                             { return len(s.players) }
func (s *stubGame) PlayerPrivateState(playerID string) interface{} { return playerID }

func stubFactory(roomID string, players []*models.Player) (Game, error) {
	return &stubGame{roomID: roomID, players: players}, nil
}

func stubMeta(name string) Metadata {
	return Metadata{Name: name, DisplayName: name, MinPlayers: 2, MaxPlayers: 4}
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", stubMeta("stub"), stubFactory)

	players := []*models.Player{{ID: "a", Name: "a"}, {ID: "b", Name: "b"}}
	g, err := r.Create("stub", "room-1", players)
	require.NoError(t, err)
	assert.Equal(t, "room-1", g.RoomID())
	assert.Equal(t, 2, g.State())
}

func TestRegistryCreateUnknownType(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", stubMeta("stub"), stubFactory)

	_, err := r.Create("poker", "room-1", nil)
	require.ErrorIs(t, err, ErrUnknownGameType)
	assert.Contains(t, err.Error(), "stub", "error names the available games")
}

func TestRegistryMetadataAndCatalog(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", stubMeta("zeta"), stubFactory)
	r.Register("alpha", stubMeta("alpha"), stubFactory)

	meta, ok := r.Metadata("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", meta.Name)

	_, ok = r.Metadata("missing")
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name, "catalog is sorted by name")
	assert.Equal(t, "zeta", all[1].Name)

	assert.True(t, r.IsRegistered("zeta"))
	assert.False(t, r.IsRegistered("missing"))
}
