// internal/cache/sessions_test.go
package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessions()

	_, ok, err := s.Room(ctx, "conn-1")
	require.NoError(t, err)
	assert.False(t, ok, "no binding yet")

	require.NoError(t, s.Bind(ctx, "conn-1", "room-a"))
	roomID, ok, err := s.Room(ctx, "conn-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "room-a", roomID)

	// Rebinding replaces.
	require.NoError(t, s.Bind(ctx, "conn-1", "room-b"))
	roomID, ok, err = s.Room(ctx, "conn-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "room-b", roomID)

	require.NoError(t, s.Unbind(ctx, "conn-1"))
	_, ok, err = s.Room(ctx, "conn-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Unbinding twice is harmless.
	require.NoError(t, s.Unbind(ctx, "conn-1"))
}
