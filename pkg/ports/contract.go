package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

// RunMemoryStoreContract runs a suite of tests to verify that a MemoryStore
// implementation adheres to the defined interface contract.
func RunMemoryStoreContract(t *testing.T, store MemoryStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := domain.Snapshot{
			SessionID: sessionID,
			Memory: map[string]any{
				"messages": []any{
					map[string]any{"role": "user", "content": "weather in Miami"},
				},
			},
			Slots: map[string]any{
				"destination": map[string]any{"name": "Miami", "lat": 25.76, "lng": -80.19},
			},
			UpdatedAt: time.Now().UTC(),
		}

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)

		dest, ok := loaded.Slots["destination"].(map[string]any)
		require.True(t, ok, "destination slot should survive persistence")
		assert.Equal(t, "Miami", dest["name"])
		// JSON persistence keeps numbers as float64, which is the document
		// representation anyway.
		assert.InDelta(t, 25.76, dest["lat"], 0.001)

		msgs, ok := loaded.Memory["messages"].([]any)
		require.True(t, ok, "conversation memory should survive persistence")
		assert.Len(t, msgs, 1)
	})

	t.Run("Load returns isolated copies", func(t *testing.T) {
		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Slots["destination"] = "clobbered"

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		_, ok := second.Slots["destination"].(map[string]any)
		assert.True(t, ok, "mutating a loaded snapshot must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.Snapshot{SessionID: sessionID, UpdatedAt: time.Now().UTC()})
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.Snapshot{SessionID: id1, UpdatedAt: time.Now().UTC()})
		_ = store.Save(ctx, domain.Snapshot{SessionID: id2, UpdatedAt: time.Now().UTC()})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
