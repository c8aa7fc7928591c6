package cart

import (
	"context"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-booking-platform/internal/models"
)

func newTestSession() *sessions.Session {
	store := sessions.NewCookieStore([]byte("test-secret"))
	return sessions.NewSession(store, "session")
}

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession()
	store := NewSessionStore(sess)

	snap := models.CartSnapshot{
		Items:         []models.CartLine{{MenuItemID: 7, Name: "Dish", UnitPrice: 50000, Quantity: 2}},
		TotalAmount:   100000,
		TotalQuantity: 2,
	}
	require.NoError(t, store.Save(ctx, "sid-1", snap))

	loaded, found, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, snap, loaded)
}

func TestSessionStoreAbsentSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(newTestSession())

	_, found, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionStoreMalformedValue(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession()
	store := NewSessionStore(sess)

	tests := []struct {
		name  string
		value interface{}
	}{
		{"not a string", 42},
		{"not decodable", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess.Values[sessionValueKey] = tt.value

			_, found, err := store.Load(ctx, "sid-1")
			require.NoError(t, err)
			assert.False(t, found)
			// Malformed values are dropped so the next load is clean
			_, present := sess.Values[sessionValueKey]
			assert.False(t, present)
		})
	}
}

func TestSessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	sess := newTestSession()
	store := NewSessionStore(sess)

	require.NoError(t, store.Save(ctx, "sid-1", models.CartSnapshot{}))
	require.NoError(t, store.Delete(ctx, "sid-1"))

	_, found, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)
}
