package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-booking-platform/internal/models"
)

func testItem(id, price int) models.MenuItem {
	return models.MenuItem{
		ID:        id,
		Name:      "Dish",
		Price:     price,
		ImageURL:  "https://img.example/dish.jpg",
		Available: true,
	}
}

// assertTotalsConsistent checks the cart invariant: totals always equal the
// sums over the lines
func assertTotalsConsistent(t *testing.T, s *Store) {
	t.Helper()
	snap := s.Snapshot()
	wantAmount, wantQuantity := 0, 0
	for _, line := range snap.Items {
		wantAmount += line.Quantity * line.UnitPrice
		wantQuantity += line.Quantity
	}
	assert.Equal(t, wantAmount, snap.TotalAmount)
	assert.Equal(t, wantQuantity, snap.TotalQuantity)
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryStore(), "sid-1")

	require.NoError(t, s.AddItem(ctx, testItem(7, 50000), 2))
	require.NoError(t, s.AddItem(ctx, testItem(7, 50000), 3))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, 250000, snap.TotalAmount)
	assert.Equal(t, 5, snap.TotalQuantity)
	assertTotalsConsistent(t, s)
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryStore(), "sid-1")

	require.NoError(t, s.AddItem(ctx, testItem(3, 30000), 1))
	require.NoError(t, s.AddItem(ctx, testItem(1, 10000), 1))
	require.NoError(t, s.AddItem(ctx, testItem(2, 20000), 1))
	require.NoError(t, s.AddItem(ctx, testItem(1, 10000), 2))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, 3, snap.Items[0].MenuItemID)
	assert.Equal(t, 1, snap.Items[1].MenuItemID)
	assert.Equal(t, 2, snap.Items[2].MenuItemID)
	assert.Equal(t, 3, snap.Items[1].Quantity)
}

func TestAddItemInvalidInputIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryStore(), "sid-1")
	require.NoError(t, s.AddItem(ctx, testItem(7, 50000), 2))
	before := s.Snapshot()

	tests := []struct {
		name     string
		item     models.MenuItem
		quantity int
	}{
		{"zero id", testItem(0, 50000), 1},
		{"negative id", testItem(-1, 50000), 1},
		{"negative price", testItem(8, -100), 1},
		{"zero quantity", testItem(8, 50000), 0},
		{"negative quantity", testItem(8, 50000), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.AddItem(ctx, tt.item, tt.quantity))
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryStore(), "sid-1")
	require.NoError(t, s.AddItem(ctx, testItem(7, 50000), 2))

	t.Run("sets new quantity", func(t *testing.T) {
		require.NoError(t, s.UpdateQuantity(ctx, 7, 4))
		assert.Equal(t, 4, s.Snapshot().Items[0].Quantity)
		assert.Equal(t, 200000, s.TotalAmount())
		assertTotalsConsistent(t, s)
	})

	t.Run("zero quantity is a no-op", func(t *testing.T) {
		before := s.Snapshot()
		require.NoError(t, s.UpdateQuantity(ctx, 7, 0))
		assert.Equal(t, before, s.Snapshot())
	})

	t.Run("negative quantity is a no-op", func(t *testing.T) {
		before := s.Snapshot()
		require.NoError(t, s.UpdateQuantity(ctx, 7, -1))
		assert.Equal(t, before, s.Snapshot())
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		before := s.Snapshot()
		require.NoError(t, s.UpdateQuantity(ctx, 99, 2))
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryStore(), "sid-1")
	require.NoError(t, s.AddItem(ctx, testItem(7, 50000), 2))
	require.NoError(t, s.AddItem(ctx, testItem(8, 30000), 1))

	t.Run("removes existing line", func(t *testing.T) {
		require.NoError(t, s.RemoveItem(ctx, 7))
		snap := s.Snapshot()
		require.Len(t, snap.Items, 1)
		assert.Equal(t, 8, snap.Items[0].MenuItemID)
		assert.Equal(t, 30000, snap.TotalAmount)
		assertTotalsConsistent(t, s)
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		before := s.Snapshot()
		require.NoError(t, s.RemoveItem(ctx, 7))
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestClearPersistsEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryStore()

	s := Open(ctx, persister, "sid-1")
	require.NoError(t, s.AddItem(ctx, testItem(7, 50000), 2))
	require.NoError(t, s.Clear(ctx))

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.TotalAmount())
	assert.Equal(t, 0, s.TotalQuantity())

	// The empty state round-trips through persistence
	reloaded := Open(ctx, persister, "sid-1")
	assert.True(t, reloaded.IsEmpty())
	assert.Equal(t, 0, reloaded.TotalAmount())
	assert.Equal(t, 0, reloaded.TotalQuantity())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryStore()

	s := Open(ctx, persister, "sid-1")
	require.NoError(t, s.AddItem(ctx, testItem(7, 50000), 2))
	require.NoError(t, s.AddItem(ctx, testItem(9, 25000), 1))

	reloaded := Open(ctx, persister, "sid-1")
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}

func TestMalformedSnapshotYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"items": "nope"}`},
		{"line with zero quantity", `{"items":[{"menu_item_id":7,"quantity":0,"unit_price":100}],"total_amount":0,"total_quantity":0}`},
		{"line with negative price", `{"items":[{"menu_item_id":7,"quantity":1,"unit_price":-1}],"total_amount":0,"total_quantity":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persister := NewMemoryStore()
			persister.SeedRaw("sid-1", tt.raw)

			s := Open(ctx, persister, "sid-1")
			assert.True(t, s.IsEmpty())
			assert.Equal(t, 0, s.TotalAmount())
		})
	}
}

func TestRestoreRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryStore()

	// Stored totals are wrong on purpose; the store must recompute them
	persister.SeedRaw("sid-1", `{"items":[{"menu_item_id":7,"name":"Dish","quantity":2,"unit_price":50000}],"total_amount":1,"total_quantity":99}`)

	s := Open(ctx, persister, "sid-1")
	assert.Equal(t, 100000, s.TotalAmount())
	assert.Equal(t, 2, s.TotalQuantity())
}

func TestRestoreDiscardsDuplicateLines(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryStore()
	persister.SeedRaw("sid-1", `{"items":[{"menu_item_id":7,"quantity":1,"unit_price":100},{"menu_item_id":7,"quantity":2,"unit_price":100}],"total_amount":300,"total_quantity":3}`)

	s := Open(ctx, persister, "sid-1")
	assert.True(t, s.IsEmpty())
}
