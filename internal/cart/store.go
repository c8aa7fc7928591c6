package cart

import (
	"context"
	"log"

	"restaurant-booking-platform/internal/models"
)

// SnapshotStore persists cart snapshots under a single key per customer.
// Absent or malformed snapshots are reported as not found, never as errors
// the caller has to surface.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (models.CartSnapshot, bool, error)
	Save(ctx context.Context, key string, snap models.CartSnapshot) error
	Delete(ctx context.Context, key string) error
}

// Store is the single source of truth for what the customer intends to
// order. Every mutation recomputes the totals from the lines and writes the
// whole snapshot back through the persister, so the stored totals can never
// drift from the stored lines.
type Store struct {
	persister SnapshotStore
	key       string

	lines         []models.CartLine
	totalAmount   int
	totalQuantity int
}

// Open rehydrates a cart from its persisted snapshot. A missing or malformed
// snapshot yields an empty cart; that is a recoverable condition, never an
// error for the customer.
func Open(ctx context.Context, persister SnapshotStore, key string) *Store {
	s := &Store{persister: persister, key: key}

	snap, found, err := persister.Load(ctx, key)
	if err != nil {
		log.Printf("cart: failed to load snapshot for %s: %v", key, err)
		return s
	}
	if !found {
		return s
	}

	s.restore(snap)
	return s
}

// restore adopts a persisted snapshot. Totals are recomputed from the lines,
// never trusted from storage. A snapshot with any invalid line is discarded
// wholesale and replaced with the empty cart.
func (s *Store) restore(snap models.CartSnapshot) {
	seen := make(map[int]bool, len(snap.Items))
	for _, line := range snap.Items {
		if line.MenuItemID <= 0 || line.Quantity < 1 || line.UnitPrice < 0 || seen[line.MenuItemID] {
			s.lines = nil
			s.recompute()
			return
		}
		seen[line.MenuItemID] = true
	}

	s.lines = make([]models.CartLine, len(snap.Items))
	copy(s.lines, snap.Items)
	s.recompute()
}

// AddItem adds quantity of a menu item to the cart. If the item is already
// present the quantity is summed into the existing line; otherwise a new
// line is appended. Invalid input leaves the cart unchanged.
func (s *Store) AddItem(ctx context.Context, item models.MenuItem, quantity int) error {
	if item.ID <= 0 || item.Price < 0 || quantity < 1 {
		return nil
	}

	found := false
	for i := range s.lines {
		if s.lines[i].MenuItemID == item.ID {
			s.lines[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		s.lines = append(s.lines, models.CartLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			UnitPrice:  item.Price,
			Quantity:   quantity,
			ImageURL:   item.ImageURL,
		})
	}

	s.recompute()
	return s.persist(ctx)
}

// RemoveItem deletes the line for the given menu item. Removing an absent
// item is a no-op.
func (s *Store) RemoveItem(ctx context.Context, menuItemID int) error {
	for i := range s.lines {
		if s.lines[i].MenuItemID == menuItemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.recompute()
			return s.persist(ctx)
		}
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing line. Quantities below 1
// are rejected as no-ops: callers route a "set to zero" intent through
// RemoveItem instead, after the customer has confirmed.
func (s *Store) UpdateQuantity(ctx context.Context, menuItemID, quantity int) error {
	if quantity < 1 {
		return nil
	}

	for i := range s.lines {
		if s.lines[i].MenuItemID == menuItemID {
			s.lines[i].Quantity = quantity
			s.recompute()
			return s.persist(ctx)
		}
	}
	return nil
}

// Clear resets the cart to the empty snapshot and persists it
func (s *Store) Clear(ctx context.Context) error {
	s.lines = nil
	s.recompute()
	return s.persist(ctx)
}

// Snapshot returns a copy of the current cart state
func (s *Store) Snapshot() models.CartSnapshot {
	items := make([]models.CartLine, len(s.lines))
	copy(items, s.lines)
	return models.CartSnapshot{
		Items:         items,
		TotalAmount:   s.totalAmount,
		TotalQuantity: s.totalQuantity,
	}
}

// TotalAmount returns the cart total in minor currency units
func (s *Store) TotalAmount() int {
	return s.totalAmount
}

// TotalQuantity returns the total number of ordered dishes
func (s *Store) TotalQuantity() int {
	return s.totalQuantity
}

// Len returns the number of distinct lines
func (s *Store) Len() int {
	return len(s.lines)
}

// IsEmpty returns true if the cart holds no lines
func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// recompute derives the totals from scratch. Full recomputation on every
// mutation keeps the totals and the lines from ever drifting apart; do not
// replace this with incremental updates.
func (s *Store) recompute() {
	s.totalAmount = 0
	s.totalQuantity = 0
	for _, line := range s.lines {
		s.totalAmount += line.Subtotal()
		s.totalQuantity += line.Quantity
	}
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.key, s.Snapshot()); err != nil {
		log.Printf("cart: failed to persist snapshot for %s: %v", s.key, err)
		return err
	}
	return nil
}
