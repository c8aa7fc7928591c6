package services

import (
	"context"
	"log"
	"sync"

	"restaurant-booking-platform/internal/models"
)

// BookingSubmitter validates a booking draft, submits it exactly once and
// clears the cart when the server accepts it
type BookingSubmitter struct {
	api BookingAPI

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewBookingSubmitter creates a booking submitter
func NewBookingSubmitter(api BookingAPI) *BookingSubmitter {
	return &BookingSubmitter{
		api:      api,
		inFlight: make(map[string]bool),
	}
}

// Submit checks the draft's preconditions in order, sends the reservation
// request and, on success, clears the cart unconditionally. The checks run
// before any network call; the first failing one is reported and evaluation
// stops there. Exactly one submission may be in flight per session.
func (s *BookingSubmitter) Submit(ctx context.Context, sessionID string, draft *models.BookingDraft, cart CartClearer) (*BookingResult, error) {
	if !draft.Authenticated {
		return nil, models.ErrNotAuthenticated
	}
	if draft.Query.NumGuests < 1 {
		return nil, models.ErrNoGuests
	}
	if draft.Time == "" {
		return nil, models.ErrNoTimeSelected
	}
	if draft.Table == nil {
		return nil, models.ErrNoTableSelected
	}

	s.mu.Lock()
	if s.inFlight[sessionID] {
		s.mu.Unlock()
		return nil, models.ErrSubmitInFlight
	}
	s.inFlight[sessionID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, sessionID)
		s.mu.Unlock()
	}()

	result, err := s.api.CreateBooking(ctx, s.freeze(draft))
	if err != nil {
		// The cart and draft stay untouched so the customer can retry
		// without re-entering anything
		return nil, err
	}

	// The server may have applied a different total than the client
	// estimated; the cart is cleared regardless.
	if err := cart.Clear(ctx); err != nil {
		log.Printf("booking: failed to clear cart for %s after submission: %v", sessionID, err)
	}

	return result, nil
}

// freeze translates the draft into the request payload. Only menu item ids
// and quantities travel to the server; prices are never trusted from the
// client.
func (s *BookingSubmitter) freeze(draft *models.BookingDraft) *models.BookingRequest {
	items := make([]models.BookingItem, 0, len(draft.Cart.Items))
	for _, line := range draft.Cart.Items {
		items = append(items, models.BookingItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
		})
	}

	return &models.BookingRequest{
		Date:            draft.Query.Date,
		Time:            draft.Time,
		NumGuests:       draft.Query.NumGuests,
		TableID:         draft.Table.ID,
		Items:           items,
		PaymentMethod:   draft.PaymentMethod,
		PromotionCode:   draft.PromotionCode,
		SpecialRequests: draft.SpecialRequests,
	}
}
