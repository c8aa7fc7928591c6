package services

import (
	"context"

	"restaurant-booking-platform/internal/models"
)

// MenuAPI is the slice of the reservation backend that serves the menu
type MenuAPI interface {
	ListMenuItems(ctx context.Context) ([]*models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (*models.MenuItem, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// AvailabilityAPI resolves open time slots and concrete tables
type AvailabilityAPI interface {
	GetAvailability(ctx context.Context, date string, numGuests int) (*models.SlotSet, error)
	GetTables(ctx context.Context, date, timeSlot string, numGuests int) ([]*models.TableCandidate, error)
}

// BookingAPI accepts the single atomic reservation request
type BookingAPI interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*BookingResult, error)
}

// BookingResult is the server's authoritative answer to a submission: the
// persisted booking plus the payment record when one was created
type BookingResult struct {
	Booking *models.Booking `json:"booking"`
	Payment *models.Payment `json:"payment,omitempty"`
}

// CartClearer is the slice of the cart store the booking submitter needs
type CartClearer interface {
	Clear(ctx context.Context) error
}
