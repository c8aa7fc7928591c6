package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// BookingItem is one ordered dish inside a booking request. Only the id and
// quantity travel to the server; prices are never trusted from the client.
type BookingItem struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

// BookingRequest is the single atomic payload submitted to the reservation API
type BookingRequest struct {
	Date            string        `json:"date"` // YYYY-MM-DD
	Time            string        `json:"time"` // e.g. "18:00"
	NumGuests       int           `json:"num_guests"`
	TableID         int           `json:"table_id"`
	Items           []BookingItem `json:"items"`
	PaymentMethod   string        `json:"payment_method"`
	PromotionCode   string        `json:"promotion_code,omitempty"`
	SpecialRequests string        `json:"special_requests,omitempty"`
}

// Booking is the server-authoritative reservation record. The client never
// computes its persisted totals; it only formats what the server returned.
type Booking struct {
	ID               int           `json:"id"`
	BookingReference string        `json:"booking_reference"`
	UserID           int           `json:"user_id"`
	Date             string        `json:"date"`
	Time             string        `json:"time"`
	NumGuests        int           `json:"num_guests"`
	TableID          int           `json:"table_id"`
	TableNumber      string        `json:"table_number"`
	Status           BookingStatus `json:"status"`
	ItemsAmount      int           `json:"items_amount"`    // in minor currency units
	TableSurcharge   int           `json:"table_surcharge"` // in minor currency units
	DiscountAmount   int           `json:"discount_amount"` // in minor currency units
	TotalAmount      int           `json:"total_amount"`    // in minor currency units
	PromotionCode    string        `json:"promotion_code,omitempty"`
	SpecialRequests  string        `json:"special_requests,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Payment is the server-returned payment record attached to a booking
type Payment struct {
	ID               int       `json:"id"`
	PaymentReference string    `json:"payment_reference"`
	Method           string    `json:"method"`
	Amount           int       `json:"amount"` // in minor currency units
	Status           string    `json:"status"`
	QRCodeURL        string    `json:"qr_code_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// BookingDraft is the transient client-held aggregate of cart, time/table
// selection and metadata prior to submission. It exists only while the
// customer is composing a booking.
type BookingDraft struct {
	Authenticated   bool
	Query           AvailabilityQuery
	Time            string
	Table           *TableCandidate
	Cart            CartSnapshot
	PaymentMethod   string
	PromotionCode   string
	SpecialRequests string
}

var (
	// Booking reference format: BKG-YYYYMMDD-XXXXXX (e.g. BKG-20260830-123456)
	bookingReferenceRegex = regexp.MustCompile(`^BKG-\d{8}-\d{6}$`)
)

// Validate validates the booking request before it is sent
func (req *BookingRequest) Validate() error {
	if req.Date == "" {
		return errors.New("booking date is required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return errors.New("booking date format is invalid")
	}
	if req.Time == "" {
		return errors.New("booking time is required")
	}
	if req.NumGuests < 1 {
		return errors.New("number of guests must be at least 1")
	}
	if req.TableID <= 0 {
		return errors.New("table is required")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return errors.New("payment method is required")
	}
	for _, item := range req.Items {
		if item.MenuItemID <= 0 {
			return errors.New("ordered item id is invalid")
		}
		if item.Quantity < 1 {
			return errors.New("ordered item quantity must be at least 1")
		}
	}
	return nil
}

// Validate validates booking data returned by the server
func (b *Booking) Validate() error {
	if b.BookingReference == "" {
		return errors.New("booking reference is required")
	}
	if !bookingReferenceRegex.MatchString(b.BookingReference) {
		return errors.New("booking reference format is invalid")
	}
	if b.TotalAmount < 0 {
		return errors.New("total amount cannot be negative")
	}
	return validateBookingStatus(b.Status)
}

func validateBookingStatus(status BookingStatus) error {
	switch status {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return nil
	default:
		return errors.New("invalid booking status")
	}
}

// GenerateBookingReference generates a unique booking reference
func GenerateBookingReference() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	// Use crypto/rand for the random part to keep collisions unlikely
	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fallback to timestamp-based generation if crypto/rand fails
		timestamp := now.UnixNano()
		return fmt.Sprintf("BKG-%s-%06d", dateStr, timestamp%1000000)
	}

	return fmt.Sprintf("BKG-%s-%06d", dateStr, randomNum.Int64())
}

// IsPending returns true if the booking is awaiting confirmation
func (b *Booking) IsPending() bool {
	return b.Status == BookingPending
}

// IsConfirmed returns true if the booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingConfirmed
}

// IsCancelled returns true if the booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingCancelled
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// GetStatusDisplayName returns a human-readable status name
func (b *Booking) GetStatusDisplayName() string {
	switch b.Status {
	case BookingPending:
		return "Awaiting Confirmation"
	case BookingConfirmed:
		return "Confirmed"
	case BookingCancelled:
		return "Cancelled"
	case BookingCompleted:
		return "Completed"
	default:
		return string(b.Status)
	}
}
