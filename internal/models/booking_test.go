package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingReference(t *testing.T) {
	ref := GenerateBookingReference()
	assert.Regexp(t, `^BKG-\d{8}-\d{6}$`, ref)

	// References should be unique across calls
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateBookingReference()] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestBookingRequestValidate(t *testing.T) {
	valid := func() *BookingRequest {
		return &BookingRequest{
			Date:          "2026-09-15",
			Time:          "18:00",
			NumGuests:     4,
			TableID:       12,
			Items:         []BookingItem{{MenuItemID: 7, Quantity: 2}},
			PaymentMethod: "bank_transfer",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*BookingRequest)
		wantErr string
	}{
		{"valid request", func(r *BookingRequest) {}, ""},
		{"empty items allowed", func(r *BookingRequest) { r.Items = nil }, ""},
		{"missing date", func(r *BookingRequest) { r.Date = "" }, "booking date is required"},
		{"malformed date", func(r *BookingRequest) { r.Date = "15/09/2026" }, "booking date format is invalid"},
		{"missing time", func(r *BookingRequest) { r.Time = "" }, "booking time is required"},
		{"zero guests", func(r *BookingRequest) { r.NumGuests = 0 }, "number of guests must be at least 1"},
		{"missing table", func(r *BookingRequest) { r.TableID = 0 }, "table is required"},
		{"missing payment method", func(r *BookingRequest) { r.PaymentMethod = " " }, "payment method is required"},
		{"item with zero quantity", func(r *BookingRequest) { r.Items[0].Quantity = 0 }, "ordered item quantity must be at least 1"},
		{"item with invalid id", func(r *BookingRequest) { r.Items[0].MenuItemID = 0 }, "ordered item id is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestBookingStatusHelpers(t *testing.T) {
	b := &Booking{Status: BookingPending}
	assert.True(t, b.IsPending())
	assert.True(t, b.CanBeCancelled())
	assert.Equal(t, "Awaiting Confirmation", b.GetStatusDisplayName())

	b.Status = BookingConfirmed
	assert.True(t, b.IsConfirmed())
	assert.True(t, b.CanBeCancelled())

	b.Status = BookingCompleted
	assert.False(t, b.CanBeCancelled())

	b.Status = BookingCancelled
	assert.True(t, b.IsCancelled())
	assert.False(t, b.CanBeCancelled())
}

func TestBookingValidate(t *testing.T) {
	b := &Booking{
		BookingReference: "BKG-20260915-123456",
		Status:           BookingConfirmed,
		TotalAmount:      114000,
	}
	assert.NoError(t, b.Validate())

	b.TotalAmount = -1
	assert.EqualError(t, b.Validate(), "total amount cannot be negative")

	b.TotalAmount = 0
	b.BookingReference = "ORD-20260915-123456"
	assert.EqualError(t, b.Validate(), "booking reference format is invalid")
}
