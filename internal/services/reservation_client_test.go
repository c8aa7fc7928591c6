package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-booking-platform/internal/config"
	"restaurant-booking-platform/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ReservationClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewReservationClient(config.ReservationAPIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	})
}

func TestGetAvailability(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/availability", r.URL.Path)
		assert.Equal(t, "2026-09-15", r.URL.Query().Get("date"))
		assert.Equal(t, "4", r.URL.Query().Get("num_guests"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"time_slots": ["18:00", "18:30", "19:00"],
			"table_types": [
				{"id": 1, "name": "Standard", "surcharge": 0},
				{"id": 2, "name": "Window", "surcharge": 20000}
			]
		}`))
	})

	slots, err := client.GetAvailability(context.Background(), "2026-09-15", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00", "18:30", "19:00"}, slots.TimeSlots)
	require.Len(t, slots.TableTypes, 2)
	assert.Equal(t, 20000, slots.TableTypes[1].Surcharge)
}

func TestGetAvailabilityEmptyIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"time_slots": [], "table_types": []}`))
	})

	slots, err := client.GetAvailability(context.Background(), "2026-09-15", 4)
	require.NoError(t, err)
	assert.Empty(t, slots.TimeSlots)
}

func TestGetTables(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tables", r.URL.Path)
		assert.Equal(t, "18:00", r.URL.Query().Get("time"))

		w.Write([]byte(`[
			{"id": 21, "table_number": "B1", "capacity": 4, "table_type": {"id": 1, "name": "Standard", "surcharge": 0}, "location_description": "Main floor"},
			{"id": 22, "table_number": "B2", "capacity": 4, "table_type": {"id": 2, "name": "Window", "surcharge": 20000}, "location_description": "By the window"}
		]`))
	})

	tables, err := client.GetTables(context.Background(), "2026-09-15", "18:00", 4)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "B2", tables[1].TableNumber)
	assert.Equal(t, 20000, tables[1].TableType.Surcharge)
}

func TestCreateBooking(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"booking": {"id": 42, "booking_reference": "BKG-20260915-123456", "status": "confirmed", "total_amount": 114000},
			"payment": {"id": 7, "payment_reference": "PAY-1", "method": "bank_transfer", "amount": 114000, "status": "awaiting_payment"}
		}`))
	})

	result, err := client.CreateBooking(context.Background(), &models.BookingRequest{
		Date:          "2026-09-15",
		Time:          "18:00",
		NumGuests:     4,
		TableID:       22,
		Items:         []models.BookingItem{{MenuItemID: 7, Quantity: 2}},
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, 114000, result.Booking.TotalAmount)
	assert.Equal(t, models.BookingConfirmed, result.Booking.Status)
	require.NotNil(t, result.Payment)
	assert.Equal(t, "awaiting_payment", result.Payment.Status)
}

func TestCreateBookingValidationErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "validation failed", "errors": {"table_id": "table is no longer available", "promotion_code": "promotion expired"}}`))
	})

	_, err := client.CreateBooking(context.Background(), &models.BookingRequest{
		Date:          "2026-09-15",
		Time:          "18:00",
		NumGuests:     4,
		TableID:       22,
		PaymentMethod: "bank_transfer",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsValidation())
	assert.Equal(t, "table is no longer available", apiErr.Fields["table_id"])
	assert.Equal(t, "promotion expired", apiErr.Fields["promotion_code"])
}

func TestCreateBookingRejectsInvalidRequestWithoutNetwork(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.CreateBooking(context.Background(), &models.BookingRequest{})
	require.Error(t, err)
	assert.False(t, called)
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "database unavailable"}`))
	})

	_, err := client.GetAvailability(context.Background(), "2026-09-15", 4)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database unavailable", apiErr.Message)
}

func TestGetMenuItemNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "not found"}`))
	})

	_, err := client.GetMenuItem(context.Background(), 99)
	assert.ErrorIs(t, err, models.ErrMenuItemNotFound)
}

func TestListMenuItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu/items", r.URL.Path)
		w.Write([]byte(`[{"id": 1, "name": "Beef Hotpot Set", "price": 250000, "available": true}]`))
	})

	items, err := client.ListMenuItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 250000, items[0].Price)
}
