package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-booking-platform/internal/models"
)

type fakeBookingAPI struct {
	mu       sync.Mutex
	calls    int
	requests []*models.BookingRequest

	fn func(req *models.BookingRequest) (*BookingResult, error)
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, req *models.BookingRequest) (*BookingResult, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(req)
	}
	return &BookingResult{Booking: &models.Booking{
		BookingReference: "BKG-20260915-123456",
		Status:           models.BookingConfirmed,
		TotalAmount:      114000,
	}}, nil
}

func (f *fakeBookingAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCartClearer struct {
	mu      sync.Mutex
	cleared int
	err     error
}

func (f *fakeCartClearer) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return f.err
}

func (f *fakeCartClearer) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

func completeDraft() *models.BookingDraft {
	return &models.BookingDraft{
		Authenticated: true,
		Query:         models.AvailabilityQuery{Date: "2026-09-15", NumGuests: 4},
		Time:          "18:00",
		Table: &models.TableCandidate{
			ID:        22,
			Capacity:  4,
			TableType: models.TableType{ID: 2, Name: "Window", Surcharge: 20000},
		},
		Cart: models.CartSnapshot{
			Items:         []models.CartLine{{MenuItemID: 7, Name: "Beef Hotpot Set", UnitPrice: 50000, Quantity: 2}},
			TotalAmount:   100000,
			TotalQuantity: 2,
		},
		PaymentMethod: "bank_transfer",
	}
}

func TestSubmitPreconditionsAreOrdered(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.BookingDraft)
		wantErr error
	}{
		{
			name: "not authenticated reported first",
			mutate: func(d *models.BookingDraft) {
				d.Authenticated = false
				d.Query.NumGuests = 0
				d.Time = ""
				d.Table = nil
			},
			wantErr: models.ErrNotAuthenticated,
		},
		{
			name: "missing guests reported before time",
			mutate: func(d *models.BookingDraft) {
				d.Query.NumGuests = 0
				d.Time = ""
				d.Table = nil
			},
			wantErr: models.ErrNoGuests,
		},
		{
			name: "missing time reported before table",
			mutate: func(d *models.BookingDraft) {
				d.Time = ""
				d.Table = nil
			},
			wantErr: models.ErrNoTimeSelected,
		},
		{
			name:    "missing table reported last",
			mutate:  func(d *models.BookingDraft) { d.Table = nil },
			wantErr: models.ErrNoTableSelected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeBookingAPI{}
			clearer := &fakeCartClearer{}
			submitter := NewBookingSubmitter(api)

			draft := completeDraft()
			tt.mutate(draft)

			_, err := submitter.Submit(context.Background(), "sid-1", draft, clearer)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, api.callCount(), "failed preconditions must not issue a network request")
			assert.Zero(t, clearer.clearCount())
		})
	}
}

func TestSubmitFreezesCartLinesWithoutPrices(t *testing.T) {
	api := &fakeBookingAPI{}
	clearer := &fakeCartClearer{}
	submitter := NewBookingSubmitter(api)

	result, err := submitter.Submit(context.Background(), "sid-1", completeDraft(), clearer)
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, []models.BookingItem{{MenuItemID: 7, Quantity: 2}}, req.Items)
	assert.Equal(t, "2026-09-15", req.Date)
	assert.Equal(t, "18:00", req.Time)
	assert.Equal(t, 4, req.NumGuests)
	assert.Equal(t, 22, req.TableID)
	assert.Equal(t, "bank_transfer", req.PaymentMethod)

	// The confirmation carries the server's total, not the client estimate
	assert.Equal(t, 114000, result.Booking.TotalAmount)
	assert.Equal(t, 1, clearer.clearCount())
}

func TestSubmitCarriesPromotionAndSpecialRequests(t *testing.T) {
	api := &fakeBookingAPI{}
	submitter := NewBookingSubmitter(api)

	draft := completeDraft()
	draft.PromotionCode = "SUMMER10"
	draft.SpecialRequests = "Birthday candles please"

	_, err := submitter.Submit(context.Background(), "sid-1", draft, &fakeCartClearer{})
	require.NoError(t, err)

	req := api.requests[0]
	assert.Equal(t, "SUMMER10", req.PromotionCode)
	assert.Equal(t, "Birthday candles please", req.SpecialRequests)
}

func TestSubmitFailureLeavesCartUntouched(t *testing.T) {
	api := &fakeBookingAPI{
		fn: func(*models.BookingRequest) (*BookingResult, error) {
			return nil, &APIError{StatusCode: 422, Message: "table is no longer available"}
		},
	}
	clearer := &fakeCartClearer{}
	submitter := NewBookingSubmitter(api)

	_, err := submitter.Submit(context.Background(), "sid-1", completeDraft(), clearer)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "table is no longer available", apiErr.Message)
	assert.Zero(t, clearer.clearCount())
}

func TestSubmitClearsCartEvenWhenServerTotalDiffers(t *testing.T) {
	api := &fakeBookingAPI{
		fn: func(*models.BookingRequest) (*BookingResult, error) {
			// Server applied a promotion the client did not price in
			return &BookingResult{Booking: &models.Booking{
				BookingReference: "BKG-20260915-654321",
				Status:           models.BookingConfirmed,
				DiscountAmount:   6000,
				TotalAmount:      114000,
			}}, nil
		},
	}
	clearer := &fakeCartClearer{}
	submitter := NewBookingSubmitter(api)

	result, err := submitter.Submit(context.Background(), "sid-1", completeDraft(), clearer)
	require.NoError(t, err)
	assert.Equal(t, 114000, result.Booking.TotalAmount)
	assert.Equal(t, 1, clearer.clearCount())
}

func TestSubmitAllowsOnlyOneInFlightPerSession(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	api := &fakeBookingAPI{
		fn: func(*models.BookingRequest) (*BookingResult, error) {
			once.Do(func() {
				close(started)
				<-release
			})
			return &BookingResult{Booking: &models.Booking{Status: models.BookingConfirmed}}, nil
		},
	}
	submitter := NewBookingSubmitter(api)

	done := make(chan error, 1)
	go func() {
		_, err := submitter.Submit(context.Background(), "sid-1", completeDraft(), &fakeCartClearer{})
		done <- err
	}()

	<-started
	_, err := submitter.Submit(context.Background(), "sid-1", completeDraft(), &fakeCartClearer{})
	assert.ErrorIs(t, err, models.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)

	// A new submission is allowed once the first finished
	_, err = submitter.Submit(context.Background(), "sid-1", completeDraft(), &fakeCartClearer{})
	assert.NoError(t, err)
}
