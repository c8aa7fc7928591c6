package services

import (
	"context"
	"time"

	"restaurant-booking-platform/internal/models"
)

// MockReservationAPI serves canned data so the storefront can run without a
// reservation backend, e.g. during local development
type MockReservationAPI struct{}

var mockMenuItems = []*models.MenuItem{
	{ID: 1, Name: "Beef Hotpot Set", Description: "Sliced beef, vegetables and broth for two", Price: 250000, CategoryID: 1, Available: true},
	{ID: 2, Name: "Seafood Hotpot Set", Description: "Shrimp, squid and clams with tom yum broth", Price: 320000, CategoryID: 1, Available: true},
	{ID: 3, Name: "Fried Spring Rolls", Description: "Six crispy pork rolls", Price: 65000, CategoryID: 2, Available: true},
	{ID: 4, Name: "Morning Glory Stir-fry", Description: "With garlic", Price: 45000, CategoryID: 2, Available: true},
	{ID: 5, Name: "Fresh Lemonade", Description: "", Price: 30000, CategoryID: 3, Available: true},
	{ID: 6, Name: "Grilled Scallops", Description: "Half dozen with scallion oil", Price: 110000, CategoryID: 2, Available: false},
}

var mockCategories = []*models.Category{
	{ID: 1, Name: "Hotpot"},
	{ID: 2, Name: "Side Dishes"},
	{ID: 3, Name: "Drinks"},
}

func (m *MockReservationAPI) ListMenuItems(_ context.Context) ([]*models.MenuItem, error) {
	return mockMenuItems, nil
}

func (m *MockReservationAPI) GetMenuItem(_ context.Context, id int) (*models.MenuItem, error) {
	for _, item := range mockMenuItems {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, models.ErrMenuItemNotFound
}

func (m *MockReservationAPI) ListCategories(_ context.Context) ([]*models.Category, error) {
	return mockCategories, nil
}

func (m *MockReservationAPI) GetAvailability(_ context.Context, date string, numGuests int) (*models.SlotSet, error) {
	return &models.SlotSet{
		TimeSlots: []string{"11:30", "12:00", "18:00", "18:30", "19:00", "19:30", "20:00"},
		TableTypes: []models.TableType{
			{ID: 1, Name: "Standard", Surcharge: 0},
			{ID: 2, Name: "Window", Surcharge: 20000},
			{ID: 3, Name: "Private Room", Surcharge: 100000},
		},
	}, nil
}

func (m *MockReservationAPI) GetTables(_ context.Context, date, timeSlot string, numGuests int) ([]*models.TableCandidate, error) {
	return []*models.TableCandidate{
		{ID: 11, TableNumber: "A1", Capacity: 2, TableType: models.TableType{ID: 1, Name: "Standard"}, LocationDescription: "Main floor"},
		{ID: 12, TableNumber: "A2", Capacity: 2, TableType: models.TableType{ID: 2, Name: "Window", Surcharge: 20000}, LocationDescription: "By the front window"},
		{ID: 21, TableNumber: "B1", Capacity: 4, TableType: models.TableType{ID: 1, Name: "Standard"}, LocationDescription: "Main floor"},
		{ID: 22, TableNumber: "B2", Capacity: 4, TableType: models.TableType{ID: 2, Name: "Window", Surcharge: 20000}, LocationDescription: "By the garden window"},
		{ID: 31, TableNumber: "C1", Capacity: 6, TableType: models.TableType{ID: 1, Name: "Standard"}, LocationDescription: "Near the stairs"},
		{ID: 41, TableNumber: "D1", Capacity: 8, TableType: models.TableType{ID: 3, Name: "Private Room", Surcharge: 100000}, LocationDescription: "Second floor private room"},
	}, nil
}

func (m *MockReservationAPI) CreateBooking(ctx context.Context, req *models.BookingRequest) (*BookingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &APIError{StatusCode: 422, Message: err.Error()}
	}

	itemsAmount := 0
	for _, item := range req.Items {
		if menuItem, err := m.GetMenuItem(ctx, item.MenuItemID); err == nil {
			itemsAmount += menuItem.Price * item.Quantity
		}
	}

	surcharge := 0
	for _, t := range mustMockTables(ctx, m, req) {
		if t.ID == req.TableID {
			surcharge = t.TableType.Surcharge
			break
		}
	}

	now := time.Now()
	booking := &models.Booking{
		ID:               1,
		BookingReference: models.GenerateBookingReference(),
		Date:             req.Date,
		Time:             req.Time,
		NumGuests:        req.NumGuests,
		TableID:          req.TableID,
		Status:           models.BookingConfirmed,
		ItemsAmount:      itemsAmount,
		TableSurcharge:   surcharge,
		TotalAmount:      itemsAmount + surcharge,
		PromotionCode:    req.PromotionCode,
		SpecialRequests:  req.SpecialRequests,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	result := &BookingResult{Booking: booking}
	if req.PaymentMethod != "" {
		result.Payment = &models.Payment{
			ID:               1,
			PaymentReference: "PAY-" + booking.BookingReference,
			Method:           req.PaymentMethod,
			Amount:           booking.TotalAmount,
			Status:           "awaiting_payment",
			QRCodeURL:        "https://pay.example/qr/" + booking.BookingReference,
			CreatedAt:        now,
		}
	}
	return result, nil
}

func mustMockTables(ctx context.Context, m *MockReservationAPI, req *models.BookingRequest) []*models.TableCandidate {
	tables, _ := m.GetTables(ctx, req.Date, req.Time, req.NumGuests)
	return tables
}
