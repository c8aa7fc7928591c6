package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"restaurant-booking-platform/internal/config"
	"restaurant-booking-platform/internal/models"
)

// ReservationClient talks to the restaurant reservation API. It covers the
// menu, availability and booking surfaces; everything it returns is
// server-authoritative.
type ReservationClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewReservationClient creates a client for the reservation API
func NewReservationClient(cfg config.ReservationAPIConfig) *ReservationClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReservationClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// APIError represents an error response from the reservation API. On
// validation failures Fields holds the server's field-level messages keyed
// by field name.
type APIError struct {
	StatusCode int               `json:"-"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("reservation API error (status %d)", e.StatusCode)
}

// IsValidation returns true if the error carries field-level messages
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// ListMenuItems fetches the full menu
func (c *ReservationClient) ListMenuItems(ctx context.Context) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	if err := c.get(ctx, "/menu/items", nil, &items); err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// GetMenuItem fetches one menu item by id
func (c *ReservationClient) GetMenuItem(ctx context.Context, id int) (*models.MenuItem, error) {
	var item models.MenuItem
	err := c.get(ctx, fmt.Sprintf("/menu/items/%d", id), nil, &item)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, models.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item %d: %w", id, err)
	}
	return &item, nil
}

// ListCategories fetches the menu categories
func (c *ReservationClient) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := c.get(ctx, "/menu/categories", nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetAvailability fetches time slots and table-type summaries for a date and
// party size
func (c *ReservationClient) GetAvailability(ctx context.Context, date string, numGuests int) (*models.SlotSet, error) {
	params := url.Values{}
	params.Set("date", date)
	params.Set("num_guests", strconv.Itoa(numGuests))

	var slots models.SlotSet
	if err := c.get(ctx, "/availability", params, &slots); err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return &slots, nil
}

// GetTables fetches the concrete open tables for a resolved date, time and
// party size
func (c *ReservationClient) GetTables(ctx context.Context, date, timeSlot string, numGuests int) ([]*models.TableCandidate, error) {
	params := url.Values{}
	params.Set("date", date)
	params.Set("time", timeSlot)
	params.Set("num_guests", strconv.Itoa(numGuests))

	var tables []*models.TableCandidate
	if err := c.get(ctx, "/tables", params, &tables); err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

// CreateBooking submits the reservation request once and returns the
// server's booking and payment records
func (c *ReservationClient) CreateBooking(ctx context.Context, req *models.BookingRequest) (*BookingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid booking request: %w", err)
	}

	var result BookingResult
	if err := c.post(ctx, "/bookings", req, &result); err != nil {
		return nil, err
	}
	if result.Booking == nil {
		return nil, fmt.Errorf("reservation API returned no booking")
	}
	return &result, nil
}

// Helper methods

func (c *ReservationClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(httpReq, out)
}

func (c *ReservationClient) post(ctx context.Context, path string, body, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, out)
}

func (c *ReservationClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach reservation API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleAPIError(resp.StatusCode, bodyBytes)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleAPIError maps reservation API error responses onto APIError values
func (c *ReservationClient) handleAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr.Message = fmt.Sprintf("API error (status %d): %s", statusCode, string(body))
		return apiErr
	}

	if apiErr.Message == "" {
		switch statusCode {
		case http.StatusBadRequest:
			apiErr.Message = "bad request"
		case http.StatusUnauthorized:
			apiErr.Message = "unauthorized: check API key"
		case http.StatusNotFound:
			apiErr.Message = "not found"
		case http.StatusUnprocessableEntity:
			apiErr.Message = "validation failed"
		default:
			apiErr.Message = fmt.Sprintf("reservation API error (status %d)", statusCode)
		}
	}
	return apiErr
}

