package models

import "errors"

// Common errors used throughout the application
var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInvalidInput     = errors.New("invalid input")
)

// Booking submission precondition errors. These are checked in order before
// any network call and each carries the user-facing message for its check.
var (
	ErrNotAuthenticated = errors.New("please sign in to book a table")
	ErrNoGuests         = errors.New("enter the number of guests")
	ErrNoTimeSelected   = errors.New("select a time for your booking")
	ErrNoTableSelected  = errors.New("select a table for your booking")
	ErrSubmitInFlight   = errors.New("a booking submission is already in progress")
)
