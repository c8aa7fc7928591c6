package services

import "restaurant-booking-platform/internal/models"

// PriceBreakdown is the advisory amount shown before submission. The
// authoritative charge is whatever the server echoes back in the booking
// confirmation; any divergence is resolved in favor of the server.
type PriceBreakdown struct {
	CartTotal      int `json:"cart_total"`
	TableSurcharge int `json:"table_surcharge"`
	Subtotal       int `json:"subtotal"`
}

// ComposePrice combines the cart total with the selected table's surcharge.
// Promotion discounts are deliberately absent: promotion validity and the
// discount amount are resolved by the server at submission time, the client
// only round-trips the entered code.
func ComposePrice(cartTotal int, table *models.TableCandidate) PriceBreakdown {
	surcharge := 0
	if table != nil {
		surcharge = table.TableType.Surcharge
	}
	return PriceBreakdown{
		CartTotal:      cartTotal,
		TableSurcharge: surcharge,
		Subtotal:       cartTotal + surcharge,
	}
}
