package models

// CartLine represents one distinct dish and its quantity in the customer's
// in-progress order
type CartLine struct {
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  int    `json:"unit_price"` // in minor currency units
	Quantity   int    `json:"quantity"`
	ImageURL   string `json:"image_url"`
}

// Subtotal returns quantity x unit price for this line
func (l CartLine) Subtotal() int {
	return l.Quantity * l.UnitPrice
}

// CartSnapshot is the persisted form of the cart: the full line list plus
// derived totals, stored as one document under a single key
type CartSnapshot struct {
	Items         []CartLine `json:"items"`
	TotalAmount   int        `json:"total_amount"` // in minor currency units
	TotalQuantity int        `json:"total_quantity"`
}

// IsEmpty returns true if the snapshot holds no lines
func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}
