package models

// Category represents a menu category
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MenuItem represents a dish on the restaurant menu
type MenuItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"` // in minor currency units
	ImageURL    string `json:"image_url"`
	CategoryID  int    `json:"category_id"`
	Available   bool   `json:"available"`
}

// IsOrderable returns true if the item can be added to a cart
func (m *MenuItem) IsOrderable() bool {
	return m.ID > 0 && m.Available && m.Price >= 0
}
