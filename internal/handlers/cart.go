package handlers

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"

	"restaurant-booking-platform/internal/cart"
	"restaurant-booking-platform/internal/middleware"
	"restaurant-booking-platform/internal/models"
	"restaurant-booking-platform/internal/services"
)

// CartHandler serves the cart page and the HTMX cart mutation endpoints.
type CartHandler struct {
	menuService services.MenuAPI
	snapshots   cart.SnapshotStore
	store       sessions.Store
}

func NewCartHandler(menuService services.MenuAPI, snapshots cart.SnapshotStore, store sessions.Store) *CartHandler {
	return &CartHandler{
		menuService: menuService,
		snapshots:   snapshots,
		store:       store,
	}
}

// ViewCart renders the cart page
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	c := openCart(r, session, h.snapshots)
	snapshot := c.Snapshot()

	w.Header().Set("Content-Type", "text/html")

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Your Cart</title>
	<script src="https://unpkg.com/htmx.org@1.9.10"></script>
	<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
	<div class="max-w-3xl mx-auto px-4 py-8">
		<h1 class="text-2xl font-bold text-gray-900 mb-6">Your Cart</h1>
		<div id="cart-contents">`)
	b.WriteString(renderCartContents(snapshot))
	b.WriteString(`</div>
		<div class="mt-6 flex gap-4">
			<a href="/menu" class="text-orange-600 hover:text-orange-700">Continue browsing the menu</a>
			<a href="/book" class="ml-auto bg-orange-600 text-white px-6 py-2 rounded-lg hover:bg-orange-700">Book a table</a>
		</div>
	</div>
</body>
</html>`)
	fmt.Fprint(w, b.String())
}

// AddToCart adds a menu item to the cart and returns an HTMX fragment
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	menuItemID, err := strconv.Atoi(r.FormValue("menu_item_id"))
	if err != nil || menuItemID <= 0 {
		errorFragment(w, http.StatusBadRequest, "Invalid menu item.")
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		quantity = 1
	}
	if quantity < 1 {
		errorFragment(w, http.StatusBadRequest, "Quantity must be at least 1.")
		return
	}

	item, err := h.menuService.GetMenuItem(r.Context(), menuItemID)
	if err != nil {
		log.Printf("Error fetching menu item %d: %v", menuItemID, err)
		errorFragment(w, http.StatusNotFound, "That dish is not on the menu.")
		return
	}
	if !item.IsOrderable() {
		errorFragment(w, http.StatusConflict, "That dish is not available right now.")
		return
	}

	c := openCart(r, session, h.snapshots)
	if err := c.AddItem(r.Context(), *item, quantity); err != nil {
		log.Printf("Error persisting cart: %v", err)
	}

	if h.snapshots == nil {
		if err := session.Save(r, w); err != nil {
			log.Printf("Error saving session: %v", err)
			handleSessionError(w, r)
			return
		}
	}

	snapshot := c.Snapshot()
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<div class="bg-green-50 border border-green-200 text-green-800 p-3 rounded-md">
		<p class="text-sm">Added <strong>%s</strong> to your cart.</p>
		<p class="text-xs text-green-700 mt-1">%d item(s), %s total</p>
	</div>`, html.EscapeString(item.Name), snapshot.TotalQuantity, formatAmount(snapshot.TotalAmount))
}

// UpdateCartItem changes the quantity of a cart line and returns the
// refreshed cart contents fragment
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	menuItemID, err := strconv.Atoi(r.FormValue("menu_item_id"))
	if err != nil || menuItemID <= 0 {
		errorFragment(w, http.StatusBadRequest, "Invalid menu item.")
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		errorFragment(w, http.StatusBadRequest, "Invalid quantity.")
		return
	}
	if quantity < 1 {
		errorFragment(w, http.StatusBadRequest, "Quantity must be at least 1. Remove the item instead.")
		return
	}

	c := openCart(r, session, h.snapshots)
	if err := c.UpdateQuantity(r.Context(), menuItemID, quantity); err != nil {
		log.Printf("Error persisting cart: %v", err)
	}

	if h.snapshots == nil {
		if err := session.Save(r, w); err != nil {
			log.Printf("Error saving session: %v", err)
			handleSessionError(w, r)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, renderCartContents(c.Snapshot()))
}

// RemoveFromCart deletes a cart line and returns the refreshed cart
// contents fragment. Removing an absent line is not an error.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	menuItemID, err := strconv.Atoi(r.FormValue("menu_item_id"))
	if err != nil || menuItemID <= 0 {
		errorFragment(w, http.StatusBadRequest, "Invalid menu item.")
		return
	}

	c := openCart(r, session, h.snapshots)
	if err := c.RemoveItem(r.Context(), menuItemID); err != nil {
		log.Printf("Error persisting cart: %v", err)
	}

	if h.snapshots == nil {
		if err := session.Save(r, w); err != nil {
			log.Printf("Error saving session: %v", err)
			handleSessionError(w, r)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, renderCartContents(c.Snapshot()))
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	c := openCart(r, session, h.snapshots)
	if err := c.Clear(r.Context()); err != nil {
		log.Printf("Error persisting cart: %v", err)
	}

	if h.snapshots == nil {
		if err := session.Save(r, w); err != nil {
			log.Printf("Error saving session: %v", err)
			handleSessionError(w, r)
			return
		}
	}

	handleRedirect(w, r, "/cart", http.StatusSeeOther)
}

// renderCartContents renders the cart line list with per-line controls,
// shared by the cart page and the HTMX refresh fragments.
func renderCartContents(snapshot models.CartSnapshot) string {
	if snapshot.IsEmpty() {
		return `<div class="bg-white rounded-lg shadow p-8 text-center text-gray-500">
			Your cart is empty. Add some dishes from the menu before booking.
		</div>`
	}

	var b strings.Builder
	b.WriteString(`<div class="bg-white rounded-lg shadow divide-y divide-gray-100">`)
	for _, line := range snapshot.Items {
		b.WriteString(fmt.Sprintf(`
		<div class="flex items-center gap-4 p-4">
			<div class="flex-1">
				<p class="font-medium text-gray-900">%s</p>
				<p class="text-sm text-gray-500">%s each</p>
			</div>
			<form hx-post="/cart/update" hx-target="#cart-contents" class="flex items-center gap-2">
				<input type="hidden" name="menu_item_id" value="%d">
				<input type="number" name="quantity" value="%d" min="1" class="w-16 border rounded px-2 py-1 text-center">
				<button type="submit" class="text-sm text-orange-600 hover:text-orange-700">Update</button>
			</form>
			<p class="w-28 text-right font-medium">%s</p>
			<form hx-post="/cart/remove" hx-target="#cart-contents">
				<input type="hidden" name="menu_item_id" value="%d">
				<button type="submit" class="text-sm text-red-600 hover:text-red-700">Remove</button>
			</form>
		</div>`,
			html.EscapeString(line.Name), formatAmount(line.UnitPrice),
			line.MenuItemID, line.Quantity,
			formatAmount(line.Subtotal()),
			line.MenuItemID))
	}
	b.WriteString(fmt.Sprintf(`
		<div class="flex items-center justify-between p-4">
			<p class="text-gray-600">%d item(s)</p>
			<p class="text-lg font-bold text-gray-900">%s</p>
		</div>
	</div>`, snapshot.TotalQuantity, formatAmount(snapshot.TotalAmount)))
	return b.String()
}
