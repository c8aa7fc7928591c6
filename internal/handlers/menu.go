package handlers

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"

	"restaurant-booking-platform/internal/models"
	"restaurant-booking-platform/internal/services"
)

// MenuHandler serves the browsable menu pages
type MenuHandler struct {
	menuService services.MenuAPI
}

func NewMenuHandler(menuService services.MenuAPI) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// MenuPage renders the menu grouped by category, with add-to-cart controls
func (h *MenuHandler) MenuPage(w http.ResponseWriter, r *http.Request) {
	items, err := h.menuService.ListMenuItems(r.Context())
	if err != nil {
		log.Printf("Error fetching menu: %v", err)
		http.Error(w, "The menu is temporarily unavailable", http.StatusBadGateway)
		return
	}

	categories, err := h.menuService.ListCategories(r.Context())
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		categories = nil
	}

	byCategory := make(map[int][]*models.MenuItem)
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}

	w.Header().Set("Content-Type", "text/html")

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Menu</title>
	<script src="https://unpkg.com/htmx.org@1.9.10"></script>
	<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
	<div class="max-w-4xl mx-auto px-4 py-8">
		<div class="flex items-center justify-between mb-6">
			<h1 class="text-2xl font-bold text-gray-900">Our Menu</h1>
			<div class="flex gap-4">
				<a href="/cart" class="text-orange-600 hover:text-orange-700">Cart</a>
				<a href="/book" class="bg-orange-600 text-white px-4 py-2 rounded-lg hover:bg-orange-700">Book a table</a>
			</div>
		</div>
		<div id="cart-feedback" class="mb-4"></div>`)

	if len(categories) == 0 {
		b.WriteString(renderMenuItems(items))
	} else {
		for _, cat := range categories {
			group := byCategory[cat.ID]
			if len(group) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf(`
		<h2 class="text-lg font-semibold text-gray-800 mt-6 mb-3">%s</h2>`, html.EscapeString(cat.Name)))
			b.WriteString(renderMenuItems(group))
		}
	}

	b.WriteString(`
	</div>
</body>
</html>`)
	fmt.Fprint(w, b.String())
}

func renderMenuItems(items []*models.MenuItem) string {
	var b strings.Builder
	b.WriteString(`<div class="grid grid-cols-1 sm:grid-cols-2 gap-4">`)
	for _, item := range items {
		b.WriteString(fmt.Sprintf(`
		<div class="bg-white rounded-lg shadow p-4">
			<p class="font-medium text-gray-900">%s</p>
			<p class="text-sm text-gray-500 mb-2">%s</p>
			<div class="flex items-center justify-between">
				<p class="font-bold text-orange-600">%s</p>`,
			html.EscapeString(item.Name),
			html.EscapeString(item.Description),
			formatAmount(item.Price)))

		if item.IsOrderable() {
			b.WriteString(fmt.Sprintf(`
				<form hx-post="/cart/add" hx-target="#cart-feedback" class="flex items-center gap-2">
					<input type="hidden" name="menu_item_id" value="%d">
					<input type="number" name="quantity" value="1" min="1" class="w-14 border rounded px-2 py-1 text-center">
					<button type="submit" class="bg-orange-600 text-white px-3 py-1 rounded hover:bg-orange-700 text-sm">Add</button>
				</form>`, item.ID))
		} else {
			b.WriteString(`
				<span class="text-sm text-gray-400">Sold out</span>`)
		}

		b.WriteString(`
			</div>
		</div>`)
	}
	b.WriteString(`
	</div>`)
	return b.String()
}
