package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"

	"restaurant-booking-platform/internal/cart"
	"restaurant-booking-platform/internal/middleware"
)

// formatAmount renders a minor-unit amount as Vietnamese dong, e.g.
// 120000 -> "120.000 ₫"
func formatAmount(amount int) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%s ₫", sign, string(out))
}

// openCart rehydrates the customer's cart. When a shared snapshot store is
// configured (Redis) it is used; otherwise the cart lives in the cookie
// session itself.
func openCart(r *http.Request, session *sessions.Session, snapshots cart.SnapshotStore) *cart.Store {
	persister := snapshots
	if persister == nil {
		persister = cart.NewSessionStore(session)
	}
	return cart.Open(r.Context(), persister, middleware.GetSessionID(session))
}

// handleRedirect handles redirects appropriately for HTMX vs regular requests
func handleRedirect(w http.ResponseWriter, r *http.Request, url string, statusCode int) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
	} else {
		http.Redirect(w, r, url, statusCode)
	}
}

// handleSessionError handles session errors appropriately for HTMX vs
// regular requests
func handleSessionError(w http.ResponseWriter, r *http.Request) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `<div class="bg-red-50 border border-red-200 text-red-800 p-4 rounded-lg">
			<p class="text-sm">Session error. Please refresh the page and try again.</p>
		</div>`)
	} else {
		http.Error(w, "Session error", http.StatusInternalServerError)
	}
}

// errorFragment renders a dismissable, stage-local error message
func errorFragment(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `<div class="bg-red-50 border border-red-200 text-red-800 p-3 rounded-md">
		<p class="text-sm">%s</p>
	</div>`, message)
}
