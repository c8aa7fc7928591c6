package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"restaurant-booking-platform/internal/middleware"
)

// AuthHandler serves the sign-in pages. Identity itself lives in the
// reservation backend; this storefront only records who the customer is in
// the session. The development form signs in without a password so the
// booking flow can be exercised locally.
type AuthHandler struct {
	store   sessions.Store
	devMode bool
}

func NewAuthHandler(store sessions.Store, devMode bool) *AuthHandler {
	return &AuthHandler{store: store, devMode: devMode}
}

// LoginPage renders the sign-in page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Sign In</title>
	<script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-50 min-h-screen">
	<div class="max-w-md mx-auto px-4 py-16">
		<div class="bg-white rounded-lg shadow p-6">
			<h1 class="text-xl font-bold text-gray-900 mb-4">Sign In</h1>`)

	if h.devMode {
		b.WriteString(`
			<form method="POST" action="/login">
				<div class="mb-3">
					<label class="block text-sm font-medium text-gray-700 mb-1">Email</label>
					<input type="email" name="email" required class="w-full border rounded px-3 py-2">
				</div>
				<div class="mb-4">
					<label class="block text-sm font-medium text-gray-700 mb-1">Name</label>
					<input type="text" name="name" class="w-full border rounded px-3 py-2">
				</div>
				<button type="submit" class="w-full bg-orange-600 text-white py-2 rounded-lg hover:bg-orange-700">Sign in</button>
			</form>
			<p class="text-xs text-gray-400 mt-3">Development sign-in: no password required.</p>`)
	} else {
		b.WriteString(`
			<p class="text-sm text-gray-500">Sign in through the restaurant's customer portal, then return here to finish your booking.</p>`)
	}

	b.WriteString(`
		</div>
	</div>
</body>
</html>`)
	fmt.Fprint(w, b.String())
}

// Login signs the customer in. Only available in development.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.devMode {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	firstName, lastName := splitName(name)

	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	session.Values["user_id"] = 1
	session.Values["user_email"] = email
	session.Values["user_first_name"] = firstName
	session.Values["user_last_name"] = lastName

	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving session: %v", err)
		handleSessionError(w, r)
		return
	}

	http.Redirect(w, r, "/book", http.StatusSeeOther)
}

// Logout clears the customer's identity from the session. The cart is kept:
// signing out does not throw away composed dishes.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		handleSessionError(w, r)
		return
	}

	delete(session.Values, "user_id")
	delete(session.Values, "user_email")
	delete(session.Values, "user_first_name")
	delete(session.Values, "user_last_name")

	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving session: %v", err)
	}

	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

func splitName(name string) (string, string) {
	if name == "" {
		return "Guest", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

