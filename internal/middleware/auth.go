package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"restaurant-booking-platform/internal/models"
)

type contextKey string

const (
	// UserContextKey is the request-context key the current user lives under
	UserContextKey contextKey = "user"
)

// AuthMiddleware reads the authenticated user out of the shared session.
// Sign-in itself is owned by the external identity service; it lays the
// user values down in the session this storefront shares.
type AuthMiddleware struct {
	store sessions.Store
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(store sessions.Store) *AuthMiddleware {
	return &AuthMiddleware{store: store}
}

// LoadUser loads the current user from the session and adds it to the
// request context. Requests without a user continue anonymously.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := session.Values["user_id"].(int)
		if !ok || userID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user := &models.User{ID: userID}
		user.Email, _ = session.Values["user_email"].(string)
		user.FirstName, _ = session.Values["user_first_name"].(string)
		user.LastName, _ = session.Values["user_last_name"].(string)

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests. HTMX requests get a client-side
// redirect header, regular requests a plain redirect to the sign-in page.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			if IsHTMXRequest(r) {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the current user, or nil for anonymous requests
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
