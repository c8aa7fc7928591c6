package middleware

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie name shared with the identity service
const SessionName = "session"

// sidKey is the session value carrying the stable per-browser id that carts
// and composing sessions are keyed by
const sidKey = "sid"

// SessionMiddleware provides session management functionality
type SessionMiddleware struct {
	store sessions.Store
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(store sessions.Store) *SessionMiddleware {
	return &SessionMiddleware{store: store}
}

// EnsureSessionID guarantees every request carries a stable session id,
// minting one on first contact
func (m *SessionMiddleware) EnsureSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			// A cookie that fails to decode gets replaced with a fresh
			// session rather than failing the request
			log.Printf("session: failed to decode cookie: %v", err)
		}

		if _, ok := session.Values[sidKey].(string); !ok {
			session.Values[sidKey] = uuid.NewString()
			if err := session.Save(r, w); err != nil {
				log.Printf("session: failed to save new session: %v", err)
			}
		}

		next.ServeHTTP(w, r)
	})
}

// GetSessionID returns the stable id for a session, or "" when absent
func GetSessionID(session *sessions.Session) string {
	sid, _ := session.Values[sidKey].(string)
	return sid
}
