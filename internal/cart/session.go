package cart

import (
	"context"

	"github.com/gorilla/sessions"

	"restaurant-booking-platform/internal/models"
)

// sessionValueKey is the fixed key the snapshot lives under inside the
// session values
const sessionValueKey = "cart"

// SessionStore persists cart snapshots inside the customer's cookie
// session. It is the fallback when Redis is not configured. Writes land in
// the in-memory session values; the handler's session.Save flushes them to
// the cookie at the end of the request.
type SessionStore struct {
	session *sessions.Session
}

// NewSessionStore creates a snapshot store backed by the given session
func NewSessionStore(session *sessions.Session) *SessionStore {
	return &SessionStore{session: session}
}

// Load reads the snapshot out of the session values. Anything that is not a
// decodable snapshot string is treated as absent.
func (s *SessionStore) Load(_ context.Context, _ string) (models.CartSnapshot, bool, error) {
	raw, ok := s.session.Values[sessionValueKey]
	if !ok {
		return models.CartSnapshot{}, false, nil
	}

	data, ok := raw.(string)
	if !ok {
		delete(s.session.Values, sessionValueKey)
		return models.CartSnapshot{}, false, nil
	}

	snap, ok := DecodeSnapshot(data)
	if !ok {
		delete(s.session.Values, sessionValueKey)
		return models.CartSnapshot{}, false, nil
	}
	return snap, true, nil
}

// Save stores the encoded snapshot in the session values
func (s *SessionStore) Save(_ context.Context, _ string, snap models.CartSnapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	s.session.Values[sessionValueKey] = data
	return nil
}

// Delete removes the snapshot from the session values
func (s *SessionStore) Delete(_ context.Context, _ string) error {
	delete(s.session.Values, sessionValueKey)
	return nil
}
