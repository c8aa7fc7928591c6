package models

// User is the authenticated customer as handed over by the identity service.
// Authentication itself happens outside this application; the storefront only
// reads the user laid down in the shared session.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
