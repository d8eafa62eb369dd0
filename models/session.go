package models

// Session is the authenticated actor performing an operation. It is passed
// explicitly to catalog fetches and product mutations.
type Session struct {
	UserID string
	Name   string
	Role   Role
}

// IsZero reports whether no actor is signed in.
func (s Session) IsZero() bool {
	return s.UserID == ""
}

// Can reports whether the session's role holds capability c.
func (s Session) Can(c Capability) bool {
	return !s.IsZero() && s.Role.Can(c)
}
