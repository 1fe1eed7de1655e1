package domain

// Session identifies the caller of a cart, checkout or account operation.
// The zero value is a guest.
type Session struct {
	UserID string
	Email  string
}

func Guest() Session {
	return Session{}
}

func (s Session) IsGuest() bool {
	return s.UserID == ""
}
