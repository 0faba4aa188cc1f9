package entity

// SessionContext is the caller's authentication state, passed explicitly to the ledger.
type SessionContext struct {
	UserID          string
	IsAuthenticated bool
	IsLoaded        bool
}

// Ready reports whether the session is loaded, signed in and carries a user id.
func (s SessionContext) Ready() bool {
	return s.IsLoaded && s.IsAuthenticated && s.UserID != ""
}
