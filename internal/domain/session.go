package domain

// Session carries the operator identity for one terminal session. It is
// injected into the catalog loader and the order gateway; core logic
// never reads tokens from ambient storage.
type Session struct {
	Token    string
	UserID   int64
	Username string
}

// Valid reports whether the session carries a usable bearer token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
