package domain

// Session is an immutable snapshot of the console's authentication state.
// Guards evaluate snapshots, never live manager state.
type Session struct {
	// User is non-nil iff the last login or verification succeeded and no
	// logout has happened since.
	User *User
	// Token is the opaque bearer credential issued by the backend.
	Token string
	// Loading is true only between process start and the moment the first
	// verification attempt resolves.
	Loading bool
}

// Authenticated reports whether the snapshot carries an established identity.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// LoginResult is the payload of an already-successful backend authentication,
// handed to the session manager by the login handler.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
