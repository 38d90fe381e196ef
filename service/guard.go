package service

// Decision is the outcome of an access check
type Decision int

const (
	Deny Decision = iota
	Permit
)

func (d Decision) String() string {
	if d == Permit {
		return "permit"
	}
	return "deny"
}

// TokenSource exposes the token of the current session
type TokenSource interface {
	CurrentToken() string
}

// Guard gates protected navigation on the presence of a session token.
// It does not look at the role.
type Guard struct {
	sessions TokenSource
}

// NewGuard creates a new guard
func NewGuard(sessions TokenSource) *Guard {
	return &Guard{sessions: sessions}
}

// Authorize permits iff the current session has a token
func (g *Guard) Authorize() Decision {
	if g.sessions.CurrentToken() != "" {
		return Permit
	}
	return Deny
}
