package ports

import "github.com/bloodlink/dashboard/core"

// TokenInspector reads display claims out of a backend access token
type TokenInspector interface {
	Inspect(token string) (core.TokenClaims, error)
}
