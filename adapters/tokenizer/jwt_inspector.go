package tokenizer

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// JWTInspector implements the TokenInspector interface using JWT.
// The signing key stays with the backend, so signatures are not verified
// and the claims are only fit for display.
type JWTInspector struct {
	parser *jwt.Parser
}

// NewJWTInspector creates a new JWT inspector
func NewJWTInspector() *JWTInspector {
	return &JWTInspector{parser: jwt.NewParser()}
}

var _ ports.TokenInspector = (*JWTInspector)(nil)

// Inspect reads the claims of an access token without validating it
func (j *JWTInspector) Inspect(tokenStr string) (core.TokenClaims, error) {
	if tokenStr == "" {
		return core.TokenClaims{}, core.ErrEmptyToken
	}

	claims := &AccessClaims{}
	if _, _, err := j.parser.ParseUnverified(tokenStr, claims); err != nil {
		return core.TokenClaims{}, fmt.Errorf("parsing token: %w", errors.Join(err, core.ErrInvalidToken))
	}

	result := core.TokenClaims{
		UserID: claims.UserID,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
