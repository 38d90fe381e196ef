package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with the ones the BloodLink API puts in access tokens
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}
