package ports

import (
	"context"

	"github.com/bloodlink/dashboard/core"
)

// TokenExchanger trades an identity credential and a declared role for a backend session
type TokenExchanger interface {
	Exchange(ctx context.Context, credential core.Credential, declared core.Role) (core.ExchangeResult, error)
}
