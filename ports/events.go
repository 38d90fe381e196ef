package ports

import (
	"context"

	"github.com/bloodlink/dashboard/core"
)

// EventPublisher publishes session lifecycle events
type EventPublisher interface {
	PublishLogin(ctx context.Context, role core.Role) error
	PublishLogout(ctx context.Context, role core.Role) error
}

// NoopPublisher is used when no event driver is configured
var NoopPublisher EventPublisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) PublishLogin(context.Context, core.Role) error  { return nil }
func (noopPublisher) PublishLogout(context.Context, core.Role) error { return nil }
