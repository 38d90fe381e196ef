package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// DefaultTopic is the topic session events are published on unless configured otherwise
const DefaultTopic = "bloodlink.session"

// Event types
const (
	TypeLogin  = "login"
	TypeLogout = "logout"
)

// SessionEvent represents a session lifecycle event.
// It never carries the token.
type SessionEvent struct {
	Type string    `json:"type"`
	Role core.Role `json:"role"`
	At   time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	now       func() time.Time
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher, topic string) *WatermillPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
		now:       time.Now,
	}
}

var _ ports.EventPublisher = (*WatermillPublisher)(nil)

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, role core.Role) error {
	return p.publish(ctx, TypeLogin, role)
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, role core.Role) error {
	return p.publish(ctx, TypeLogout, role)
}

func (p *WatermillPublisher) publish(ctx context.Context, eventType string, role core.Role) error {
	event := SessionEvent{
		Type: eventType,
		Role: role,
		At:   p.now().UTC().Truncate(time.Second),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", eventType, err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", eventType)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publishing %s event: %w", eventType, err)
	}

	return nil
}

// Close closes the underlying publisher
func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
