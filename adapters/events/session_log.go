package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	slogctx "github.com/veqryn/slog-context"
)

// LogSessionEvents logs every session event published on topic.
// It returns once ctx is done and the subscription is drained.
func LogSessionEvents(ctx context.Context, subscriber message.Subscriber, topic string) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	for msg := range messages {
		var event SessionEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			slogctx.Warn(ctx, "Dropping undecodable session event", "message_id", msg.UUID, "error", err)
			msg.Ack()
			continue
		}

		slogctx.Info(ctx, "Session event",
			"type", event.Type,
			"role", event.Role,
			"at", event.At,
			"message_id", msg.UUID,
		)
		msg.Ack()
	}

	return nil
}
