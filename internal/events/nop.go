// Package events holds EventPublisher implementations that need no broker.
package events

import "context"

// NopPublisher discards every event. Used when no Kafka brokers are
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}
