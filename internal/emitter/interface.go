package emitter

import "context"

// Publisher pushes a serialized event onto one exchange of the message bus.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}
