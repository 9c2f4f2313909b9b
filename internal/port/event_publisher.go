package port

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}
