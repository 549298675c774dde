package eventpublisherv1

import "context"

// EventPublisher defines the interface for publishing emitted book records.
// The book does not depend on publishing for correctness; failures are logged
// and never roll back matching.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=eventpublisherv1_mock
type EventPublisher interface {
	// Publish publishes a single event to the event topic.
	Publish(ctx context.Context, event *Event) error
}
