//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"social-club/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Connection is one live, authenticated client session.
// Push must not block: implementations buffer and report ErrSendBufferFull instead.
type Connection interface {
	ID() string
	UserID() string
	Push(frame []byte) error
}

type RegistryStats struct {
	Users       int
	Connections int
}

// IRegistry maps a user to every live connection they hold.
// Only the socket gateway mutates it; everything else reads.
type IRegistry interface {
	Register(userID string, conn Connection)
	Unregister(conn Connection)
	Connections(userID string) []Connection
	IsOnline(userID string) bool
	Stats() RegistryStats
}

// Selector decides whether a subscriber receives an event kind.
type Selector interface {
	Matches(kind event.Kind) bool
}

type EventHandler interface {
	Handle(ctx context.Context, evt event.DomainEvent) error
}

// IEventBus is a synchronous in-process publish/subscribe bus.
// Publish never reports subscriber failures to the producer.
type IEventBus interface {
	Publish(ctx context.Context, evt event.DomainEvent)
	Subscribe(selector Selector, handler EventHandler)
}

// IDeliverer pushes an encoded frame to every connection of a user, wherever it lives.
type IDeliverer interface {
	Deliver(ctx context.Context, userID string, frame []byte) int
	DeliverLocal(userID string, frame []byte) int
	Reachable(userID string) bool
}

// Relay forwards frames between server nodes so a user connected elsewhere still receives them.
type Relay interface {
	Publish(ctx context.Context, userID string, frame []byte) error
	Subscribe(ctx context.Context, onFrame func(userID string, frame []byte)) error
	Close()
}
