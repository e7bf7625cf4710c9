package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"social-club/contract"
	"social-club/domain/event"
	"social-club/observability"
)

// HandlerFunc adapts a plain function to contract.EventHandler.
type HandlerFunc func(ctx context.Context, evt event.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, evt event.DomainEvent) error {
	return f(ctx, evt)
}

type kindSelector map[event.Kind]struct{}

func (s kindSelector) Matches(kind event.Kind) bool {
	_, ok := s[kind]
	return ok
}

type namespaceSelector event.Namespace

func (s namespaceSelector) Matches(kind event.Kind) bool {
	return kind.Namespace() == event.Namespace(s)
}

type allSelector struct{}

func (allSelector) Matches(kind event.Kind) bool { return kind.Valid() }

// ForKinds selects exactly the listed kinds.
func ForKinds(kinds ...event.Kind) contract.Selector {
	s := make(kindSelector, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// ForNamespace selects every kind of a family, e.g. all post events.
func ForNamespace(ns event.Namespace) contract.Selector {
	return namespaceSelector(ns)
}

func AllKinds() contract.Selector {
	return allSelector{}
}

type subscription struct {
	selector contract.Selector
	handler  contract.EventHandler
}

// Bus is a synchronous, in-process publish/subscribe bus.
//
// Publish returns once every matching handler has run. Handlers are invoked
// in subscription order with a context detached from the publisher's
// cancellation and bounded by handlerTimeout. Handler errors and panics are
// logged and counted, never returned: the mutation that produced the event
// has already committed.
type Bus struct {
	mu             sync.RWMutex
	log            *slog.Logger
	subscriptions  []subscription
	handlerTimeout time.Duration
	monitoring     *observability.MonitoringManager
}

const defaultHandlerTimeout = 5 * time.Second

func NewBus(log *slog.Logger, handlerTimeout time.Duration, monitoring *observability.MonitoringManager) *Bus {
	if handlerTimeout <= 0 {
		handlerTimeout = defaultHandlerTimeout
	}
	return &Bus{log: log, handlerTimeout: handlerTimeout, monitoring: monitoring}
}

func (b *Bus) Subscribe(selector contract.Selector, handler contract.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = append(b.subscriptions, subscription{selector: selector, handler: handler})
}

func (b *Bus) Publish(ctx context.Context, evt event.DomainEvent) {
	if !evt.Kind.Valid() {
		b.monitoring.IncrRejectedEvents()
		b.log.Warn("Rejected event with unknown kind", "kind", evt.Kind)
		return
	}

	b.mu.RLock()
	subscriptions := slices.Clone(b.subscriptions)
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, sub := range subscriptions {
		if !sub.selector.Matches(evt.Kind) {
			continue
		}
		if err := b.invoke(detached, sub.handler, evt); err != nil {
			b.monitoring.IncrHandlerFailures()
			b.log.Error("Event handler failed",
				"kind", evt.Kind,
				"target", evt.TargetUserID,
				"actor", evt.ActorUserID,
				"error", err)
		}
	}
}

func (b *Bus) invoke(ctx context.Context, handler contract.EventHandler, evt event.DomainEvent) (err error) {
	ctx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler.Handle(ctx, evt)
}
