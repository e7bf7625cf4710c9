package runtime

import (
	"context"
	"log/slog"

	"social-club/contract"
	"social-club/observability"
)

// Deliverer pushes encoded frames to every live connection of a user.
// Delivery is at most once: a failed push is logged and never retried.
type Deliverer struct {
	log        *slog.Logger
	registry   contract.IRegistry
	relay      contract.Relay
	monitoring *observability.MonitoringManager
}

// NewDeliverer builds a Deliverer. relay may be nil when the server runs as a single node.
func NewDeliverer(log *slog.Logger, registry contract.IRegistry, relay contract.Relay, monitoring *observability.MonitoringManager) *Deliverer {
	return &Deliverer{log: log, registry: registry, relay: relay, monitoring: monitoring}
}

// DeliverLocal pushes to connections held by this node only and returns how many accepted the frame.
func (d *Deliverer) DeliverLocal(userID string, frame []byte) int {
	delivered := 0
	for _, conn := range d.registry.Connections(userID) {
		if err := conn.Push(frame); err != nil {
			d.monitoring.IncrPushFailures()
			d.log.Warn("Push failed", "user_id", userID, "connection_id", conn.ID(), "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// Deliver pushes locally then forwards the frame to the other nodes through the relay, if any.
func (d *Deliverer) Deliver(ctx context.Context, userID string, frame []byte) int {
	delivered := d.DeliverLocal(userID, frame)
	if d.relay == nil {
		return delivered
	}
	if err := d.relay.Publish(ctx, userID, frame); err != nil {
		d.log.Warn("Relay publish failed", "user_id", userID, "error", err)
		return delivered
	}
	d.monitoring.IncrRelayForwarded()
	return delivered
}

// Reachable reports whether a push to userID could land anywhere.
// Without a relay only local connections count.
func (d *Deliverer) Reachable(userID string) bool {
	return d.relay != nil || d.registry.IsOnline(userID)
}
