package workers

import (
	"context"
	"log/slog"

	"social-club/contract"
	"social-club/observability"
)

// RelayWorker consumes frames published by other nodes and pushes them to local connections.
type RelayWorker struct {
	log        *slog.Logger
	relay      contract.Relay
	deliverer  contract.IDeliverer
	monitoring *observability.MonitoringManager
}

func NewRelayWorker(log *slog.Logger, relay contract.Relay, deliverer contract.IDeliverer, monitoring *observability.MonitoringManager) *RelayWorker {
	return &RelayWorker{log: log, relay: relay, deliverer: deliverer, monitoring: monitoring}
}

// Run blocks on the relay subscription; the supervisor restarts it if the connection drops.
func (w *RelayWorker) Run(ctx context.Context) error {
	w.log.Info("Starting relay consumer")
	err := w.relay.Subscribe(ctx, func(userID string, frame []byte) {
		w.monitoring.IncrRelayReceived()
		delivered := w.deliverer.DeliverLocal(userID, frame)
		w.log.Debug("Relayed frame delivered", "user_id", userID, "connections", delivered)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}
