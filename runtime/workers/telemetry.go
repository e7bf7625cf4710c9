package workers

import (
	"context"
	"log/slog"
	"time"

	"social-club/contract"
	"social-club/observability"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically refreshes the monitoring snapshot with
// process stats and logs delivery counters alongside the registry size.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	monitoring     *observability.MonitoringManager
	registry       contract.IRegistry
	process        *process.Process
}

func NewTelemetryWorker(log *slog.Logger,
	metricInterval time.Duration,
	monitoring *observability.MonitoringManager,
	registry contract.IRegistry) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		metricInterval: metricInterval,
		monitoring:     monitoring,
		registry:       registry,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	if w.process == nil {
		p, err := observability.SelfProcess()
		if err != nil {
			return err
		}
		w.process = p
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *TelemetryWorker) tick() {
	var procStats *observability.ProcessStats
	if s, err := observability.ReadProcessStats(w.process); err != nil {
		w.log.Warn("Failed to collect self stats", "error", err)
	} else {
		procStats = &s
	}

	stats := w.monitoring.Refresh(procStats)
	registry := w.registry.Stats()
	w.log.Info("telemetry",
		"online_users", registry.Users,
		"connections", registry.Connections,
		"notifications_pushed", stats.NotificationsPushed,
		"notifications_dropped", stats.NotificationsDropped,
		"messages_pushed", stats.MessagesPushed,
		"push_failures", stats.PushFailures,
		"handler_failures", stats.HandlerFailures,
		"rss_bytes", stats.RSSBytes,
		"cpu_percent", stats.CPUPercent,
	)
}
