package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MonitoringStats aggregates delivery and process metrics for the admin dashboard.
type MonitoringStats struct {
	NotificationsPushed     uint64 `json:"notifications_pushed"`
	NotificationsDropped    uint64 `json:"notifications_dropped"`
	NotificationsSuppressed uint64 `json:"notifications_suppressed"`
	MessagesPersisted       uint64 `json:"messages_persisted"`
	MessagesPushed          uint64 `json:"messages_pushed"`
	PushFailures            uint64 `json:"push_failures"`
	HandlerFailures         uint64 `json:"handler_failures"`
	RejectedEvents          uint64 `json:"rejected_events"`
	RelayForwarded          uint64 `json:"relay_forwarded"`
	RelayReceived           uint64 `json:"relay_received"`

	AllocMemMb uint64  `json:"alloc_mem_mb"`
	NumGC      uint32  `json:"num_gc"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	PidStatus  string  `json:"pid_status"`
	UpdatedAt  string  `json:"updated_at"`
}

// MonitoringManager holds live counters. Increments are lock free;
// Refresh copies them into a snapshot read by GetLatest.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats MonitoringStats

	notificationsPushed     uint64
	notificationsDropped    uint64
	notificationsSuppressed uint64
	messagesPersisted       uint64
	messagesPushed          uint64
	pushFailures            uint64
	handlerFailures         uint64
	rejectedEvents          uint64
	relayForwarded          uint64
	relayReceived           uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log}
}

func (mm *MonitoringManager) IncrNotificationsPushed(n int) {
	atomic.AddUint64(&mm.notificationsPushed, uint64(n))
}

func (mm *MonitoringManager) IncrNotificationsDropped() {
	atomic.AddUint64(&mm.notificationsDropped, 1)
}

func (mm *MonitoringManager) IncrNotificationsSuppressed() {
	atomic.AddUint64(&mm.notificationsSuppressed, 1)
}

func (mm *MonitoringManager) IncrMessagesPersisted() {
	atomic.AddUint64(&mm.messagesPersisted, 1)
}

func (mm *MonitoringManager) IncrMessagesPushed(n int) {
	atomic.AddUint64(&mm.messagesPushed, uint64(n))
}

func (mm *MonitoringManager) IncrPushFailures() {
	atomic.AddUint64(&mm.pushFailures, 1)
}

func (mm *MonitoringManager) IncrHandlerFailures() {
	atomic.AddUint64(&mm.handlerFailures, 1)
}

func (mm *MonitoringManager) IncrRejectedEvents() {
	atomic.AddUint64(&mm.rejectedEvents, 1)
}

func (mm *MonitoringManager) IncrRelayForwarded() {
	atomic.AddUint64(&mm.relayForwarded, 1)
}

func (mm *MonitoringManager) IncrRelayReceived() {
	atomic.AddUint64(&mm.relayReceived, 1)
}

// Refresh loads the counters and Go runtime memory stats into the snapshot.
// Process stats are optional: pass nil when gopsutil could not read them.
func (mm *MonitoringManager) Refresh(proc *ProcessStats) MonitoringStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.Lock()
	defer mm.mu.Unlock()

	mm.latestStats.NotificationsPushed = atomic.LoadUint64(&mm.notificationsPushed)
	mm.latestStats.NotificationsDropped = atomic.LoadUint64(&mm.notificationsDropped)
	mm.latestStats.NotificationsSuppressed = atomic.LoadUint64(&mm.notificationsSuppressed)
	mm.latestStats.MessagesPersisted = atomic.LoadUint64(&mm.messagesPersisted)
	mm.latestStats.MessagesPushed = atomic.LoadUint64(&mm.messagesPushed)
	mm.latestStats.PushFailures = atomic.LoadUint64(&mm.pushFailures)
	mm.latestStats.HandlerFailures = atomic.LoadUint64(&mm.handlerFailures)
	mm.latestStats.RejectedEvents = atomic.LoadUint64(&mm.rejectedEvents)
	mm.latestStats.RelayForwarded = atomic.LoadUint64(&mm.relayForwarded)
	mm.latestStats.RelayReceived = atomic.LoadUint64(&mm.relayReceived)
	mm.latestStats.AllocMemMb = m.Alloc / 1024 / 1024
	mm.latestStats.NumGC = m.NumGC
	if proc != nil {
		mm.latestStats.RSSBytes = proc.RSSBytes
		mm.latestStats.CPUPercent = proc.CPUPercent
		mm.latestStats.PidStatus = proc.Status
	}
	mm.latestStats.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	mm.log.Debug("Stats refreshed",
		"notifications_pushed", mm.latestStats.NotificationsPushed,
		"notifications_dropped", mm.latestStats.NotificationsDropped,
		"messages_pushed", mm.latestStats.MessagesPushed,
		"mem_mb", mm.latestStats.AllocMemMb,
	)
	return mm.latestStats
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}
