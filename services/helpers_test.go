package services

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"social-club/observability"
	"social-club/protocol"
	"social-club/runtime"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// recordingConn keeps every frame pushed to it.
type recordingConn struct {
	id     string
	userID string
	mu     sync.Mutex
	frames [][]byte
}

func newRecordingConn(userID string) *recordingConn {
	return &recordingConn{id: uuid.NewString(), userID: userID}
}

func (c *recordingConn) ID() string     { return c.id }
func (c *recordingConn) UserID() string { return c.userID }

func (c *recordingConn) Push(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame)
	return nil
}

func (c *recordingConn) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.frames...)
}

// liveRuntime is the in-process fan-out stack used by the service tests.
type liveRuntime struct {
	log        *slog.Logger
	registry   *runtime.Registry
	deliverer  *runtime.Deliverer
	bus        *runtime.Bus
	monitoring *observability.MonitoringManager
}

func newLiveRuntime() liveRuntime {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	registry := runtime.NewRegistry()
	return liveRuntime{
		log:        log,
		registry:   registry,
		deliverer:  runtime.NewDeliverer(log, registry, nil, monitoring),
		bus:        runtime.NewBus(log, time.Second, monitoring),
		monitoring: monitoring,
	}
}

func (r liveRuntime) connect(userID string) *recordingConn {
	conn := newRecordingConn(userID)
	r.registry.Register(userID, conn)
	return conn
}

func decodeFrame[T any](t *testing.T, frame []byte) (protocol.Type, T) {
	t.Helper()
	var env protocol.Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	var payload T
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return env.Type, payload
}
