package workers

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"social-club/mocks"
	"social-club/observability"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRelayWorker_Delivers_Received_Frames_Locally(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	monitoring := observability.NewMonitoringManager(log)
	relay := mocks.NewMockRelay(ctrl)
	deliverer := mocks.NewMockIDeliverer(ctrl)
	frame := []byte(`{"type":"new-message"}`)

	// Given the relay hands over one frame for U2 then ends
	relay.EXPECT().Subscribe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, onFrame func(string, []byte)) error {
			onFrame("u2", frame)
			return fmt.Errorf("connection reset")
		})
	// Then it is pushed to U2's local connections only, never relayed again
	deliverer.EXPECT().DeliverLocal("u2", frame).Return(1).Times(1)
	deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := NewRelayWorker(log, relay, deliverer, monitoring).Run(context.Background())

	req.Error(err)
	req.Equal(uint64(1), monitoring.Refresh(nil).RelayReceived)
}

func TestRelayWorker_Canceled_Context_Is_Not_A_Failure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	relay := mocks.NewMockRelay(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	relay.EXPECT().Subscribe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ func(string, []byte)) error {
			cancel()
			return ctx.Err()
		})

	err := NewRelayWorker(log, relay, mocks.NewMockIDeliverer(ctrl), observability.NewMonitoringManager(log)).Run(ctx)

	req.NoError(err)
}
