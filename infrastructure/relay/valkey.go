// Package relay forwards socket frames between server nodes over valkey pub/sub.
package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-json-experiment/json"
	"github.com/valkey-io/valkey-go"
)

const DefaultChannel = "social:frames"

// envelope is what travels on the channel. Origin lets a node skip its own publications.
type envelope struct {
	Origin string `json:"origin"`
	UserID string `json:"userId"`
	Frame  []byte `json:"frame"`
}

type ValkeyRelay struct {
	log     *slog.Logger
	client  valkey.Client
	channel string
	nodeID  string
}

// Dial connects to the valkey server at address.
func Dial(address string) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{address}})
	if err != nil {
		return nil, fmt.Errorf("valkey dial %s: %w", address, err)
	}
	return client, nil
}

func NewValkeyRelay(log *slog.Logger, client valkey.Client, channel, nodeID string) *ValkeyRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &ValkeyRelay{log: log, client: client, channel: channel, nodeID: nodeID}
}

func (r *ValkeyRelay) Publish(ctx context.Context, userID string, frame []byte) error {
	payload, err := encode(r.nodeID, userID, frame)
	if err != nil {
		return err
	}
	cmd := r.client.B().Publish().Channel(r.channel).Message(payload).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("relay publish: %w", err)
	}
	return nil
}

// Subscribe blocks until ctx is done or the subscription breaks.
func (r *ValkeyRelay) Subscribe(ctx context.Context, onFrame func(userID string, frame []byte)) error {
	cmd := r.client.B().Subscribe().Channel(r.channel).Build()
	return r.client.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
		env, err := decode(msg.Message)
		if err != nil {
			r.log.Warn("Dropping malformed relay message", "error", err)
			return
		}
		if env.Origin == r.nodeID {
			return
		}
		onFrame(env.UserID, env.Frame)
	})
}

func (r *ValkeyRelay) Close() {
	r.client.Close()
}

func encode(origin, userID string, frame []byte) (string, error) {
	b, err := json.Marshal(envelope{Origin: origin, UserID: userID, Frame: frame})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decode(message string) (envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(message), &env); err != nil {
		return envelope{}, err
	}
	if env.UserID == "" {
		return envelope{}, fmt.Errorf("relay message without user id")
	}
	return env, nil
}
