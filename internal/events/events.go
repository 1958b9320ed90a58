package events

import "context"

// Event types pushed to realtime subscribers.
const (
	EventWalletConnected   = "wallet-connected"
	EventUserStatusUpdated = "user-status-updated"
	EventUserRegistered    = "user-registered"
	EventUserLogin         = "user-login"
)

// Streams (redis pub/sub channels)
const (
	StreamWallet = "events:wallet"
	StreamUser   = "events:user"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
