package lifecycle

import (
	"context"
	"time"

	"pet-rescue/server/logging"
)

const (
	EventRoundStarted       logging.EventType = "round_started"
	EventClientJoined       logging.EventType = "client_joined"
	EventClientDisconnected logging.EventType = "client_disconnected"
)

type RoundStartedPayload struct {
	MapName   string  `json:"mapName"`
	Pets      int     `json:"pets"`
	TimeLimit float64 `json:"timeLimit"`
}

type ClientPayload struct {
	Reason string `json:"reason,omitempty"`
}

func RoundStarted(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload RoundStartedPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventRoundStarted,
		Tick:    tick,
		Time:    time.Now(),
		Actor:   logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Payload: payload,
	})
}

func ClientJoined(ctx context.Context, pub logging.Publisher, tick uint64, clientID string) {
	publish(ctx, pub, logging.Event{
		Type:  EventClientJoined,
		Tick:  tick,
		Time:  time.Now(),
		Actor: logging.EntityRef{ID: clientID, Kind: logging.EntityKindPlayer},
	})
}

func ClientDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, clientID, reason string) {
	publish(ctx, pub, logging.Event{
		Type:    EventClientDisconnected,
		Tick:    tick,
		Time:    time.Now(),
		Actor:   logging.EntityRef{ID: clientID, Kind: logging.EntityKindPlayer},
		Payload: ClientPayload{Reason: reason},
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	event.Severity = logging.SeverityInfo
	event.Category = logging.CategoryLifecycle
	pub.Publish(ctx, event)
}
