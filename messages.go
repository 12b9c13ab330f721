package server

import (
	"time"

	"pet-rescue/server/internal/mapdata"
	"pet-rescue/server/internal/world"
)

// joinResponse carries everything the client needs to render the round: the
// full map document once, the round config, and the first snapshot.
type joinResponse struct {
	Ver      int               `json:"ver"`
	ID       string            `json:"id"`
	Map      *mapdata.Document `json:"map"`
	Config   world.Config      `json:"config"`
	Snapshot world.Snapshot    `json:"snapshot"`
}

// stateMessage is the per-tick broadcast to a subscriber.
type stateMessage struct {
	Ver        int            `json:"ver"`
	Type       string         `json:"type"`
	Snapshot   world.Snapshot `json:"snapshot"`
	ServerTime int64          `json:"serverTime"`
}

// clientMessage is the envelope for everything a client sends over the
// socket. Type selects which fields are meaningful.
type ClientMessage struct {
	Type   string  `json:"type"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Facing string  `json:"facing,omitempty"`
	SentAt int64   `json:"sentAt,omitempty"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

type DiagnosticsRound struct {
	Ver           int     `json:"ver"`
	ID            string  `json:"id"`
	Outcome       string  `json:"outcome"`
	Elapsed       float64 `json:"elapsed"`
	Rescued       int     `json:"rescued"`
	Pets          int     `json:"pets"`
	LastHeartbeat int64   `json:"lastHeartbeat"`
	RTTMillis     int64   `json:"rttMillis"`
}

const protocolVersion = 1

// NewStateMessage wraps a snapshot in the broadcast envelope.
func NewStateMessage(snapshot world.Snapshot, now time.Time) stateMessage {
	return stateMessage{
		Ver:        protocolVersion,
		Type:       "state",
		Snapshot:   snapshot,
		ServerTime: now.UnixMilli(),
	}
}

// NewHeartbeatAck echoes a heartbeat back with the measured round trip.
func NewHeartbeatAck(now time.Time, clientSent int64, rtt time.Duration) heartbeatMessage {
	return heartbeatMessage{
		Ver:        protocolVersion,
		Type:       "heartbeat",
		ServerTime: now.UnixMilli(),
		ClientTime: clientSent,
		RTTMillis:  rtt.Milliseconds(),
	}
}
