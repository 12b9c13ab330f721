package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"pet-rescue/server/internal/mapdata"
	"pet-rescue/server/internal/world"
	"pet-rescue/server/logging"
	"pet-rescue/server/logging/lifecycle"
)

// Hub owns every live round. Each joined client plays its own single-player
// round; the hub advances all of them on one shared ticker and fans the
// per-round snapshots back out over the clients' sockets.
type Hub struct {
	mu     sync.Mutex
	rounds map[string]*round
	nextID atomic.Uint64

	doc       *mapdata.Document
	cfg       world.Config
	publisher logging.Publisher
}

// round pairs one session with its transport state. Inputs are latched
// between ticks: movement is level-triggered (latest wins), interact and
// pause are edge-triggered and cleared once consumed.
type round struct {
	session *world.Session

	moveX       float64
	moveY       float64
	facing      string
	interact    bool
	togglePause bool

	lastHeartbeat time.Time
	rtt           time.Duration

	sub *Subscriber
}

type Subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one JSON message, serialized against concurrent writers.
func (s *Subscriber) Send(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

// NewHub creates a hub that starts every round from the given map document.
func NewHub(doc *mapdata.Document, cfg world.Config, publisher logging.Publisher) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Hub{
		rounds:    make(map[string]*round),
		doc:       doc,
		cfg:       cfg.Normalized(),
		publisher: publisher,
	}
}

// Join starts a fresh round for a new client and returns the join payload.
func (h *Hub) Join() (joinResponse, error) {
	id := fmt.Sprintf("round-%d", h.nextID.Add(1))

	session, err := world.NewSession(id, h.doc, h.cfg, h.publisher)
	if err != nil {
		return joinResponse{}, err
	}

	h.mu.Lock()
	h.rounds[id] = &round{session: session, lastHeartbeat: time.Now()}
	h.mu.Unlock()

	lifecycle.ClientJoined(context.Background(), h.publisher, 0, id)

	return joinResponse{
		Ver:      protocolVersion,
		ID:       id,
		Map:      h.doc,
		Config:   h.cfg,
		Snapshot: session.Snapshot(),
	}, nil
}

// Subscribe associates a WebSocket connection with an existing round. A
// second subscribe for the same round replaces the previous connection.
func (h *Hub) Subscribe(roundID string, conn *websocket.Conn) (*Subscriber, world.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rounds[roundID]
	if !ok {
		return nil, world.Snapshot{}, false
	}

	r.lastHeartbeat = time.Now()

	if r.sub != nil {
		r.sub.conn.Close()
	}

	sub := &Subscriber{conn: conn}
	r.sub = sub
	return sub, r.session.Snapshot(), true
}

// Disconnect tears down a round and closes its subscriber connection.
func (h *Hub) Disconnect(roundID, reason string) {
	h.mu.Lock()
	r, ok := h.rounds[roundID]
	if ok {
		delete(h.rounds, roundID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	if r.sub != nil {
		r.sub.conn.Close()
	}
	lifecycle.ClientDisconnected(context.Background(), h.publisher, 0, roundID, reason)
}

// UpdateIntent stores the latest movement vector and facing for a round.
func (h *Hub) UpdateIntent(roundID string, dx, dy float64, facing string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rounds[roundID]
	if !ok {
		return false
	}
	r.moveX = dx
	r.moveY = dy
	r.facing = facing
	return true
}

// QueueInteract latches an interact press for the next tick.
func (h *Hub) QueueInteract(roundID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rounds[roundID]
	if !ok {
		return false
	}
	r.interact = true
	return true
}

// TogglePause latches a pause toggle for the next tick.
func (h *Hub) TogglePause(roundID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rounds[roundID]
	if !ok {
		return false
	}
	r.togglePause = true
	return true
}

// UpdateHeartbeat refreshes liveness and records the measured round trip.
func (h *Hub) UpdateHeartbeat(roundID string, now time.Time, rtt time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rounds[roundID]
	if !ok {
		return false
	}
	r.lastHeartbeat = now
	if rtt > 0 {
		r.rtt = rtt
	}
	return true
}

// advance runs one tick for every live round and returns the snapshots to
// broadcast, keyed by round. Rounds whose heartbeat went stale are dropped.
func (h *Hub) advance(now time.Time, dt float64) map[*Subscriber]stateMessage {
	var stale []string
	out := make(map[*Subscriber]stateMessage)

	h.mu.Lock()
	for id, r := range h.rounds {
		if now.Sub(r.lastHeartbeat) > disconnectAfter {
			stale = append(stale, id)
			continue
		}

		input := world.Input{
			MoveX:       r.moveX,
			MoveY:       r.moveY,
			Facing:      r.facing,
			Interact:    r.interact,
			TogglePause: r.togglePause,
		}
		r.interact = false
		r.togglePause = false

		if err := r.session.Advance(input, dt); err != nil {
			// No-op interactions and degenerate input are not worth a
			// round teardown.
			log.Printf("round %s: %v", id, err)
		}

		if r.sub != nil {
			out[r.sub] = stateMessage{
				Ver:        protocolVersion,
				Type:       "state",
				Snapshot:   r.session.Snapshot(),
				ServerTime: now.UnixMilli(),
			}
		}
	}
	h.mu.Unlock()

	for _, id := range stale {
		h.Disconnect(id, "heartbeat timeout")
	}
	return out
}

// RunSimulation drives all rounds at the fixed tick rate until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			messages := h.advance(now, dt)
			for sub, msg := range messages {
				h.send(sub, msg)
			}
		}
	}
}

func (h *Hub) send(sub *Subscriber, msg stateMessage) {
	if err := sub.Send(msg); err != nil {
		log.Printf("broadcast failed: %v", err)
	}
}

// DiagnosticsSnapshot reports per-round liveness for the diagnostics
// endpoint.
func (h *Hub) DiagnosticsSnapshot() []DiagnosticsRound {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]DiagnosticsRound, 0, len(h.rounds))
	for id, r := range h.rounds {
		snap := r.session.Snapshot()
		out = append(out, DiagnosticsRound{
			Ver:           protocolVersion,
			ID:            id,
			Outcome:       string(snap.Outcome),
			Elapsed:       snap.Elapsed,
			Rescued:       len(snap.Player.Rescued),
			Pets:          len(snap.Pets),
			LastHeartbeat: r.lastHeartbeat.UnixMilli(),
			RTTMillis:     r.rtt.Milliseconds(),
		})
	}
	return out
}

// SpectatorSnapshots returns the current snapshot of every live round, for
// read-only observers such as the terminal console.
func (h *Hub) SpectatorSnapshots() []world.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]world.Snapshot, 0, len(h.rounds))
	for _, r := range h.rounds {
		out = append(out, r.session.Snapshot())
	}
	return out
}
