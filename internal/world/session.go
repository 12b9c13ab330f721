package world

import (
	"context"
	"errors"
	"fmt"
	"math"

	"pet-rescue/server/internal/mapdata"
	"pet-rescue/server/logging"
	"pet-rescue/server/logging/gameplay"
	"pet-rescue/server/logging/lifecycle"
)

// ErrNoOpInteraction is returned when an interact press lands with no
// eligible pet in range. The tick still advances normally.
var ErrNoOpInteraction = errors.New("interaction had no effect")

// Outcome is the terminal result of a round. A session stays OutcomeRunning
// until either every pet is rescued or the timer expires.
type Outcome string

const (
	OutcomeRunning Outcome = "running"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
)

// Input is the per-tick command latched by the transport layer. Movement is
// an intent vector, not a position, so the session stays authoritative over
// collision.
type Input struct {
	MoveX       float64
	MoveY       float64
	Facing      string
	Interact    bool
	TogglePause bool
}

type hintState struct {
	def   mapdata.Hint
	fired bool
}

// Session is the authoritative controller for one round: it owns the timer,
// the player, the pets, the hint schedule, and the outcome. It is not safe
// for concurrent use; the hub serializes access.
type Session struct {
	id   string
	cfg  Config
	doc  *mapdata.Document
	grid *TileGrid

	player *playerState
	pets   []*petState // document order, never reordered
	camera *Camera
	hints  []hintState

	elapsed float64
	tick    uint64
	paused  bool

	outcome      Outcome
	score        int
	warningFired bool

	publisher logging.Publisher
}

// NewSession builds a round from a validated map document. Pet spawn spots
// are drawn from per-pet deterministic streams labelled by pet id, so the
// same seed always produces the same round.
func NewSession(id string, doc *mapdata.Document, cfg Config, publisher logging.Publisher) (*Session, error) {
	grid, err := NewTileGrid(doc)
	if err != nil {
		return nil, err
	}
	cfg = cfg.Normalized()
	if publisher == nil {
		publisher = logging.NopPublisher()
	}

	s := &Session{
		id:        id,
		cfg:       cfg,
		doc:       doc,
		grid:      grid,
		player:    newPlayerState("player-"+id, Vec2(*doc.Spawn), cfg),
		camera:    NewCamera(cfg.ViewWidth, cfg.ViewHeight, cfg.CameraMaxSpeed),
		outcome:   OutcomeRunning,
		publisher: publisher,
	}

	for _, def := range doc.Pets {
		rng := NewDeterministicRNG(cfg.Seed, "pets."+def.ID)
		pet, known := newPetState(def, cfg, rng)
		if !known {
			s.publisher.Publish(context.Background(), logging.Event{
				Type:     "unknown_personality",
				Severity: logging.SeverityWarn,
				Category: logging.CategorySystem,
				Actor:    logging.EntityRef{ID: def.ID, Kind: logging.EntityKindPet},
				Payload:  map[string]any{"personality": def.Personality},
			})
		}
		s.pets = append(s.pets, pet)
	}

	for _, hint := range doc.Hints {
		s.hints = append(s.hints, hintState{def: hint})
	}

	s.camera.Update(s.player.pos, grid.PixelWidth(), grid.PixelHeight(), 0)

	lifecycle.RoundStarted(context.Background(), s.publisher, 0, s.id, lifecycle.RoundStartedPayload{
		MapName:   doc.Name,
		Pets:      len(s.pets),
		TimeLimit: cfg.TimeLimit,
	})
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Outcome returns the current round outcome.
func (s *Session) Outcome() Outcome { return s.outcome }

// Score returns the score computed when the round ended, 0 while running.
func (s *Session) Score() int { return s.score }

// Paused reports whether the round timer and entities are frozen.
func (s *Session) Paused() bool { return s.paused }

// Elapsed returns the unpaused seconds since the round started.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Remaining returns the seconds left on the round timer, never negative.
func (s *Session) Remaining() float64 {
	remaining := s.cfg.TimeLimit - s.elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Advance runs one simulation tick. Ordering inside a tick: pets that began
// following last tick are finalized as rescued, time advances (hints and
// the low-time warning fire here), the player moves, discovery is checked,
// pets move, the interact press is evaluated, and the outcome is settled.
// The win check runs before the time-limit check, so rescuing the last pet
// on the final tick still wins.
func (s *Session) Advance(input Input, dt float64) error {
	if s.outcome != OutcomeRunning {
		return nil
	}
	if !isFinite(dt) || dt < 0 {
		return fmt.Errorf("%w: dt %v", ErrInvalidInput, dt)
	}

	if input.TogglePause {
		s.paused = !s.paused
	}
	if s.paused || dt == 0 {
		return nil
	}

	ctx := context.Background()

	s.finalizeFollowing(ctx)

	s.elapsed += dt
	s.tick++
	s.fireHints(ctx)
	s.fireWarning(ctx)

	tc := &tickContext{dt: dt, elapsed: s.elapsed, tick: s.tick, grid: s.grid, player: s.player.pos}

	s.player.setIntent(input.MoveX, input.MoveY, FacingDirection(input.Facing))
	s.player.Update(tc)
	tc.player = s.player.pos

	s.checkDiscovery(ctx)

	for _, pet := range s.pets {
		pet.Update(tc)
	}

	var interactErr error
	if input.Interact {
		interactErr = s.evaluateInteract(ctx)
	}

	s.settleOutcome(ctx)

	s.camera.Update(s.player.pos, s.grid.PixelWidth(), s.grid.PixelHeight(), dt)

	return interactErr
}

// finalizeFollowing promotes pets that entered FOLLOWING on an earlier tick
// to RESCUED. Registration is idempotent, so holding interact across ticks
// never double-counts.
func (s *Session) finalizeFollowing(ctx context.Context) {
	for _, pet := range s.pets {
		if pet.state != PetFollowing {
			continue
		}
		pet.state = PetRescued
		pet.rescuedAtTick = s.tick
		if s.player.registerRescue(pet.id) {
			gameplay.PetRescued(ctx, s.publisher, s.tick, s.player.id, pet.id, petPayload(pet))
		}
	}
}

func (s *Session) fireHints(ctx context.Context) {
	for i := range s.hints {
		hint := &s.hints[i]
		if hint.fired || s.elapsed < hint.def.At {
			continue
		}
		hint.fired = true
		gameplay.HintFired(ctx, s.publisher, s.tick, s.id, gameplay.HintPayload{
			MessageKey: hint.def.MessageKey,
			At:         hint.def.At,
		})
	}
}

func (s *Session) fireWarning(ctx context.Context) {
	if s.warningFired || s.Remaining() > s.cfg.WarningAt {
		return
	}
	s.warningFired = true
	gameplay.TimeWarning(ctx, s.publisher, s.tick, s.id, gameplay.TimeWarningPayload{
		Remaining: s.Remaining(),
	})
}

// checkDiscovery marks hard pets as discovered once the player has come
// close enough to the active hiding spot. Easy pets skip the prerequisite.
func (s *Session) checkDiscovery(ctx context.Context) {
	for _, pet := range s.pets {
		if pet.discovered || !pet.requiresDiscovery() || pet.state == PetRescued {
			continue
		}
		if distance(s.player.pos, pet.home) > pet.discoveryRadius(s.grid) {
			continue
		}
		pet.discovered = true
		gameplay.PetDiscovered(ctx, s.publisher, s.tick, s.player.id, pet.id, petPayload(pet))
	}
}

// evaluateInteract resolves one interact press against the nearest eligible
// pet. A pet is eligible when it is neither following nor rescued, sits
// within its rescue radius, and has satisfied its discovery prerequisite.
func (s *Session) evaluateInteract(ctx context.Context) error {
	var best *petState
	bestDist := math.Inf(1)
	for _, pet := range s.pets {
		if pet.state == PetFollowing || pet.state == PetRescued {
			continue
		}
		if pet.requiresDiscovery() && !pet.discovered {
			continue
		}
		d := distance(s.player.pos, pet.pos)
		if d > pet.rescueRadius(s.cfg) {
			continue
		}
		if d < bestDist {
			best = pet
			bestDist = d
		}
	}
	if best == nil {
		return ErrNoOpInteraction
	}
	best.state = PetFollowing
	gameplay.PetFollowing(ctx, s.publisher, s.tick, s.player.id, best.id, petPayload(best))
	return nil
}

// settleOutcome checks the win condition before the time limit, so rescuing
// the last pet on the tick the timer expires still wins. Pets still in the
// FOLLOWING step count: the intermediate state collapses on the terminal
// tick so the win is not deferred past the deadline.
func (s *Session) settleOutcome(ctx context.Context) {
	if s.allRescued() {
		s.finalizeFollowing(ctx)
		s.finish(ctx, OutcomeWon)
		return
	}
	if s.elapsed >= s.cfg.TimeLimit {
		s.finish(ctx, OutcomeLost)
	}
}

func (s *Session) allRescued() bool {
	for _, pet := range s.pets {
		if pet.state != PetRescued && pet.state != PetFollowing {
			return false
		}
	}
	return len(s.pets) > 0
}

func (s *Session) finish(ctx context.Context, outcome Outcome) {
	s.outcome = outcome
	s.score = s.computeScore(outcome)
	gameplay.RoundEnded(ctx, s.publisher, s.tick, s.id, gameplay.RoundEndedPayload{
		Outcome:   string(outcome),
		Score:     s.score,
		Rescued:   len(s.player.rescueOrder),
		Total:     len(s.pets),
		Remaining: s.Remaining(),
	})
}

// computeScore awards PerPetScore per rescue; a win additionally pays
// BonusPerSecond per whole remaining second, floored.
func (s *Session) computeScore(outcome Outcome) int {
	score := len(s.player.rescueOrder) * s.cfg.PerPetScore
	if outcome == OutcomeWon {
		score += int(math.Floor(s.Remaining() * s.cfg.BonusPerSecond))
	}
	return score
}

func petPayload(pet *petState) gameplay.PetPayload {
	return gameplay.PetPayload{Species: pet.species, Name: pet.name, Rarity: pet.rarity}
}
