package world

import (
	"math/rand"

	"pet-rescue/server/internal/mapdata"
)

// PetState enumerates the behavior states of a pet. PetRescued is terminal.
type PetState uint8

const (
	PetIdle PetState = iota
	PetWandering
	PetScared
	PetFollowing
	PetRescued
)

func (s PetState) String() string {
	switch s {
	case PetIdle:
		return "idle"
	case PetWandering:
		return "wandering"
	case PetScared:
		return "scared"
	case PetFollowing:
		return "following"
	case PetRescued:
		return "rescued"
	default:
		return "unknown"
	}
}

// Personality tags tune movement randomness and flee behavior.
type Personality string

const (
	PersonalityFriendly  Personality = "friendly"
	PersonalityShy       Personality = "shy"
	PersonalityGentle    Personality = "gentle"
	PersonalityEnergetic Personality = "energetic"
)

type personalityProfile struct {
	timid          bool
	startWandering bool
	idleMin        float64
	idleMax        float64
	wanderMin      float64
	wanderMax      float64
	speedScale     float64
	fleeDistance   float64
}

var personalityProfiles = map[Personality]personalityProfile{
	PersonalityFriendly:  {timid: false, idleMin: 2, idleMax: 5, wanderMin: 2, wanderMax: 4, speedScale: 1.0},
	PersonalityShy:       {timid: true, idleMin: 3, idleMax: 6, wanderMin: 1.5, wanderMax: 3, speedScale: 0.9, fleeDistance: 100},
	PersonalityGentle:    {timid: true, idleMin: 2.5, idleMax: 5, wanderMin: 2, wanderMax: 3.5, speedScale: 0.8, fleeDistance: 80},
	PersonalityEnergetic: {timid: false, startWandering: true, idleMin: 1, idleMax: 2.5, wanderMin: 3, wanderMax: 6, speedScale: 1.2},
}

// profileFor falls back to the gentle profile for unknown tags rather than
// failing the round.
func profileFor(tag Personality) (personalityProfile, bool) {
	profile, ok := personalityProfiles[tag]
	if !ok {
		return personalityProfiles[PersonalityGentle], false
	}
	return profile, true
}

const (
	scaredSpeedScale = 1.5
	fleeHysteresis   = 1.5 // exit flee distance multiplier
	scaredCalmDelay  = 1.0 // seconds outside flee range before calming down
	petRoamRadius    = 200.0
)

// discoveryTightness narrows both the rescue radius and the hiding-spot
// approach radius as difficulty rises.
func discoveryTightness(difficulty int) float64 {
	switch {
	case difficulty >= 3:
		return 0.5
	case difficulty == 2:
		return 0.75
	default:
		return 1.0
	}
}

// petState owns one pet's mutable round state. Exactly one hiding spot is
// chosen at spawn and never relocated afterwards.
type petState struct {
	id          string
	species     string
	name        string
	rarity      string
	personality Personality
	profile     personalityProfile
	difficulty  int

	pos    Vec2
	home   Vec2 // active hiding spot
	facing FacingDirection
	state  PetState

	speed        float64
	half         float64
	fleeDistance float64
	roamRadius   float64

	// prerequisite bookkeeping; see session rescue evaluation
	discovered    bool
	rescuedAtTick uint64

	idleUntil   float64
	wanderUntil float64
	calmAt      float64
	wanderDir   Vec2

	rng *rand.Rand
}

// newPetState spawns a pet at one of its authored hiding spots, selected by
// the pet's own deterministic stream.
func newPetState(def mapdata.PetDef, cfg Config, rng *rand.Rand) (*petState, bool) {
	profile, known := profileFor(Personality(def.Personality))

	flee := def.FleeDistance
	if flee <= 0 || !isFinite(flee) {
		flee = profile.fleeDistance
	}

	spot := def.HidingSpots[rng.Intn(len(def.HidingSpots))]
	home := Vec2(spot)

	p := &petState{
		id:           def.ID,
		species:      def.Species,
		name:         def.Name,
		rarity:       def.Rarity,
		personality:  Personality(def.Personality),
		profile:      profile,
		difficulty:   def.Difficulty,
		pos:          home,
		home:         home,
		facing:       defaultFacing,
		speed:        cfg.PetSpeed * profile.speedScale,
		half:         cfg.PetHalf,
		fleeDistance: flee,
		roamRadius:   petRoamRadius,
		rng:          rng,
	}
	if profile.startWandering {
		p.beginWandering(0)
	} else {
		p.beginIdle(0)
	}
	return p, known
}

func (p *petState) EntityID() string { return p.id }

// Update advances the behavior state machine by one tick. FOLLOWING and
// RESCUED are sequenced by the session, not here.
func (p *petState) Update(ctx *tickContext) {
	if p.state == PetFollowing || p.state == PetRescued {
		return
	}

	dist := distance(p.pos, ctx.player)
	if p.profile.timid && p.fleeDistance > 0 && dist < p.fleeDistance {
		p.state = PetScared
		p.calmAt = ctx.elapsed + scaredCalmDelay
	}

	switch p.state {
	case PetIdle:
		if ctx.elapsed >= p.idleUntil {
			p.beginWandering(ctx.elapsed)
		}
	case PetWandering:
		if ctx.elapsed >= p.wanderUntil || distance(p.pos, p.home) >= p.roamRadius {
			p.beginIdle(ctx.elapsed)
			return
		}
		if !p.step(ctx, p.wanderDir, p.speed) {
			// Fully blocked: pick a fresh direction now instead of idling
			// against the wall until the next timeout.
			p.wanderDir = randomUnitVector(p.rng)
		}
	case PetScared:
		if dist >= p.fleeDistance*fleeHysteresis && ctx.elapsed >= p.calmAt {
			p.beginWandering(ctx.elapsed)
			return
		}
		awayX, awayY := normalize(Vec2{X: p.pos.X - ctx.player.X, Y: p.pos.Y - ctx.player.Y})
		if awayX == 0 && awayY == 0 {
			v := randomUnitVector(p.rng)
			awayX, awayY = v.X, v.Y
		}
		if !p.step(ctx, Vec2{X: awayX, Y: awayY}, p.speed*scaredSpeedScale) {
			p.step(ctx, randomUnitVector(p.rng), p.speed*scaredSpeedScale)
		}
	}
}

// step proposes a move and reports whether the pet actually advanced.
func (p *petState) step(ctx *tickContext, dir Vec2, speed float64) bool {
	delta := Vec2{X: dir.X * speed * ctx.dt, Y: dir.Y * speed * ctx.dt}
	next, err := ctx.grid.ResolveMovement(p.pos, delta, p.half)
	if err != nil || next == p.pos {
		return false
	}
	p.facing = deriveFacing(next.X-p.pos.X, next.Y-p.pos.Y, p.facing)
	p.pos = next
	return true
}

func (p *petState) beginIdle(elapsed float64) {
	p.state = PetIdle
	p.idleUntil = elapsed + randomRange(p.rng, p.profile.idleMin, p.profile.idleMax)
}

func (p *petState) beginWandering(elapsed float64) {
	p.state = PetWandering
	p.wanderDir = randomUnitVector(p.rng)
	p.wanderUntil = elapsed + randomRange(p.rng, p.profile.wanderMin, p.profile.wanderMax)
}

// rescueRadius is the interaction radius tightened by discovery difficulty.
func (p *petState) rescueRadius(cfg Config) float64 {
	return cfg.InteractionRadius * discoveryTightness(p.difficulty)
}

// discoveryRadius is how close the player has to get to the active hiding
// spot before a hard pet counts as discovered.
func (p *petState) discoveryRadius(grid *TileGrid) float64 {
	return grid.TileSize() * 2 * discoveryTightness(p.difficulty)
}

// requiresDiscovery reports whether the hiding-spot prerequisite applies.
func (p *petState) requiresDiscovery() bool {
	return p.difficulty >= 2
}
