package world

import "math"

// playerState owns the player's mutable round state. Movement is resolved
// against the grid; the player never teleports out of a blocked position.
type playerState struct {
	id     string
	pos    Vec2
	facing FacingDirection
	speed  float64
	half   float64

	intentX float64
	intentY float64

	rescued     map[string]struct{}
	rescueOrder []string
}

func newPlayerState(id string, spawn Vec2, cfg Config) *playerState {
	return &playerState{
		id:      id,
		pos:     spawn,
		facing:  defaultFacing,
		speed:   cfg.PlayerSpeed,
		half:    cfg.PlayerHalf,
		rescued: make(map[string]struct{}),
	}
}

func (p *playerState) EntityID() string { return p.id }

// setIntent stores the latest movement vector, normalizing anything longer
// than a unit vector and updating facing to the dominant input axis.
func (p *playerState) setIntent(dx, dy float64, facing FacingDirection) {
	if !isFinite(dx) || !isFinite(dy) {
		dx, dy = 0, 0
	}
	length := math.Hypot(dx, dy)
	if length > 1 {
		dx /= length
		dy /= length
	}
	p.intentX = dx
	p.intentY = dy
	p.facing = deriveFacing(dx, dy, p.facing)
	if dx == 0 && dy == 0 && facing != "" {
		if face, ok := parseFacing(string(facing)); ok {
			p.facing = face
		}
	}
}

// Update resolves the stored intent against the grid for this tick.
func (p *playerState) Update(ctx *tickContext) {
	if p.intentX == 0 && p.intentY == 0 {
		return
	}
	delta := Vec2{X: p.intentX * p.speed * ctx.dt, Y: p.intentY * p.speed * ctx.dt}
	next, err := ctx.grid.ResolveMovement(p.pos, delta, p.half)
	if err != nil {
		return
	}
	p.pos = next
}

// registerRescue adds a pet to the rescued set. Idempotent; reports whether
// the id was newly added.
func (p *playerState) registerRescue(petID string) bool {
	if _, ok := p.rescued[petID]; ok {
		return false
	}
	p.rescued[petID] = struct{}{}
	p.rescueOrder = append(p.rescueOrder, petID)
	return true
}

func (p *playerState) rescuedIDs() []string {
	return append([]string(nil), p.rescueOrder...)
}
