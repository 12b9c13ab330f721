package world

import (
	"errors"
	"math"
)

// ErrInvalidInput marks degenerate per-tick input such as a non-finite
// movement delta. Callers drop the offending tick's movement and continue.
var ErrInvalidInput = errors.New("world: invalid input")

// ResolveMovement advances a body of the given half extent by delta, sliding
// along one axis at a time when the full move is blocked. The returned
// position is always walkable given a walkable start. Deltas larger than half
// a tile are applied in substeps so a fast body cannot tunnel through a
// corner.
func (g *TileGrid) ResolveMovement(pos Vec2, delta Vec2, half float64) (Vec2, error) {
	if !isFinite(delta.X) || !isFinite(delta.Y) {
		return pos, ErrInvalidInput
	}
	if delta.X == 0 && delta.Y == 0 {
		return pos, nil
	}

	maxStep := g.tileSize / 2
	steps := int(math.Ceil(math.Max(math.Abs(delta.X), math.Abs(delta.Y)) / maxStep))
	if steps < 1 {
		steps = 1
	}
	stepX := delta.X / float64(steps)
	stepY := delta.Y / float64(steps)

	cur := pos
	for i := 0; i < steps; i++ {
		next := Vec2{X: cur.X + stepX, Y: cur.Y + stepY}
		if g.boxWalkable(next, half) {
			cur = next
			continue
		}
		if stepX != 0 && g.boxWalkable(Vec2{X: cur.X + stepX, Y: cur.Y}, half) {
			cur.X += stepX
			continue
		}
		if stepY != 0 && g.boxWalkable(Vec2{X: cur.X, Y: cur.Y + stepY}, half) {
			cur.Y += stepY
			continue
		}
		break
	}
	return cur, nil
}

// boxWalkable samples the four corners and center of the half-extent box
// around pos. Every sample must land on a walkable tile.
func (g *TileGrid) boxWalkable(pos Vec2, half float64) bool {
	if half <= 0 {
		return g.IsWalkable(pos.X, pos.Y)
	}
	// Shrink slightly so a body flush against a tile boundary does not sample
	// the neighbouring tile.
	h := half - 0.01
	return g.IsWalkable(pos.X-h, pos.Y-h) &&
		g.IsWalkable(pos.X+h, pos.Y-h) &&
		g.IsWalkable(pos.X-h, pos.Y+h) &&
		g.IsWalkable(pos.X+h, pos.Y+h) &&
		g.IsWalkable(pos.X, pos.Y)
}
