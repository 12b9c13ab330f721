package world

// tickContext carries the read-only state an entity needs for one update.
type tickContext struct {
	dt      float64
	elapsed float64
	tick    uint64
	grid    *TileGrid
	player  Vec2
}

// entity is the uniform update capability the session iterates over. The
// render surface is the snapshot, not a per-entity callback; the core draws
// nothing.
type entity interface {
	EntityID() string
	Update(ctx *tickContext)
}
