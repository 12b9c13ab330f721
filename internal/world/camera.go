package world

// Camera computes the viewport offset that keeps a tracked target centered,
// clamped to the map edges. With a positive MaxSpeed the offset eases toward
// the target at a bounded rate per tick; the easing is a pure function of the
// previous offset, the target, and dt, so replays stay deterministic.
type Camera struct {
	viewW    float64
	viewH    float64
	maxSpeed float64 // pixels per second, 0 disables smoothing

	offset Vec2
	primed bool
}

// NewCamera creates a camera for the given viewport size.
func NewCamera(viewW, viewH, maxSpeed float64) *Camera {
	return &Camera{viewW: viewW, viewH: viewH, maxSpeed: maxSpeed}
}

// ViewSize returns the viewport dimensions in pixels.
func (c *Camera) ViewSize() (float64, float64) { return c.viewW, c.viewH }

// Offset returns the last computed viewport offset.
func (c *Camera) Offset() Vec2 { return c.offset }

// Update recomputes the viewport offset for the tracked target. When the map
// is smaller than the viewport on an axis, that axis stays fixed at 0.
func (c *Camera) Update(target Vec2, mapW, mapH, dt float64) Vec2 {
	desired := Vec2{
		X: clampOffset(target.X-c.viewW/2, mapW-c.viewW),
		Y: clampOffset(target.Y-c.viewH/2, mapH-c.viewH),
	}

	if !c.primed || c.maxSpeed <= 0 || dt <= 0 {
		c.offset = desired
		c.primed = true
		return c.offset
	}

	limit := c.maxSpeed * dt
	c.offset.X = approach(c.offset.X, desired.X, limit)
	c.offset.Y = approach(c.offset.Y, desired.Y, limit)
	return c.offset
}

func clampOffset(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return clamp(value, 0, max)
}

func approach(current, desired, limit float64) float64 {
	delta := desired - current
	if delta > limit {
		delta = limit
	} else if delta < -limit {
		delta = -limit
	}
	return current + delta
}
