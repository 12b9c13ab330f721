package world

// FacingDirection identifies one of the four cardinal sprite orientations.
type FacingDirection string

const (
	FacingUp    FacingDirection = "up"
	FacingDown  FacingDirection = "down"
	FacingLeft  FacingDirection = "left"
	FacingRight FacingDirection = "right"
)

const defaultFacing = FacingDown

// deriveFacing picks the dominant axis of a movement vector, keeping the
// current facing when the vector is zero.
func deriveFacing(dx, dy float64, current FacingDirection) FacingDirection {
	if dx == 0 && dy == 0 {
		if current == "" {
			return defaultFacing
		}
		return current
	}
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return FacingRight
		}
		return FacingLeft
	}
	if dy > 0 {
		return FacingDown
	}
	return FacingUp
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func parseFacing(raw string) (FacingDirection, bool) {
	switch FacingDirection(raw) {
	case FacingUp, FacingDown, FacingLeft, FacingRight:
		return FacingDirection(raw), true
	default:
		return defaultFacing, false
	}
}
