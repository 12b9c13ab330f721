package world

import (
	"errors"
	"math"
	"testing"
)

func TestResolveMovementOpenGround(t *testing.T) {
	grid := mustGrid(t, testDocument(nil, nil))

	got, err := grid.ResolveMovement(Vec2{X: 160, Y: 160}, Vec2{X: 10, Y: -6}, 12)
	if err != nil {
		t.Fatalf("ResolveMovement failed: %v", err)
	}
	want := Vec2{X: 170, Y: 154}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("ResolveMovement = %+v, want %+v", got, want)
	}
}

func TestResolveMovementStopsAtWall(t *testing.T) {
	grid := mustGrid(t, testDocument(nil, nil))

	got, err := grid.ResolveMovement(Vec2{X: 160, Y: 160}, Vec2{X: 1000, Y: 0}, 12)
	if err != nil {
		t.Fatalf("ResolveMovement failed: %v", err)
	}
	// The walkable region ends at x=288; the body edge must stay inside it.
	if got.X+12 > 288.01 {
		t.Fatalf("body ended inside the wall at x=%v", got.X)
	}
	if got.X < 250 {
		t.Fatalf("body stopped early at x=%v", got.X)
	}
	if got.Y != 160 {
		t.Fatalf("pure horizontal move changed y to %v", got.Y)
	}
}

func TestResolveMovementSlidesAlongWall(t *testing.T) {
	grid := mustGrid(t, testDocument(nil, nil))

	got, err := grid.ResolveMovement(Vec2{X: 160, Y: 160}, Vec2{X: 20, Y: -200}, 12)
	if err != nil {
		t.Fatalf("ResolveMovement failed: %v", err)
	}
	if math.Abs(got.X-180) > 1e-9 {
		t.Fatalf("x component did not slide: got %v, want 180", got.X)
	}
	if got.Y-12 < 31.9 {
		t.Fatalf("body clipped into the top wall at y=%v", got.Y)
	}
	if got.Y >= 160 {
		t.Fatalf("y did not advance toward the wall: %v", got.Y)
	}
}

func TestResolveMovementRejectsNonFinite(t *testing.T) {
	grid := mustGrid(t, testDocument(nil, nil))
	start := Vec2{X: 160, Y: 160}

	got, err := grid.ResolveMovement(start, Vec2{X: math.NaN(), Y: 0}, 12)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
	if got != start {
		t.Fatalf("position moved on invalid input: %+v", got)
	}

	if _, err := grid.ResolveMovement(start, Vec2{X: 0, Y: math.Inf(1)}, 12); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestResolveMovementZeroDelta(t *testing.T) {
	grid := mustGrid(t, testDocument(nil, nil))
	start := Vec2{X: 160, Y: 160}

	got, err := grid.ResolveMovement(start, Vec2{}, 12)
	if err != nil {
		t.Fatalf("ResolveMovement failed: %v", err)
	}
	if got != start {
		t.Fatalf("zero delta moved the body to %+v", got)
	}
}
