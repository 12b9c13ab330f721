package world

import (
	"math"
	"testing"
)

func TestCameraCentersTarget(t *testing.T) {
	cam := NewCamera(400, 300, 0)

	got := cam.Update(Vec2{X: 500, Y: 400}, 1000, 800, 0.1)
	want := Vec2{X: 300, Y: 250}
	if got != want {
		t.Fatalf("offset = %+v, want %+v", got, want)
	}
}

func TestCameraClampsToMapEdges(t *testing.T) {
	cam := NewCamera(400, 300, 0)

	corners := []Vec2{
		{X: 0, Y: 0},
		{X: 1000, Y: 800},
		{X: 0, Y: 800},
		{X: 1000, Y: 0},
		{X: -50, Y: -50},
		{X: 5000, Y: 5000},
	}
	for _, target := range corners {
		offset := cam.Update(target, 1000, 800, 0.1)
		if offset.X < 0 || offset.X > 1000-400 {
			t.Fatalf("target %+v: offset x %v out of [0,600]", target, offset.X)
		}
		if offset.Y < 0 || offset.Y > 800-300 {
			t.Fatalf("target %+v: offset y %v out of [0,500]", target, offset.Y)
		}
	}
}

func TestCameraSmallMapAxisStaysFixed(t *testing.T) {
	cam := NewCamera(400, 300, 0)

	offset := cam.Update(Vec2{X: 150, Y: 500}, 300, 800, 0.1)
	if offset.X != 0 {
		t.Fatalf("offset x = %v, want 0 for a map narrower than the view", offset.X)
	}
	if offset.Y <= 0 {
		t.Fatalf("offset y = %v, want clamped positive", offset.Y)
	}
}

func TestCameraEasingBoundedBySpeed(t *testing.T) {
	cam := NewCamera(400, 300, 100)

	// First update snaps regardless of speed.
	first := cam.Update(Vec2{X: 500, Y: 400}, 1000, 800, 0.1)
	if (first != Vec2{X: 300, Y: 250}) {
		t.Fatalf("first update did not snap: %+v", first)
	}

	// A big jump may only move maxSpeed*dt per axis.
	second := cam.Update(Vec2{X: 900, Y: 400}, 1000, 800, 0.1)
	moved := math.Abs(second.X - first.X)
	if moved > 100*0.1+1e-9 {
		t.Fatalf("offset moved %v in one tick, limit is 10", moved)
	}
	if second.X <= first.X {
		t.Fatalf("offset did not ease toward the target: %+v", second)
	}
}
