package world

import (
	"context"
	"errors"
	"testing"

	"pet-rescue/server/internal/mapdata"
	"pet-rescue/server/logging"
)

// capturePublisher collects events synchronously for assertions.
type capturePublisher struct {
	events []logging.Event
}

func (c *capturePublisher) Publish(_ context.Context, event logging.Event) {
	c.events = append(c.events, event)
}

func (c *capturePublisher) count(eventType logging.EventType) int {
	n := 0
	for _, event := range c.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

func TestSessionWinScore(t *testing.T) {
	spawn := mapdata.Position{X: 160, Y: 160}
	pets := []mapdata.PetDef{
		friendlyPet("dog-1", spawn),
		friendlyPet("dog-2", spawn),
		friendlyPet("dog-3", spawn),
		friendlyPet("dog-4", spawn),
	}
	session := mustSession(t, testDocument(pets, nil), testConfig())

	// One interact press latches one pet per tick; the pet finalizes as
	// rescued on the following tick.
	for i := 0; i < 3; i++ {
		if err := session.Advance(Input{Interact: true}, 0.05); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if session.Outcome() != OutcomeRunning {
		t.Fatalf("round ended early: %v", session.Outcome())
	}

	// Land the last rescue with roughly 45.75s left on the clock.
	session.elapsed = 254.2
	if err := session.Advance(Input{Interact: true}, 0.05); err != nil {
		t.Fatalf("final tick: %v", err)
	}

	if session.Outcome() != OutcomeWon {
		t.Fatalf("outcome = %v, want won", session.Outcome())
	}
	if got := session.Score(); got != 4457 {
		t.Fatalf("score = %d, want 4457", got)
	}
	snap := session.Snapshot()
	if len(snap.Player.Rescued) != 4 {
		t.Fatalf("rescued = %v, want 4 ids", snap.Player.Rescued)
	}
	for _, pet := range snap.Pets {
		if pet.State != "rescued" {
			t.Fatalf("pet %s state = %s, want rescued", pet.ID, pet.State)
		}
	}
	if snap.Results == nil {
		t.Fatalf("finished round has no results record")
	}
	if snap.Results.Outcome != OutcomeWon || snap.Results.Score != 4457 || len(snap.Results.Rescued) != 4 {
		t.Fatalf("results = %+v", snap.Results)
	}
}

func TestSessionWonBeatsTimeLimit(t *testing.T) {
	spawn := mapdata.Position{X: 160, Y: 160}
	session := mustSession(t, testDocument([]mapdata.PetDef{friendlyPet("dog-1", spawn)}, nil), testConfig())

	// Rescue lands on the exact tick the timer crosses the limit.
	session.elapsed = 299.96
	if err := session.Advance(Input{Interact: true}, 0.05); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.Outcome() != OutcomeWon {
		t.Fatalf("outcome = %v, want won", session.Outcome())
	}
}

func TestSessionTimeLimitLoses(t *testing.T) {
	spawn := mapdata.Position{X: 64, Y: 64}
	session := mustSession(t, testDocument([]mapdata.PetDef{friendlyPet("dog-1", spawn)}, nil), testConfig())

	session.elapsed = 299.9
	if err := session.Advance(Input{}, 0.2); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if session.Outcome() != OutcomeLost {
		t.Fatalf("outcome = %v, want lost", session.Outcome())
	}
	if session.Score() != 0 {
		t.Fatalf("score = %d, want 0 with nothing rescued", session.Score())
	}

	// Terminal outcome freezes the round.
	elapsed := session.Elapsed()
	if err := session.Advance(Input{MoveX: 1}, 0.2); err != nil {
		t.Fatalf("post-round Advance failed: %v", err)
	}
	if session.Elapsed() != elapsed {
		t.Fatalf("elapsed advanced after the round ended")
	}
}

func TestSessionHintsFireOnce(t *testing.T) {
	hints := []mapdata.Hint{
		{ID: "hint-1", At: 1, MessageKey: "hint.first"},
		{ID: "hint-2", At: 2, MessageKey: "hint.second"},
	}
	pub := &capturePublisher{}
	doc := testDocument(nil, hints)
	session, err := NewSession("test", doc, testConfig(), pub)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		if err := session.Advance(Input{}, 0.6); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if got := pub.count("hint_fired"); got != 2 {
		t.Fatalf("hint_fired events = %d, want 2", got)
	}
	snap := session.Snapshot()
	for _, hint := range snap.Hints {
		if !hint.Fired {
			t.Fatalf("hint %s not marked fired", hint.ID)
		}
	}
}

func TestSessionWarningFiresOnce(t *testing.T) {
	pub := &capturePublisher{}
	session, err := NewSession("test", testDocument(nil, nil), testConfig(), pub)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	session.elapsed = 269.5 // 30.5s remaining
	for i := 0; i < 5; i++ {
		if err := session.Advance(Input{}, 0.5); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if got := pub.count("time_warning"); got != 1 {
		t.Fatalf("time_warning events = %d, want 1", got)
	}
}

func TestSessionPauseFreezesEverything(t *testing.T) {
	session := mustSession(t, testDocument(nil, nil), testConfig())

	if err := session.Advance(Input{TogglePause: true}, 0.5); err != nil {
		t.Fatalf("pause toggle failed: %v", err)
	}
	if !session.Paused() {
		t.Fatalf("session not paused after toggle")
	}

	start := session.Snapshot().Player.Pos
	for i := 0; i < 5; i++ {
		if err := session.Advance(Input{MoveX: 1}, 0.5); err != nil {
			t.Fatalf("paused tick %d: %v", i, err)
		}
	}
	if session.Elapsed() != 0 {
		t.Fatalf("elapsed advanced while paused: %v", session.Elapsed())
	}
	if got := session.Snapshot().Player.Pos; got != start {
		t.Fatalf("player moved while paused: %+v", got)
	}

	if err := session.Advance(Input{TogglePause: true, MoveX: 1}, 0.5); err != nil {
		t.Fatalf("resume toggle failed: %v", err)
	}
	if session.Paused() {
		t.Fatalf("session still paused after second toggle")
	}
	if session.Elapsed() != 0.5 {
		t.Fatalf("elapsed = %v, want 0.5 after resuming", session.Elapsed())
	}
	if got := session.Snapshot().Player.Pos; got.X <= start.X {
		t.Fatalf("player did not move after resuming: %+v", got)
	}
}

func TestSessionHeldInteractRescuesOnce(t *testing.T) {
	near := mapdata.Position{X: 160, Y: 160}
	far := mapdata.Position{X: 64, Y: 64}
	pub := &capturePublisher{}
	doc := testDocument([]mapdata.PetDef{friendlyPet("dog-1", near), friendlyPet("dog-2", far)}, nil)
	session, err := NewSession("test", doc, testConfig(), pub)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	var sawNoOp bool
	for i := 0; i < 6; i++ {
		err := session.Advance(Input{Interact: true}, 0.05)
		if errors.Is(err, ErrNoOpInteraction) {
			sawNoOp = true
		} else if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	if got := pub.count("pet_rescued"); got != 1 {
		t.Fatalf("pet_rescued events = %d, want 1", got)
	}
	snap := session.Snapshot()
	if len(snap.Player.Rescued) != 1 || snap.Player.Rescued[0] != "dog-1" {
		t.Fatalf("rescued = %v, want [dog-1]", snap.Player.Rescued)
	}
	if !sawNoOp {
		t.Fatalf("holding interact with nothing in range never reported a no-op")
	}
}

func TestSessionDiscoveryPrerequisite(t *testing.T) {
	def := mapdata.PetDef{
		ID:          "rabbit-1",
		Species:     "rabbit",
		Personality: "friendly",
		Difficulty:  3,
		HidingSpots: []mapdata.Position{{X: 64, Y: 64}},
	}
	session := mustSession(t, testDocument([]mapdata.PetDef{def}, nil), testConfig())
	pet := session.pets[0]

	// The pet has drifted away from its hiding spot; the player is close to
	// the pet but has never visited the spot.
	pet.pos = Vec2{X: 150, Y: 160}

	if err := session.Advance(Input{Interact: true}, 0.05); !errors.Is(err, ErrNoOpInteraction) {
		t.Fatalf("interact before discovery = %v, want no-op", err)
	}
	if pet.state == PetFollowing {
		t.Fatalf("undiscovered pet started following")
	}

	// Visiting the hiding spot satisfies the prerequisite.
	session.player.pos = Vec2{X: 64, Y: 64}
	if err := session.Advance(Input{}, 0.05); err != nil {
		t.Fatalf("discovery tick failed: %v", err)
	}
	if !pet.discovered {
		t.Fatalf("pet not discovered at its hiding spot")
	}

	session.player.pos = pet.pos
	if err := session.Advance(Input{Interact: true}, 0.05); err != nil {
		t.Fatalf("interact after discovery failed: %v", err)
	}
	if pet.state != PetFollowing {
		t.Fatalf("state = %v, want following", pet.state)
	}
}

func TestSessionDeterministicWithSameSeed(t *testing.T) {
	pets := []mapdata.PetDef{
		friendlyPet("dog-1", mapdata.Position{X: 96, Y: 96}),
		{
			ID:          "cat-1",
			Species:     "cat",
			Personality: "shy",
			Difficulty:  2,
			HidingSpots: []mapdata.Position{{X: 96, Y: 224}, {X: 224, Y: 96}},
		},
	}

	run := func() []PetView {
		session := mustSession(t, testDocument(pets, nil), testConfig())
		for i := 0; i < 120; i++ {
			if err := session.Advance(Input{MoveX: 0.3, MoveY: 0.1}, 1.0/15); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		}
		return session.Snapshot().Pets
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("pet counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Pos != second[i].Pos || first[i].State != second[i].State {
			t.Fatalf("pet %s diverged: %+v vs %+v", first[i].ID, first[i], second[i])
		}
	}
}
