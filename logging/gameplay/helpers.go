package gameplay

import (
	"context"
	"time"

	"pet-rescue/server/logging"
)

const (
	EventPetDiscovered logging.EventType = "pet_discovered"
	EventPetFollowing  logging.EventType = "pet_following"
	EventPetRescued    logging.EventType = "pet_rescued"
	EventHintFired     logging.EventType = "hint_fired"
	EventTimeWarning   logging.EventType = "time_warning"
	EventRoundEnded    logging.EventType = "round_ended"
)

type PetPayload struct {
	Species string `json:"species"`
	Name    string `json:"name"`
	Rarity  string `json:"rarity"`
}

type HintPayload struct {
	MessageKey string  `json:"messageKey"`
	At         float64 `json:"at"`
}

type TimeWarningPayload struct {
	Remaining float64 `json:"remaining"`
}

type RoundEndedPayload struct {
	Outcome   string  `json:"outcome"`
	Score     int     `json:"score"`
	Rescued   int     `json:"rescued"`
	Total     int     `json:"total"`
	Remaining float64 `json:"remaining"`
}

func PetDiscovered(ctx context.Context, pub logging.Publisher, tick uint64, playerID, petID string, payload PetPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventPetDiscovered,
		Tick:    tick,
		Time:    time.Now(),
		Actor:   logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Targets: []logging.EntityRef{{ID: petID, Kind: logging.EntityKindPet}},
		Payload: payload,
	})
}

func PetFollowing(ctx context.Context, pub logging.Publisher, tick uint64, playerID, petID string, payload PetPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventPetFollowing,
		Tick:    tick,
		Time:    time.Now(),
		Actor:   logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Targets: []logging.EntityRef{{ID: petID, Kind: logging.EntityKindPet}},
		Payload: payload,
	})
}

func PetRescued(ctx context.Context, pub logging.Publisher, tick uint64, playerID, petID string, payload PetPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventPetRescued,
		Tick:    tick,
		Time:    time.Now(),
		Actor:   logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Targets: []logging.EntityRef{{ID: petID, Kind: logging.EntityKindPet}},
		Payload: payload,
	})
}

func HintFired(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload HintPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventHintFired,
		Tick:    tick,
		Time:    time.Now(),
		Actor:   logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Payload: payload,
	})
}

func TimeWarning(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload TimeWarningPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventTimeWarning,
		Tick:     tick,
		Time:     time.Now(),
		Actor:    logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Severity: logging.SeverityWarn,
		Payload:  payload,
	})
}

func RoundEnded(ctx context.Context, pub logging.Publisher, tick uint64, sessionID string, payload RoundEndedPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventRoundEnded,
		Tick:    tick,
		Time:    time.Now(),
		Actor:   logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Payload: payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	if event.Severity == 0 {
		event.Severity = logging.SeverityInfo
	}
	event.Category = logging.CategoryGameplay
	pub.Publish(ctx, event)
}
