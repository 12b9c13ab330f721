package world

// Config captures the tunables for one round. Constructed once at round start
// and passed into the session constructor; there is no process-wide mutable
// configuration state.
type Config struct {
	Seed string `json:"seed"`

	TimeLimit      float64 `json:"timeLimit"`      // seconds
	WarningAt      float64 `json:"warningAt"`      // remaining seconds for the one-shot warning
	PerPetScore    int     `json:"perPetScore"`    // points per rescued pet
	BonusPerSecond float64 `json:"bonusPerSecond"` // points per remaining second on a win

	PlayerSpeed       float64 `json:"playerSpeed"` // pixels per second
	PetSpeed          float64 `json:"petSpeed"`
	PlayerHalf        float64 `json:"playerHalf"` // collision half extent
	PetHalf           float64 `json:"petHalf"`
	InteractionRadius float64 `json:"interactionRadius"`

	ViewWidth      float64 `json:"viewWidth"`
	ViewHeight     float64 `json:"viewHeight"`
	CameraMaxSpeed float64 `json:"cameraMaxSpeed"` // 0 snaps the camera every tick
}

const (
	defaultTimeLimit      = 300.0
	defaultWarningAt      = 30.0
	defaultPerPetScore    = 1000
	defaultBonusPerSecond = 10.0

	defaultPlayerSpeed       = 300.0
	defaultPetSpeed          = 150.0
	defaultPlayerHalf        = 12.0
	defaultPetHalf           = 12.0
	defaultInteractionRadius = 32.0

	defaultViewWidth      = 1280.0
	defaultViewHeight     = 720.0
	defaultCameraMaxSpeed = 900.0
)

// DefaultConfig returns the round tunables used by the bundled map.
func DefaultConfig() Config {
	return Config{}.Normalized()
}

// Normalized returns a config with defaults applied to unset fields.
func (c Config) Normalized() Config {
	normalized := c
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.TimeLimit <= 0 {
		normalized.TimeLimit = defaultTimeLimit
	}
	if normalized.WarningAt <= 0 {
		normalized.WarningAt = defaultWarningAt
	}
	if normalized.PerPetScore <= 0 {
		normalized.PerPetScore = defaultPerPetScore
	}
	if normalized.BonusPerSecond <= 0 {
		normalized.BonusPerSecond = defaultBonusPerSecond
	}
	if normalized.PlayerSpeed <= 0 {
		normalized.PlayerSpeed = defaultPlayerSpeed
	}
	if normalized.PetSpeed <= 0 {
		normalized.PetSpeed = defaultPetSpeed
	}
	if normalized.PlayerHalf <= 0 {
		normalized.PlayerHalf = defaultPlayerHalf
	}
	if normalized.PetHalf <= 0 {
		normalized.PetHalf = defaultPetHalf
	}
	if normalized.InteractionRadius <= 0 {
		normalized.InteractionRadius = defaultInteractionRadius
	}
	if normalized.ViewWidth <= 0 {
		normalized.ViewWidth = defaultViewWidth
	}
	if normalized.ViewHeight <= 0 {
		normalized.ViewHeight = defaultViewHeight
	}
	if normalized.CameraMaxSpeed < 0 {
		normalized.CameraMaxSpeed = defaultCameraMaxSpeed
	}
	return normalized
}
