package world

// Snapshot is the read-only render surface for one tick. The core draws
// nothing; external layers consume this instead of reaching into the
// session.
type Snapshot struct {
	SessionID string  `json:"sessionId"`
	Tick      uint64  `json:"tick"`
	Elapsed   float64 `json:"elapsed"`
	Remaining float64 `json:"remaining"`
	Paused    bool    `json:"paused"`
	Outcome   Outcome `json:"outcome"`
	Score     int     `json:"score"`

	Player  PlayerView   `json:"player"`
	Pets    []PetView    `json:"pets"`
	Camera  CameraView   `json:"camera"`
	Hints   []HintView   `json:"hints"`
	Tiles   TileWindow   `json:"tiles"`
	Results *RoundResult `json:"results,omitempty"` // set once the round ends
}

// RoundResult summarizes a finished round for the external result screen.
type RoundResult struct {
	Outcome   Outcome     `json:"outcome"`
	Score     int         `json:"score"`
	Rescued   []PetRescue `json:"rescued"`
	Total     int         `json:"total"`
	Remaining float64     `json:"remaining"`
}

// PetRescue records one rescue in the order it happened.
type PetRescue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tick uint64 `json:"tick"`
}

type PlayerView struct {
	ID      string          `json:"id"`
	Pos     Vec2            `json:"pos"`
	Facing  FacingDirection `json:"facing"`
	Rescued []string        `json:"rescued"`
}

type PetView struct {
	ID         string          `json:"id"`
	Species    string          `json:"species"`
	Name       string          `json:"name"`
	Rarity     string          `json:"rarity,omitempty"`
	Pos        Vec2            `json:"pos"`
	Facing     FacingDirection `json:"facing"`
	State      string          `json:"state"`
	Discovered bool            `json:"discovered"`
}

type CameraView struct {
	Offset     Vec2    `json:"offset"`
	ViewWidth  float64 `json:"viewWidth"`
	ViewHeight float64 `json:"viewHeight"`
}

type HintView struct {
	ID         string  `json:"id"`
	At         float64 `json:"at"`
	MessageKey string  `json:"messageKey"`
	Fired      bool    `json:"fired"`
}

// TileWindow is the tile-aligned slice of the grid covered by the viewport,
// so renderers only touch visible rows.
type TileWindow struct {
	X        int        `json:"x"` // first visible column
	Y        int        `json:"y"` // first visible row
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	TileSize float64    `json:"tileSize"`
	Types    [][]string `json:"types"` // row-major within the window
}

// Snapshot captures the current render state. Safe to call between Advance
// calls from the goroutine that owns the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		Tick:      s.tick,
		Elapsed:   s.elapsed,
		Remaining: s.Remaining(),
		Paused:    s.paused,
		Outcome:   s.outcome,
		Score:     s.score,
		Player: PlayerView{
			ID:      s.player.id,
			Pos:     s.player.pos,
			Facing:  s.player.facing,
			Rescued: s.player.rescuedIDs(),
		},
		Camera: CameraView{
			Offset:     s.camera.Offset(),
			ViewWidth:  s.cfg.ViewWidth,
			ViewHeight: s.cfg.ViewHeight,
		},
	}

	snap.Pets = make([]PetView, 0, len(s.pets))
	for _, pet := range s.pets {
		snap.Pets = append(snap.Pets, PetView{
			ID:         pet.id,
			Species:    pet.species,
			Name:       pet.name,
			Rarity:     pet.rarity,
			Pos:        pet.pos,
			Facing:     pet.facing,
			State:      pet.state.String(),
			Discovered: pet.discovered || !pet.requiresDiscovery(),
		})
	}

	snap.Hints = make([]HintView, 0, len(s.hints))
	for _, hint := range s.hints {
		snap.Hints = append(snap.Hints, HintView{
			ID:         hint.def.ID,
			At:         hint.def.At,
			MessageKey: hint.def.MessageKey,
			Fired:      hint.fired,
		})
	}

	snap.Tiles = s.tileWindow()

	if s.outcome != OutcomeRunning {
		result := &RoundResult{
			Outcome:   s.outcome,
			Score:     s.score,
			Total:     len(s.pets),
			Remaining: s.Remaining(),
		}
		byID := make(map[string]*petState, len(s.pets))
		for _, pet := range s.pets {
			byID[pet.id] = pet
		}
		for _, id := range s.player.rescueOrder {
			pet, ok := byID[id]
			if !ok {
				continue
			}
			result.Rescued = append(result.Rescued, PetRescue{ID: pet.id, Name: pet.name, Tick: pet.rescuedAtTick})
		}
		snap.Results = result
	}
	return snap
}

// tileWindow clips the camera viewport to tile coordinates.
func (s *Session) tileWindow() TileWindow {
	offset := s.camera.Offset()
	size := s.grid.TileSize()

	x0 := int(offset.X / size)
	y0 := int(offset.Y / size)
	x1 := int((offset.X+s.cfg.ViewWidth-1)/size) + 1
	y1 := int((offset.Y+s.cfg.ViewHeight-1)/size) + 1

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > s.grid.Width() {
		x1 = s.grid.Width()
	}
	if y1 > s.grid.Height() {
		y1 = s.grid.Height()
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}

	window := TileWindow{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0, TileSize: size}
	window.Types = make([][]string, 0, window.Height)
	for ty := y0; ty < y1; ty++ {
		row := make([]string, 0, window.Width)
		for tx := x0; tx < x1; tx++ {
			row = append(row, s.grid.TileTypeAt(float64(tx)*size, float64(ty)*size))
		}
		window.Types = append(window.Types, row)
	}
	return window
}
