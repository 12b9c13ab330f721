package world

import (
	"testing"

	"pet-rescue/server/internal/mapdata"
)

// testDocument builds a 10x10 walled yard with grass inside. The walkable
// pixel region is [32,288) on both axes.
func testDocument(pets []mapdata.PetDef, hints []mapdata.Hint) *mapdata.Document {
	rows := make([]string, 10)
	rows[0] = "##########"
	rows[9] = "##########"
	for y := 1; y <= 8; y++ {
		rows[y] = "#........#"
	}
	return &mapdata.Document{
		Name:     "yard",
		Width:    10,
		Height:   10,
		TileSize: 32,
		Legend: map[string]mapdata.TileDef{
			".": {Type: mapdata.TileGrass, Walkable: true},
			"#": {Type: mapdata.TileWall},
		},
		Rows:  rows,
		Spawn: &mapdata.Position{X: 160, Y: 160},
		Pets:  pets,
		Hints: hints,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CameraMaxSpeed = 0 // snap, keeps camera assertions exact
	return cfg
}

func friendlyPet(id string, spot mapdata.Position) mapdata.PetDef {
	return mapdata.PetDef{
		ID:          id,
		Species:     "dog",
		Name:        id,
		Personality: "friendly",
		Difficulty:  1,
		HidingSpots: []mapdata.Position{spot},
	}
}

func mustGrid(t *testing.T, doc *mapdata.Document) *TileGrid {
	t.Helper()
	grid, err := NewTileGrid(doc)
	if err != nil {
		t.Fatalf("NewTileGrid failed: %v", err)
	}
	return grid
}

func mustSession(t *testing.T, doc *mapdata.Document, cfg Config) *Session {
	t.Helper()
	session, err := NewSession("test", doc, cfg, nil)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}
