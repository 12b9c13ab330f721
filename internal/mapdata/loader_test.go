package mapdata

import (
	"errors"
	"strings"
	"testing"
)

func validDocument() *Document {
	return &Document{
		Name:     "test",
		Width:    6,
		Height:   4,
		TileSize: 32,
		Legend: map[string]TileDef{
			".": {Type: TileGrass, Walkable: true},
			"#": {Type: TileWall},
		},
		Rows: []string{
			"######",
			"#....#",
			"#....#",
			"######",
		},
		Spawn: &Position{X: 48, Y: 48},
		Buildings: []Building{
			{ID: "shed", Type: "shed", X: 1, Y: 1, Width: 1, Height: 1},
		},
		Pets: []PetDef{
			{ID: "dog-1", Species: "dog", HidingSpots: []Position{{X: 80, Y: 48}}},
		},
		Hints: []Hint{
			{ID: "hint-1", At: 60, MessageKey: "hint.look"},
			{ID: "hint-2", At: 120, MessageKey: "hint.again"},
		},
	}
}

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	if err := validDocument().Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"zero width", func(d *Document) { d.Width = 0 }},
		{"zero tile size", func(d *Document) { d.TileSize = 0 }},
		{"empty legend", func(d *Document) { d.Legend = nil }},
		{"multi-char legend code", func(d *Document) {
			d.Legend["ab"] = TileDef{Type: TileGrass, Walkable: true}
		}},
		{"unknown tile type", func(d *Document) {
			d.Legend["?"] = TileDef{Type: "lava"}
		}},
		{"walkable obstacle type", func(d *Document) {
			d.Legend["#"] = TileDef{Type: TileWall, Walkable: true}
		}},
		{"row count mismatch", func(d *Document) { d.Rows = d.Rows[:3] }},
		{"row width mismatch", func(d *Document) { d.Rows[1] = "#...#" }},
		{"unknown tile code", func(d *Document) { d.Rows[1] = "#.!..#" }},
		{"missing spawn", func(d *Document) { d.Spawn = nil }},
		{"spawn outside map", func(d *Document) { d.Spawn = &Position{X: 9999, Y: 48} }},
		{"building missing id", func(d *Document) { d.Buildings[0].ID = "" }},
		{"building outside grid", func(d *Document) { d.Buildings[0].X = 5; d.Buildings[0].Width = 3 }},
		{"duplicate building ids", func(d *Document) {
			d.Buildings = append(d.Buildings, Building{ID: "shed", Type: "shed", X: 3, Y: 1, Width: 1, Height: 1})
		}},
		{"overlapping buildings", func(d *Document) {
			d.Buildings = append(d.Buildings, Building{ID: "shed-2", Type: "shed", X: 1, Y: 1, Width: 2, Height: 1})
		}},
		{"pet missing species", func(d *Document) { d.Pets[0].Species = "" }},
		{"pet without hiding spots", func(d *Document) { d.Pets[0].HidingSpots = nil }},
		{"hiding spot outside map", func(d *Document) { d.Pets[0].HidingSpots[0].Y = -4 }},
		{"duplicate pet ids", func(d *Document) {
			d.Pets = append(d.Pets, d.Pets[0])
		}},
		{"hint missing message key", func(d *Document) { d.Hints[0].MessageKey = "" }},
		{"hint threshold not positive", func(d *Document) { d.Hints[0].At = 0; d.Hints[0].MessageKey = "x" }},
		{"hints out of order", func(d *Document) { d.Hints[0].At = 500 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := validDocument()
			tc.mutate(doc)
			err := doc.Validate()
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("Validate = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("Parse = %v, want ErrInvalidDocument", err)
	}
}

func TestDefaultMapLoads(t *testing.T) {
	doc := Default()
	if doc.Width != 32 || doc.Height != 24 {
		t.Fatalf("default map is %dx%d, want 32x24", doc.Width, doc.Height)
	}
	if doc.TileSize != 32 {
		t.Fatalf("default tile size = %v, want 32", doc.TileSize)
	}
	if len(doc.Pets) != 4 {
		t.Fatalf("default map has %d pets, want 4", len(doc.Pets))
	}
	if len(doc.Hints) != 3 {
		t.Fatalf("default map has %d hints, want 3", len(doc.Hints))
	}
	for _, pet := range doc.Pets {
		if len(pet.HidingSpots) == 0 {
			t.Fatalf("pet %s has no hiding spots", pet.ID)
		}
	}
	for _, hint := range doc.Hints {
		if !strings.HasPrefix(hint.MessageKey, "hint.") {
			t.Fatalf("hint %s has message key %q", hint.ID, hint.MessageKey)
		}
	}
}
