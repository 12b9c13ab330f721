package mapdata

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"
)

// ErrInvalidDocument wraps every map validation failure so callers can refuse
// a round with a single sentinel check.
var ErrInvalidDocument = errors.New("mapdata: invalid document")

//go:embed maps/*.json
var embeddedMaps embed.FS

const defaultMapName = "maps/residential.json"

// Default returns the embedded residential map bundled with the server.
func Default() *Document {
	doc, err := loadEmbedded(defaultMapName)
	if err != nil {
		panic(fmt.Errorf("mapdata: embedded default map: %w", err))
	}
	return doc
}

func loadEmbedded(name string) (*Document, error) {
	data, err := embeddedMaps.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	return Parse(data)
}

// Load reads and validates a map document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapdata: read %q: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mapdata: load %q: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a JSON map document and validates it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural invariants a round depends on. Geometric
// checks that need the resolved grid (spawn walkability, hiding-spot
// walkability) live in the world constructor.
func (d *Document) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions %dx%d", ErrInvalidDocument, d.Width, d.Height)
	}
	if d.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %v", ErrInvalidDocument, d.TileSize)
	}
	if len(d.Legend) == 0 {
		return fmt.Errorf("%w: empty legend", ErrInvalidDocument)
	}
	for code, def := range d.Legend {
		if utf8.RuneCountInString(code) != 1 {
			return fmt.Errorf("%w: legend code %q is not a single character", ErrInvalidDocument, code)
		}
		if !knownTileTypes[def.Type] {
			return fmt.Errorf("%w: legend code %q has unknown tile type %q", ErrInvalidDocument, code, def.Type)
		}
		if def.Walkable && hardObstacleTypes[def.Type] {
			return fmt.Errorf("%w: obstacle tile type %q may not be walkable", ErrInvalidDocument, def.Type)
		}
	}

	if len(d.Rows) != d.Height {
		return fmt.Errorf("%w: %d rows, want %d", ErrInvalidDocument, len(d.Rows), d.Height)
	}
	for y, row := range d.Rows {
		if utf8.RuneCountInString(row) != d.Width {
			return fmt.Errorf("%w: row %d is %d tiles wide, want %d", ErrInvalidDocument, y, utf8.RuneCountInString(row), d.Width)
		}
		for x, code := range row {
			if _, ok := d.Legend[string(code)]; !ok {
				return fmt.Errorf("%w: unknown tile code %q at (%d,%d)", ErrInvalidDocument, string(code), x, y)
			}
		}
	}

	if d.Spawn == nil {
		return fmt.Errorf("%w: missing spawn point", ErrInvalidDocument)
	}
	pixelW := float64(d.Width) * d.TileSize
	pixelH := float64(d.Height) * d.TileSize
	if d.Spawn.X < 0 || d.Spawn.X >= pixelW || d.Spawn.Y < 0 || d.Spawn.Y >= pixelH {
		return fmt.Errorf("%w: spawn (%v,%v) outside map", ErrInvalidDocument, d.Spawn.X, d.Spawn.Y)
	}

	if err := d.validateBuildings(); err != nil {
		return err
	}
	if err := d.validatePets(pixelW, pixelH); err != nil {
		return err
	}
	return d.validateHints()
}

func (d *Document) validateBuildings() error {
	seen := make(map[string]bool, len(d.Buildings))
	for i, b := range d.Buildings {
		if b.ID == "" {
			return fmt.Errorf("%w: building %d missing id", ErrInvalidDocument, i)
		}
		if seen[b.ID] {
			return fmt.Errorf("%w: duplicate building id %q", ErrInvalidDocument, b.ID)
		}
		seen[b.ID] = true
		if b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("%w: building %q has size %dx%d", ErrInvalidDocument, b.ID, b.Width, b.Height)
		}
		if b.X < 0 || b.Y < 0 || b.X+b.Width > d.Width || b.Y+b.Height > d.Height {
			return fmt.Errorf("%w: building %q extends outside the grid", ErrInvalidDocument, b.ID)
		}
		for _, other := range d.Buildings[:i] {
			if b.X < other.X+other.Width && other.X < b.X+b.Width &&
				b.Y < other.Y+other.Height && other.Y < b.Y+b.Height {
				return fmt.Errorf("%w: buildings %q and %q overlap", ErrInvalidDocument, b.ID, other.ID)
			}
		}
	}
	return nil
}

func (d *Document) validatePets(pixelW, pixelH float64) error {
	seen := make(map[string]bool, len(d.Pets))
	for _, pet := range d.Pets {
		if pet.ID == "" {
			return fmt.Errorf("%w: pet missing id", ErrInvalidDocument)
		}
		if seen[pet.ID] {
			return fmt.Errorf("%w: duplicate pet id %q", ErrInvalidDocument, pet.ID)
		}
		seen[pet.ID] = true
		if pet.Species == "" {
			return fmt.Errorf("%w: pet %q missing species", ErrInvalidDocument, pet.ID)
		}
		if len(pet.HidingSpots) == 0 {
			return fmt.Errorf("%w: pet %q has no hiding spots", ErrInvalidDocument, pet.ID)
		}
		for i, spot := range pet.HidingSpots {
			if spot.X < 0 || spot.X >= pixelW || spot.Y < 0 || spot.Y >= pixelH {
				return fmt.Errorf("%w: pet %q hiding spot %d outside map", ErrInvalidDocument, pet.ID, i)
			}
		}
	}
	return nil
}

func (d *Document) validateHints() error {
	seen := make(map[string]bool, len(d.Hints))
	for _, hint := range d.Hints {
		if hint.ID == "" {
			return fmt.Errorf("%w: hint missing id", ErrInvalidDocument)
		}
		if seen[hint.ID] {
			return fmt.Errorf("%w: duplicate hint id %q", ErrInvalidDocument, hint.ID)
		}
		seen[hint.ID] = true
		if hint.At <= 0 {
			return fmt.Errorf("%w: hint %q threshold %v", ErrInvalidDocument, hint.ID, hint.At)
		}
		if hint.MessageKey == "" {
			return fmt.Errorf("%w: hint %q missing message key", ErrInvalidDocument, hint.ID)
		}
	}
	if !sort.SliceIsSorted(d.Hints, func(i, j int) bool { return d.Hints[i].At < d.Hints[j].At }) {
		return fmt.Errorf("%w: hint thresholds must be ascending", ErrInvalidDocument)
	}
	return nil
}
