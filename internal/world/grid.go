package world

import (
	"fmt"

	"pet-rescue/server/internal/mapdata"
)

// Building is a rectangular footprint resolved into pixel space.
type Building struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Name         string  `json:"name,omitempty"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Interactable bool    `json:"interactable,omitempty"`
}

// TileGrid is the immutable collision/lookup surface for one round. It is
// constructed once from a validated map document and read-only afterwards, so
// every agent may query it without synchronization.
type TileGrid struct {
	width    int
	height   int
	tileSize float64

	// row-major; walkable folds tile type and non-interactable building
	// footprints into a single lookup.
	types    []string
	walkable []bool

	buildings []Building
}

// NewTileGrid resolves a map document into a collision grid. Violations that
// need the resolved geometry (spawn or hiding spot on a blocked tile) are
// reported here; structural checks happen in mapdata.
func NewTileGrid(doc *mapdata.Document) (*TileGrid, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", mapdata.ErrInvalidDocument)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	g := &TileGrid{
		width:    doc.Width,
		height:   doc.Height,
		tileSize: doc.TileSize,
		types:    make([]string, doc.Width*doc.Height),
		walkable: make([]bool, doc.Width*doc.Height),
	}

	for y, row := range doc.Rows {
		x := 0
		for _, code := range row {
			def := doc.Legend[string(code)]
			idx := y*doc.Width + x
			g.types[idx] = def.Type
			g.walkable[idx] = def.Walkable
			x++
		}
	}

	g.buildings = make([]Building, 0, len(doc.Buildings))
	for _, b := range doc.Buildings {
		g.buildings = append(g.buildings, Building{
			ID:           b.ID,
			Type:         b.Type,
			Name:         b.Name,
			X:            float64(b.X) * doc.TileSize,
			Y:            float64(b.Y) * doc.TileSize,
			Width:        float64(b.Width) * doc.TileSize,
			Height:       float64(b.Height) * doc.TileSize,
			Interactable: b.Interactable,
		})
		if b.Interactable {
			continue
		}
		for ty := b.Y; ty < b.Y+b.Height; ty++ {
			for tx := b.X; tx < b.X+b.Width; tx++ {
				g.walkable[ty*doc.Width+tx] = false
			}
		}
	}

	if !g.IsWalkable(doc.Spawn.X, doc.Spawn.Y) {
		return nil, fmt.Errorf("%w: spawn (%v,%v) is not walkable", mapdata.ErrInvalidDocument, doc.Spawn.X, doc.Spawn.Y)
	}
	for _, pet := range doc.Pets {
		for i, spot := range pet.HidingSpots {
			if !g.IsWalkable(spot.X, spot.Y) {
				return nil, fmt.Errorf("%w: pet %q hiding spot %d is not walkable", mapdata.ErrInvalidDocument, pet.ID, i)
			}
		}
	}

	return g, nil
}

// Width returns the grid width in tiles.
func (g *TileGrid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *TileGrid) Height() int { return g.height }

// TileSize returns the tile edge length in pixels.
func (g *TileGrid) TileSize() float64 { return g.tileSize }

// PixelWidth returns the map width in pixels.
func (g *TileGrid) PixelWidth() float64 { return float64(g.width) * g.tileSize }

// PixelHeight returns the map height in pixels.
func (g *TileGrid) PixelHeight() float64 { return float64(g.height) * g.tileSize }

// Buildings returns the resolved building records.
func (g *TileGrid) Buildings() []Building { return g.buildings }

// TileTypeAt returns the tile type under a world position, or "" outside the
// grid.
func (g *TileGrid) TileTypeAt(x, y float64) string {
	tx, ty, ok := g.tileIndex(x, y)
	if !ok {
		return ""
	}
	return g.types[ty*g.width+tx]
}

// IsWalkable reports whether a world position maps to a walkable tile.
// Positions outside grid bounds are never walkable.
func (g *TileGrid) IsWalkable(x, y float64) bool {
	tx, ty, ok := g.tileIndex(x, y)
	if !ok {
		return false
	}
	return g.walkable[ty*g.width+tx]
}

// BuildingAt returns the building whose footprint contains the world
// position, for interaction queries such as "player is near the pet shop".
func (g *TileGrid) BuildingAt(x, y float64) (Building, bool) {
	for _, b := range g.buildings {
		if x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height {
			return b, true
		}
	}
	return Building{}, false
}

func (g *TileGrid) tileIndex(x, y float64) (int, int, bool) {
	if !isFinite(x) || !isFinite(y) || x < 0 || y < 0 {
		return 0, 0, false
	}
	tx := int(x / g.tileSize)
	ty := int(y / g.tileSize)
	if tx >= g.width || ty >= g.height {
		return 0, 0, false
	}
	return tx, ty, true
}
