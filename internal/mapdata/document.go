package mapdata

// Document is the authored static map format: a character grid plus the
// records the simulation needs to seed one round. The grid is expressed as
// rows of single-character tile codes resolved through the legend.
type Document struct {
	Name     string             `json:"name" jsonschema:"required"`
	Width    int                `json:"width" jsonschema:"required"`
	Height   int                `json:"height" jsonschema:"required"`
	TileSize float64            `json:"tileSize" jsonschema:"required"`
	Legend   map[string]TileDef `json:"legend" jsonschema:"required"`
	Rows     []string           `json:"rows" jsonschema:"required"`

	Spawn     *Position  `json:"spawn" jsonschema:"required"`
	Buildings []Building `json:"buildings,omitempty"`
	Pets      []PetDef   `json:"pets,omitempty"`
	Hints     []Hint     `json:"hints,omitempty"`
}

// TileDef describes one legend entry keyed by its single-character code.
type TileDef struct {
	Type     string `json:"type" jsonschema:"required"`
	Walkable bool   `json:"walkable"`
	Name     string `json:"name,omitempty"`
}

// Position is a pixel-space world coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Building occupies a rectangle of tiles. Coordinates are tile-space.
type Building struct {
	ID           string `json:"id" jsonschema:"required"`
	Type         string `json:"type" jsonschema:"required"`
	Name         string `json:"name,omitempty"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width" jsonschema:"required"`
	Height       int    `json:"height" jsonschema:"required"`
	Interactable bool   `json:"interactable,omitempty"`
}

// PetDef seeds one pet instance at round start.
type PetDef struct {
	ID           string     `json:"id" jsonschema:"required"`
	Species      string     `json:"species" jsonschema:"required"`
	Name         string     `json:"name,omitempty"`
	Personality  string     `json:"personality,omitempty"`
	Rarity       string     `json:"rarity,omitempty"`
	Difficulty   int        `json:"difficulty,omitempty"`
	FleeDistance float64    `json:"fleeDistance,omitempty"`
	HidingSpots  []Position `json:"hidingSpots" jsonschema:"required"`
}

// Hint is a one-shot assistance trigger at a fixed elapsed time.
type Hint struct {
	ID         string  `json:"id" jsonschema:"required"`
	At         float64 `json:"at" jsonschema:"required"`
	MessageKey string  `json:"messageKey" jsonschema:"required"`
}

// Tile type names the legend may use. Water and walls are hard obstacles and
// must never be authored walkable.
const (
	TileGrass  = "grass"
	TileRoad   = "road"
	TileSand   = "sand"
	TileFlower = "flower"
	TileWater  = "water"
	TileTree   = "tree"
	TileWall   = "wall"
)

var knownTileTypes = map[string]bool{
	TileGrass:  true,
	TileRoad:   true,
	TileSand:   true,
	TileFlower: true,
	TileWater:  true,
	TileTree:   true,
	TileWall:   true,
}

var hardObstacleTypes = map[string]bool{
	TileWater: true,
	TileTree:  true,
	TileWall:  true,
}
