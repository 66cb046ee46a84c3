package mapgen

import "github.com/lucasb-eyer/go-colorful"

// Tile identifies one grid cell; ids are y*width+x
type Tile int

// TileGrid is indexed [y][x]; every cell holds exactly one tile
type TileGrid [][]Tile

// ObstacleMap is indexed [y][x]; true marks an obstacle
type ObstacleMap [][]bool

func newObstacleMap(w, h int) ObstacleMap {
	grid := make(ObstacleMap, h)
	for y := range grid {
		grid[y] = make([]bool, w)
	}
	return grid
}

func (m ObstacleMap) InBounds(c Coord) bool {
	return c.Y >= 0 && c.Y < len(m) && c.X >= 0 && len(m) > 0 && c.X < len(m[0])
}

// At reports whether c holds an obstacle; out of bounds reads as false
func (m ObstacleMap) At(c Coord) bool {
	return m.InBounds(c) && m[c.Y][c.X]
}

func (m ObstacleMap) clone() ObstacleMap {
	out := make(ObstacleMap, len(m))
	for y := range m {
		out[y] = append([]bool(nil), m[y]...)
	}
	return out
}

// Obstacle is a kept placement with its decoration
type Obstacle struct {
	Coord  Coord
	Height float64
	Colour colorful.Color
}

// Map is the frozen result of one generation pass
type Map struct {
	spec      Spec
	tiles     TileGrid
	obstacles ObstacleMap
	placed    []Obstacle
	open      []Coord
	target    int
	rejected  int

	// Both supplies rotate; owned by the Generator after generation
	spawnSupply *Supply[Coord]
	openSupply  *Supply[Coord]
}

func (m *Map) Spec() Spec         { return m.spec }
func (m *Map) Width() int         { return m.spec.Width }
func (m *Map) Height() int        { return m.spec.Height }
func (m *Map) Center() Coord      { return m.spec.Center() }
func (m *Map) Target() int        { return m.target }
func (m *Map) Rejected() int      { return m.rejected }
func (m *Map) ObstacleCount() int { return len(m.placed) }

// IsObstacle reports whether c is an obstacle; out of bounds is not
func (m *Map) IsObstacle(c Coord) bool {
	return m.obstacles.At(c)
}

// Tile returns the tile id at c and false when c is off the grid
func (m *Map) Tile(c Coord) (Tile, bool) {
	if !m.obstacles.InBounds(c) {
		return 0, false
	}
	return m.tiles[c.Y][c.X], true
}

// TileGrid returns a copy of the tile ids
func (m *Map) TileGrid() TileGrid {
	out := make(TileGrid, len(m.tiles))
	for y := range m.tiles {
		out[y] = append([]Tile(nil), m.tiles[y]...)
	}
	return out
}

// ObstacleMap returns a copy of the obstacle flags
func (m *Map) ObstacleMap() ObstacleMap {
	return m.obstacles.clone()
}

// Obstacles returns kept placements in placement order
func (m *Map) Obstacles() []Obstacle {
	return append([]Obstacle(nil), m.placed...)
}

// OpenCoords returns obstacle-free coordinates in enumeration order
func (m *Map) OpenCoords() []Coord {
	return append([]Coord(nil), m.open...)
}

// FillRatio is kept obstacles over requested obstacles, 1 when none were requested
func (m *Map) FillRatio() float64 {
	if m.target == 0 {
		return 1
	}
	return float64(len(m.placed)) / float64(m.target)
}
