package mapgen

import (
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/lixenwraith/arx-infinitum/status"
	"github.com/lixenwraith/arx-infinitum/vmath"
)

// Metric keys written by Generator
const (
	MetricGenerated = "mapgen.generated"
	MetricPlaced    = "mapgen.obstacles.placed"
	MetricRejected  = "mapgen.obstacles.rejected"
	MetricFillRatio = "mapgen.fill_ratio"
)

// Generate builds a map from spec. The result depends only on spec:
// equal specs produce equal maps
func Generate(spec Spec) (*Map, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	fg, bg, _ := spec.colours()
	w, h := spec.Width, spec.Height

	// 1. Enumerate and tile
	all := make([]Coord, 0, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			all = append(all, Coord{x, y})
		}
	}
	tiles := make(TileGrid, h)
	for y := range tiles {
		tiles[y] = make([]Tile, w)
		for x := range tiles[y] {
			tiles[y][x] = Tile(y*w + x)
		}
	}

	m := &Map{
		spec:        spec,
		tiles:       tiles,
		obstacles:   newObstacleMap(w, h),
		target:      spec.TargetObstacles(),
		spawnSupply: NewSupply(Shuffle(append([]Coord(nil), all...), spec.Seed)),
	}

	// 2. Place obstacles; a rejected draw still consumes its iteration
	rng := rand.New(rand.NewSource(spec.Seed))
	center := spec.Center()
	count := 0
	for i := 0; i < m.target; i++ {
		c, _ := m.spawnSupply.Next()

		m.obstacles[c.Y][c.X] = true
		count++

		if c != center && IsFullyAccessible(m.obstacles, center, count) {
			height := vmath.Lerp(spec.MinObstacleHeight, spec.MaxObstacleHeight, rng.Float64())
			m.placed = append(m.placed, Obstacle{
				Coord:  c,
				Height: height,
				Colour: fg.BlendRgb(bg, float64(c.Y)/float64(h)),
			})
			continue
		}

		m.obstacles[c.Y][c.X] = false
		count--
		m.rejected++
	}

	// 3. Open tiles keep enumeration order, then get their own shuffled supply
	m.open = make([]Coord, 0, len(all)-count)
	for _, c := range all {
		if !m.obstacles[c.Y][c.X] {
			m.open = append(m.open, c)
		}
	}
	m.openSupply = NewSupply(Shuffle(append([]Coord(nil), m.open...), spec.Seed))

	return m, nil
}

// Generator owns the current map and its coordinate supplies.
// Each Generate replaces the previous map outright
type Generator struct {
	mu       sync.Mutex
	tileSize float64
	metrics  *status.Registry
	current  *Map
}

// NewGenerator creates a generator with the given world tile size.
// metrics may be nil
func NewGenerator(tileSize float64, metrics *status.Registry) (*Generator, error) {
	if !(tileSize > 0) {
		return nil, fmt.Errorf("%w: tile size %v must be positive", ErrInvalidSpec, tileSize)
	}
	return &Generator{tileSize: tileSize, metrics: metrics}, nil
}

// Generate builds and installs a new current map
func (g *Generator) Generate(spec Spec) (*Map, error) {
	m, err := Generate(spec)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.current = m
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.Ints.Get(MetricGenerated).Add(1)
		g.metrics.Ints.Get(MetricPlaced).Add(int64(m.ObstacleCount()))
		g.metrics.Ints.Get(MetricRejected).Add(int64(m.rejected))
		g.metrics.Floats.Get(MetricFillRatio).Set(m.FillRatio())
	}

	log.Printf("Generated map %dx%d seed=%d: %d/%d obstacles (%d rejected)",
		spec.Width, spec.Height, spec.Seed, m.ObstacleCount(), m.target, m.rejected)
	return m, nil
}

// Current returns the installed map or nil before the first Generate
func (g *Generator) Current() *Map {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// DrawSpawnCoordinate rotates the full-coordinate supply
func (g *Generator) DrawSpawnCoordinate() (Coord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Coord{}, ErrNotGenerated
	}
	return g.current.spawnSupply.Next()
}

// DrawOpenTile rotates the open-coordinate supply.
// Returns ErrEmptySupply when every tile is an obstacle
func (g *Generator) DrawOpenTile() (Coord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Coord{}, ErrNotGenerated
	}
	return g.current.openSupply.Next()
}

// Layout returns the world transform for the current map
func (g *Generator) Layout() (Layout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return Layout{}, ErrNotGenerated
	}
	return Layout{Width: g.current.spec.Width, Height: g.current.spec.Height, TileSize: g.tileSize}, nil
}

func (g *Generator) TileSize() float64 {
	return g.tileSize
}
