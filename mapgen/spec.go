package mapgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidSpec is wrapped by every Spec validation failure
	ErrInvalidSpec = errors.New("invalid map spec")
	// ErrNotGenerated is returned by draws and layout queries before the first Generate
	ErrNotGenerated = errors.New("map not generated")
	// ErrEmptySupply is returned when drawing from a supply with no coordinates
	ErrEmptySupply = errors.New("coordinate supply is empty")
)

// Coord is a tile index on the map grid
type Coord struct {
	X, Y int
}

// Spec describes one map. Heights and colours are decoration only and
// never influence placement
type Spec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// ObstacleDensity is the fraction of tiles to attempt as obstacles, in [0, 1]
	ObstacleDensity float64 `yaml:"obstacle_density"`
	Seed            int64   `yaml:"seed"`

	MinObstacleHeight float64 `yaml:"min_obstacle_height"`
	MaxObstacleHeight float64 `yaml:"max_obstacle_height"`

	// Gradient endpoints as hex (#rrggbb); Foreground at y=0
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
}

// Center is the flood fill origin; never an obstacle
func (s Spec) Center() Coord {
	return Coord{s.Width / 2, s.Height / 2}
}

// TargetObstacles is round(width*height*density)
func (s Spec) TargetObstacles() int {
	return int(math.Round(float64(s.Width*s.Height) * s.ObstacleDensity))
}

// Validate rejects specs that cannot produce a map
func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidSpec, s.Width, s.Height)
	}
	if math.IsNaN(s.ObstacleDensity) || s.ObstacleDensity < 0 || s.ObstacleDensity > 1 {
		return fmt.Errorf("%w: obstacle density %v outside [0, 1]", ErrInvalidSpec, s.ObstacleDensity)
	}
	if s.MinObstacleHeight > s.MaxObstacleHeight {
		return fmt.Errorf("%w: min obstacle height %v exceeds max %v", ErrInvalidSpec, s.MinObstacleHeight, s.MaxObstacleHeight)
	}
	if _, _, err := s.colours(); err != nil {
		return err
	}
	return nil
}

// colours parses the gradient endpoints; empty strings default to white and black
func (s Spec) colours() (fg, bg colorful.Color, err error) {
	fg, bg = colorful.Color{R: 1, G: 1, B: 1}, colorful.Color{}
	if s.Foreground != "" {
		if fg, err = colorful.Hex(s.Foreground); err != nil {
			return fg, bg, fmt.Errorf("%w: foreground %q: %v", ErrInvalidSpec, s.Foreground, err)
		}
	}
	if s.Background != "" {
		if bg, err = colorful.Hex(s.Background); err != nil {
			return fg, bg, fmt.Errorf("%w: background %q: %v", ErrInvalidSpec, s.Background, err)
		}
	}
	return fg, bg, nil
}
