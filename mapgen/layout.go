package mapgen

import (
	"math"

	"github.com/lixenwraith/arx-infinitum/vmath"
)

// Layout maps grid coordinates to world space. The grid is centred on the
// origin in the X/Z plane with each tile TileSize wide
type Layout struct {
	Width, Height int
	TileSize      float64
}

// CoordToPosition returns the world centre of tile (x, y)
func (l Layout) CoordToPosition(x, y int) vmath.Vec3F {
	return vmath.Vec3F{
		X: (-float64(l.Width)/2 + 0.5 + float64(x)) * l.TileSize,
		Y: 0,
		Z: (-float64(l.Height)/2 + 0.5 + float64(y)) * l.TileSize,
	}
}

// PositionToCoordinate is the inverse of CoordToPosition, clamped to the grid
func (l Layout) PositionToCoordinate(pos vmath.Vec3F) Coord {
	x := int(math.Round(pos.X/l.TileSize + float64(l.Width-1)/2))
	y := int(math.Round(pos.Z/l.TileSize + float64(l.Height-1)/2))
	return Coord{
		X: vmath.ClampInt(x, 0, l.Width-1),
		Y: vmath.ClampInt(y, 0, l.Height-1),
	}
}
