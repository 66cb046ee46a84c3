// Package wave sequences enemy waves and schedules spawns on open map tiles.
// The clock is injected: callers pass the elapsed game time to every call
package wave

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/arx-infinitum/mapgen"
	"github.com/lixenwraith/arx-infinitum/vmath"
)

// ErrNotStarted is returned by operations that need an active wave
var ErrNotStarted = errors.New("spawner not started")

// Wave is one stage of enemies; wave n plays on map n
type Wave struct {
	// Infinite waves keep spawning regardless of EnemyCount
	Infinite          bool          `yaml:"infinite"`
	EnemyCount        int           `yaml:"enemy_count"`
	TimeBetweenSpawns time.Duration `yaml:"time_between_spawns"`

	// Enemy characteristics passed through to spawned enemies
	MoveSpeed        float64 `yaml:"move_speed"`
	HitsToKillPlayer int     `yaml:"hits_to_kill_player"`
	EnemyHealth      float64 `yaml:"enemy_health"`
	SkinColour       string  `yaml:"skin_colour"`
}

// Validate checks counts and timing
func (w Wave) Validate() error {
	if w.EnemyCount < 0 {
		return fmt.Errorf("enemy count %d is negative", w.EnemyCount)
	}
	if w.TimeBetweenSpawns <= 0 {
		return fmt.Errorf("time between spawns %v must be positive", w.TimeBetweenSpawns)
	}
	if !w.Infinite && w.EnemyCount == 0 {
		return fmt.Errorf("finite wave needs at least one enemy")
	}
	return nil
}

// TileSource supplies spawn tiles and the world transform of the current map
type TileSource interface {
	DrawOpenTile() (mapgen.Coord, error)
	Layout() (mapgen.Layout, error)
}

// Options tune spawn pacing and anti-camping
type Options struct {
	// Player is camping when it moved less than CampThreshold over one CampCheckInterval
	CampCheckInterval time.Duration
	CampThreshold     float64

	// FlashDelay is how long the spawn tile flashes before the enemy appears
	FlashDelay time.Duration

	// SpawnHeight lifts the spawn position above the tile
	SpawnHeight float64
	// PlayerDropHeight lifts the reset position so the player drops in
	PlayerDropHeight float64
}

func DefaultOptions() Options {
	return Options{
		CampCheckInterval: 2 * time.Second,
		CampThreshold:     1.5,
		FlashDelay:        time.Second,
		SpawnHeight:       1,
		PlayerDropHeight:  3,
	}
}

// SpawnRequest asks the host to flash Coord for FlashDelay and then spawn an
// enemy with Stats at Position
type SpawnRequest struct {
	Wave       int
	Coord      mapgen.Coord
	Position   vmath.Vec3F
	FlashDelay time.Duration
	Camping    bool
	Stats      Wave
}
