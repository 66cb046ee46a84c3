package wave

import (
	"fmt"
	"log"
	"time"

	"github.com/lixenwraith/arx-infinitum/vmath"
)

// Listener receives a wave number
type Listener func(number int) error

// Spawner drives wave progression. Not safe for concurrent use; one game loop owns it
type Spawner struct {
	waves []Wave
	tiles TileSource
	opts  Options

	number  int // 1-based; 0 before Start
	current Wave

	remainingToSpawn int
	remainingAlive   int
	nextSpawn        time.Duration

	nextCampCheck time.Duration
	campAnchor    vmath.Vec3F
	camping       bool

	disabled bool
	finished bool

	onNewWave       []Listener
	onLevelComplete []Listener
}

// NewSpawner validates waves and returns an idle spawner
func NewSpawner(waves []Wave, tiles TileSource, opts Options) (*Spawner, error) {
	if len(waves) == 0 {
		return nil, fmt.Errorf("no waves configured")
	}
	for i, w := range waves {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("wave %d: %w", i+1, err)
		}
	}
	return &Spawner{
		waves: append([]Wave(nil), waves...),
		tiles: tiles,
		opts:  opts,
	}, nil
}

// OnNewWave registers fn to run when a wave begins, before any spawn of that wave.
// The map generator subscribes here
func (s *Spawner) OnNewWave(fn Listener) {
	s.onNewWave = append(s.onNewWave, fn)
}

// OnLevelComplete registers fn to run when a wave is cleared, with the cleared wave number
func (s *Spawner) OnLevelComplete(fn Listener) {
	s.onLevelComplete = append(s.onLevelComplete, fn)
}

// Start begins wave 1 at time now with the player at player
func (s *Spawner) Start(now time.Duration, player vmath.Vec3F) error {
	s.nextCampCheck = now + s.opts.CampCheckInterval
	s.campAnchor = player
	return s.nextWave()
}

func (s *Spawner) nextWave() error {
	if s.number > 0 {
		for _, fn := range s.onLevelComplete {
			if err := fn(s.number); err != nil {
				return fmt.Errorf("level complete %d: %w", s.number, err)
			}
		}
	}

	if s.number >= len(s.waves) {
		s.finished = true
		log.Printf("All %d waves cleared", len(s.waves))
		return nil
	}

	s.number++
	s.current = s.waves[s.number-1]
	s.remainingToSpawn = s.current.EnemyCount
	s.remainingAlive = s.current.EnemyCount

	log.Printf("Wave %d: %d enemies every %v (infinite=%v)",
		s.number, s.current.EnemyCount, s.current.TimeBetweenSpawns, s.current.Infinite)

	for _, fn := range s.onNewWave {
		if err := fn(s.number); err != nil {
			return fmt.Errorf("new wave %d: %w", s.number, err)
		}
	}
	return nil
}

// Update advances the camping check and returns at most one due spawn
func (s *Spawner) Update(now time.Duration, player vmath.Vec3F) (SpawnRequest, bool, error) {
	if s.number == 0 {
		return SpawnRequest{}, false, ErrNotStarted
	}
	if s.disabled || s.finished {
		return SpawnRequest{}, false, nil
	}

	if now > s.nextCampCheck {
		s.nextCampCheck = now + s.opts.CampCheckInterval
		s.camping = vmath.V3FDist(player, s.campAnchor) < s.opts.CampThreshold
		s.campAnchor = player
	}

	if (s.remainingToSpawn <= 0 && !s.current.Infinite) || now <= s.nextSpawn {
		return SpawnRequest{}, false, nil
	}

	req, err := s.spawnAt(player)
	if err != nil {
		return SpawnRequest{}, false, err
	}
	s.remainingToSpawn--
	s.nextSpawn = now + s.current.TimeBetweenSpawns
	return req, true, nil
}

// spawnAt picks the next open tile, or the player's own tile when camping
func (s *Spawner) spawnAt(player vmath.Vec3F) (SpawnRequest, error) {
	layout, err := s.tiles.Layout()
	if err != nil {
		return SpawnRequest{}, err
	}

	coord := layout.PositionToCoordinate(player)
	if !s.camping {
		if coord, err = s.tiles.DrawOpenTile(); err != nil {
			return SpawnRequest{}, err
		}
	}

	pos := layout.CoordToPosition(coord.X, coord.Y)
	pos.Y += s.opts.SpawnHeight
	return SpawnRequest{
		Wave:       s.number,
		Coord:      coord,
		Position:   pos,
		FlashDelay: s.opts.FlashDelay,
		Camping:    s.camping,
		Stats:      s.current,
	}, nil
}

// EnemyKilled records one death and reports whether it cleared the wave
func (s *Spawner) EnemyKilled() (bool, error) {
	if s.number == 0 {
		return false, ErrNotStarted
	}
	if s.finished {
		return false, nil
	}
	s.remainingAlive--
	if s.remainingAlive != 0 {
		return false, nil
	}
	return true, s.nextWave()
}

// Skip abandons the current wave and starts the next one
func (s *Spawner) Skip() error {
	if s.number == 0 {
		return ErrNotStarted
	}
	return s.nextWave()
}

// PlayerDied stops all further spawning
func (s *Spawner) PlayerDied() {
	s.disabled = true
}

// PlayerResetPosition is the world centre of the tile under the origin,
// lifted so the player drops onto the map
func (s *Spawner) PlayerResetPosition() (vmath.Vec3F, error) {
	layout, err := s.tiles.Layout()
	if err != nil {
		return vmath.Vec3F{}, err
	}
	c := layout.PositionToCoordinate(vmath.Vec3F{})
	pos := layout.CoordToPosition(c.X, c.Y)
	pos.Y += s.opts.PlayerDropHeight
	return pos, nil
}

func (s *Spawner) Number() int           { return s.number }
func (s *Spawner) Current() Wave         { return s.current }
func (s *Spawner) Camping() bool         { return s.camping }
func (s *Spawner) Finished() bool        { return s.finished }
func (s *Spawner) Disabled() bool        { return s.disabled }
func (s *Spawner) RemainingToSpawn() int { return s.remainingToSpawn }
func (s *Spawner) RemainingAlive() int   { return s.remainingAlive }
