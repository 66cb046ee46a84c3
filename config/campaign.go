// Package config loads campaign and player settings files
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/arx-infinitum/mapgen"
	"github.com/lixenwraith/arx-infinitum/wave"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvSeedOffset   = "ARX_SEED_OFFSET"
	EnvMasterVolume = "ARX_MASTER_VOLUME"
)

// ErrInvalidCampaign wraps every campaign validation failure
var ErrInvalidCampaign = errors.New("invalid campaign")

// Campaign is the ordered list of maps and waves; wave n is played on map n
type Campaign struct {
	TileSize     float64       `yaml:"tile_size"`
	StreakExpiry time.Duration `yaml:"streak_expiry"`
	Maps         []mapgen.Spec `yaml:"maps"`
	Waves        []wave.Wave   `yaml:"waves"`
}

// Default returns the built-in five-wave campaign
func Default() *Campaign {
	return &Campaign{
		TileSize:     1,
		StreakExpiry: time.Second,
		Maps: []mapgen.Spec{
			{Width: 7, Height: 7, ObstacleDensity: 0.15, Seed: 12, MinObstacleHeight: 1, MaxObstacleHeight: 3, Foreground: "#5c6b73", Background: "#253237"},
			{Width: 11, Height: 9, ObstacleDensity: 0.25, Seed: 27, MinObstacleHeight: 1, MaxObstacleHeight: 4, Foreground: "#9db4c0", Background: "#3d5a80"},
			{Width: 15, Height: 11, ObstacleDensity: 0.3, Seed: 40, MinObstacleHeight: 0.5, MaxObstacleHeight: 5, Foreground: "#e0fbfc", Background: "#98c1d9"},
			{Width: 19, Height: 13, ObstacleDensity: 0.35, Seed: 51, MinObstacleHeight: 0.5, MaxObstacleHeight: 6, Foreground: "#ee6c4d", Background: "#293241"},
			{Width: 25, Height: 15, ObstacleDensity: 0.4, Seed: 68, MinObstacleHeight: 1, MaxObstacleHeight: 8, Foreground: "#f4d35e", Background: "#0d3b66"},
		},
		Waves: []wave.Wave{
			{EnemyCount: 5, TimeBetweenSpawns: 2 * time.Second, MoveSpeed: 3, HitsToKillPlayer: 1, EnemyHealth: 1, SkinColour: "#8ecae6"},
			{EnemyCount: 10, TimeBetweenSpawns: 1500 * time.Millisecond, MoveSpeed: 3.5, HitsToKillPlayer: 2, EnemyHealth: 1, SkinColour: "#219ebc"},
			{EnemyCount: 15, TimeBetweenSpawns: time.Second, MoveSpeed: 4, HitsToKillPlayer: 2, EnemyHealth: 2, SkinColour: "#ffb703"},
			{EnemyCount: 20, TimeBetweenSpawns: 800 * time.Millisecond, MoveSpeed: 4.5, HitsToKillPlayer: 3, EnemyHealth: 3, SkinColour: "#fb8500"},
			{Infinite: true, TimeBetweenSpawns: 500 * time.Millisecond, MoveSpeed: 5, HitsToKillPlayer: 5, EnemyHealth: 5, SkinColour: "#d00000"},
		},
	}
}

// Validate checks every map and wave and that each wave has a map
func (c *Campaign) Validate() error {
	if !(c.TileSize > 0) {
		return fmt.Errorf("%w: tile size %v must be positive", ErrInvalidCampaign, c.TileSize)
	}
	if c.StreakExpiry < 0 {
		return fmt.Errorf("%w: streak expiry %v is negative", ErrInvalidCampaign, c.StreakExpiry)
	}
	if len(c.Waves) == 0 {
		return fmt.Errorf("%w: no waves", ErrInvalidCampaign)
	}
	if len(c.Maps) < len(c.Waves) {
		return fmt.Errorf("%w: %d waves but only %d maps", ErrInvalidCampaign, len(c.Waves), len(c.Maps))
	}
	for i, m := range c.Maps {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: map %d: %w", ErrInvalidCampaign, i+1, err)
		}
	}
	for i, w := range c.Waves {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: wave %d: %w", ErrInvalidCampaign, i+1, err)
		}
	}
	return nil
}

// MapForWave returns the map spec of 1-based wave n
func (c *Campaign) MapForWave(n int) (mapgen.Spec, error) {
	if n < 1 || n > len(c.Maps) {
		return mapgen.Spec{}, fmt.Errorf("no map for wave %d", n)
	}
	return c.Maps[n-1], nil
}

// ApplyEnv applies overrides from lookup; malformed values are ignored
func (c *Campaign) ApplyEnv(lookup func(string) (string, bool)) {
	if s, ok := lookup(EnvSeedOffset); ok {
		if offset, err := strconv.ParseInt(s, 10, 64); err == nil {
			for i := range c.Maps {
				c.Maps[i].Seed += offset
			}
		}
	}
}

// Parse decodes a campaign; unknown keys are rejected and unset tile size
// and streak expiry take their defaults
func Parse(data []byte) (*Campaign, error) {
	c := &Campaign{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decode campaign: %w", err)
	}

	def := Default()
	if c.TileSize == 0 {
		c.TileSize = def.TileSize
	}
	if c.StreakExpiry == 0 {
		c.StreakExpiry = def.StreakExpiry
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads, parses and applies environment overrides
func Load(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campaign: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.ApplyEnv(os.LookupEnv)
	return c, nil
}

// Save writes c as YAML
func Save(path string, c *Campaign) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode campaign: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write campaign: %w", err)
	}
	return nil
}
