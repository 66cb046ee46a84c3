// Package game wires map generation, wave spawning, scoring and sound into
// one session driven by an injected clock
package game

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/arx-infinitum/audio"
	"github.com/lixenwraith/arx-infinitum/config"
	"github.com/lixenwraith/arx-infinitum/events"
	"github.com/lixenwraith/arx-infinitum/mapgen"
	"github.com/lixenwraith/arx-infinitum/score"
	"github.com/lixenwraith/arx-infinitum/status"
	"github.com/lixenwraith/arx-infinitum/vmath"
	"github.com/lixenwraith/arx-infinitum/wave"
)

// Sound plays a named effect and reports whether the group exists
type Sound interface {
	PlaySound2D(id string) bool
}

// Music starts a looping theme; *audio.Manager satisfies it
type Music interface {
	PlayTheme(id string, fade time.Duration) bool
}

// ThemeFade is the crossfade into the theme when a run starts
const ThemeFade = 2 * time.Second

var (
	_ Sound = (*audio.Manager)(nil)
	_ Music = (*audio.Manager)(nil)
)

// Session holds one run of a campaign. Not safe for concurrent use;
// the game loop owns it and passes the clock to every call
type Session struct {
	Campaign  *config.Campaign
	Generator *mapgen.Generator
	Spawner   *wave.Spawner
	Score     *score.Keeper

	queue   *events.EventQueue
	router  *events.Router[*Session]
	now     time.Duration
	dropped *atomic.Int64
}

// NewSession builds a session for c. sound and metrics may be nil.
// A sound that also implements Music gets the theme at wave 1
func NewSession(c *config.Campaign, sound Sound, metrics *status.Registry) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	gen, err := mapgen.NewGenerator(c.TileSize, metrics)
	if err != nil {
		return nil, err
	}
	spawner, err := wave.NewSpawner(c.Waves, gen, wave.DefaultOptions())
	if err != nil {
		return nil, err
	}

	queue := events.NewEventQueue()
	s := &Session{
		Campaign:  c,
		Generator: gen,
		Spawner:   spawner,
		Score:     score.NewKeeper(c.StreakExpiry),
		queue:     queue,
		router:    events.NewRouter[*Session](queue),
	}

	// Maps are generated at wave start, before the wave's first spawn
	spawner.OnNewWave(s.loadMap)
	spawner.OnLevelComplete(func(n int) error {
		s.push(events.EventLevelComplete, &events.WavePayload{Number: n, Map: gen.Current()})
		return nil
	})

	if sound != nil {
		s.router.Register(&soundHandler{sound: sound})
		if music, ok := sound.(Music); ok {
			s.router.Register(&musicHandler{music: music})
		}
	}
	if metrics != nil {
		s.router.Register(newMetricsHandler(metrics))
		s.dropped = metrics.Ints.Get(MetricEventsDropped)
	}
	return s, nil
}

// Subscribe registers an additional event handler
func (s *Session) Subscribe(h events.Handler[*Session]) {
	s.router.Register(h)
}

// Now is the clock reading of the last call
func (s *Session) Now() time.Duration {
	return s.now
}

func (s *Session) loadMap(n int) error {
	spec, err := s.Campaign.MapForWave(n)
	if err != nil {
		return err
	}
	m, err := s.Generator.Generate(spec)
	if err != nil {
		return fmt.Errorf("generate map %d: %w", n, err)
	}
	reset, err := s.Spawner.PlayerResetPosition()
	if err != nil {
		return err
	}
	s.push(events.EventWaveStarted, &events.WavePayload{Number: n, Map: m, ResetPosition: reset})
	return nil
}

func (s *Session) push(t events.EventType, payload any) {
	s.queue.Push(events.GameEvent{Type: t, Payload: payload, Time: s.now})
}

func (s *Session) dispatch() error {
	_, err := s.router.DispatchAll(s)
	if s.dropped != nil {
		s.dropped.Store(int64(s.queue.Dropped()))
	}
	return err
}

// Start begins wave 1 and generates its map
func (s *Session) Start(now time.Duration, player vmath.Vec3F) error {
	s.now = now
	if err := s.Spawner.Start(now, player); err != nil {
		return err
	}
	return s.dispatch()
}

// Update runs the spawner for one tick and returns the spawn due now, if any
func (s *Session) Update(now time.Duration, player vmath.Vec3F) (wave.SpawnRequest, bool, error) {
	s.now = now
	req, ok, err := s.Spawner.Update(now, player)
	if err != nil {
		return wave.SpawnRequest{}, false, err
	}
	if ok {
		s.push(events.EventEnemySpawnRequest, &events.SpawnPayload{Request: req})
	}
	return req, ok, s.dispatch()
}

// EnemyKilled scores a kill and advances the wave when it was the last enemy
func (s *Session) EnemyKilled(now time.Duration) (events.KillPayload, error) {
	s.now = now
	kill := &events.KillPayload{
		Wave:   s.Spawner.Number(),
		Points: s.Score.EnemyKilled(now),
		Streak: s.Score.Streak(),
	}
	// Pushed before the spawner so listeners see the kill ahead of the level change
	s.push(events.EventEnemyKilled, kill)

	cleared, err := s.Spawner.EnemyKilled()
	if err != nil {
		return *kill, err
	}
	kill.Cleared = cleared
	if cleared && s.Spawner.Finished() {
		log.Printf("Campaign cleared with score %d", s.Score.Score())
		s.push(events.EventCampaignCleared, nil)
	}
	return *kill, s.dispatch()
}

// PlayerDied ends spawning and scoring for this session
func (s *Session) PlayerDied(now time.Duration) error {
	s.now = now
	s.Spawner.PlayerDied()
	s.Score.PlayerDied()
	log.Printf("Player died in wave %d with score %d", s.Spawner.Number(), s.Score.Score())
	s.push(events.EventPlayerDied, nil)
	return s.dispatch()
}
