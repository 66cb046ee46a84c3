package game

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/arx-infinitum/audio"
	"github.com/lixenwraith/arx-infinitum/events"
	"github.com/lixenwraith/arx-infinitum/status"
)

// Metric keys written by the session
const (
	MetricWavesStarted  = "game.waves.started"
	MetricWavesCleared  = "game.waves.cleared"
	MetricSpawned       = "game.enemies.spawned"
	MetricCampingSpawns = "game.enemies.camping_spawns"
	MetricKilled        = "game.enemies.killed"
	MetricScore         = "game.score"
	MetricDeaths        = "game.player.deaths"
	MetricEventsDropped = "game.events.dropped"
	MetricWaveSeconds   = "game.waves.seconds" // game time from wave start to clear, summed
)

type soundHandler struct {
	sound Sound
}

func (h *soundHandler) EventTypes() []events.EventType {
	return []events.EventType{events.EventEnemyKilled, events.EventLevelComplete, events.EventPlayerDied}
}

func (h *soundHandler) HandleEvent(_ *Session, ev events.GameEvent) error {
	switch ev.Type {
	case events.EventEnemyKilled:
		h.sound.PlaySound2D(audio.SoundEnemyDeath)
	case events.EventLevelComplete:
		h.sound.PlaySound2D(audio.SoundLevelComplete)
	case events.EventPlayerDied:
		h.sound.PlaySound2D(audio.SoundPlayerDeath)
	}
	return nil
}

// musicHandler fades the theme in when the run starts
type musicHandler struct {
	music Music
}

func (h *musicHandler) EventTypes() []events.EventType {
	return []events.EventType{events.EventWaveStarted}
}

func (h *musicHandler) HandleEvent(_ *Session, ev events.GameEvent) error {
	if p, ok := ev.Payload.(*events.WavePayload); ok && p.Number == 1 {
		h.music.PlayTheme(audio.MusicTheme, ThemeFade)
	}
	return nil
}

// metricsHandler caches counter pointers at construction
type metricsHandler struct {
	wavesStarted  *atomic.Int64
	wavesCleared  *atomic.Int64
	spawned       *atomic.Int64
	campingSpawns *atomic.Int64
	killed        *atomic.Int64
	score         *atomic.Int64
	deaths        *atomic.Int64
	waveSeconds   *status.AtomicFloat

	waveStart time.Duration
}

func newMetricsHandler(reg *status.Registry) *metricsHandler {
	return &metricsHandler{
		wavesStarted:  reg.Ints.Get(MetricWavesStarted),
		wavesCleared:  reg.Ints.Get(MetricWavesCleared),
		spawned:       reg.Ints.Get(MetricSpawned),
		campingSpawns: reg.Ints.Get(MetricCampingSpawns),
		killed:        reg.Ints.Get(MetricKilled),
		score:         reg.Ints.Get(MetricScore),
		deaths:        reg.Ints.Get(MetricDeaths),
		waveSeconds:   reg.Floats.Get(MetricWaveSeconds),
	}
}

func (h *metricsHandler) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventWaveStarted,
		events.EventLevelComplete,
		events.EventEnemySpawnRequest,
		events.EventEnemyKilled,
		events.EventPlayerDied,
	}
}

func (h *metricsHandler) HandleEvent(s *Session, ev events.GameEvent) error {
	switch ev.Type {
	case events.EventWaveStarted:
		h.wavesStarted.Add(1)
		h.waveStart = ev.Time
	case events.EventLevelComplete:
		h.wavesCleared.Add(1)
		h.waveSeconds.Add((ev.Time - h.waveStart).Seconds())
	case events.EventEnemySpawnRequest:
		h.spawned.Add(1)
		if p, ok := ev.Payload.(*events.SpawnPayload); ok && p.Request.Camping {
			h.campingSpawns.Add(1)
		}
	case events.EventEnemyKilled:
		h.killed.Add(1)
		h.score.Store(int64(s.Score.Score()))
	case events.EventPlayerDied:
		h.deaths.Add(1)
	}
	return nil
}
