package game

import (
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/arx-infinitum/events"
	"github.com/lixenwraith/arx-infinitum/vmath"
)

// SimOptions drive a headless run of a session
type SimOptions struct {
	Duration time.Duration
	Step     time.Duration
	// KillDelay is how long each enemy survives after its spawn request
	KillDelay time.Duration
	// Radius of the circle the player walks; Camp keeps it at the reset position instead
	Radius float64
	Camp   bool
	// DieAt kills the player at that time; zero never does
	DieAt time.Duration
	// OnStep, if set, runs after every tick
	OnStep func(now time.Duration) error
}

func DefaultSimOptions() SimOptions {
	return SimOptions{
		Duration:  2 * time.Minute,
		Step:      50 * time.Millisecond,
		KillDelay: 1500 * time.Millisecond,
		Radius:    3,
	}
}

// Report summarises a headless run
type Report struct {
	Elapsed       time.Duration
	WavesStarted  int
	WavesCleared  int
	Spawned       int
	CampingSpawns int
	Killed        int
	Score         int
	Wave          int
	Finished      bool
	Died          bool
}

// reportHandler tallies events into a Report and tracks the point the
// player is dropped at on each new map
type reportHandler struct {
	r      *Report
	origin *vmath.Vec3F
}

func (h *reportHandler) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventWaveStarted,
		events.EventLevelComplete,
		events.EventEnemySpawnRequest,
		events.EventEnemyKilled,
		events.EventCampaignCleared,
		events.EventPlayerDied,
	}
}

func (h *reportHandler) HandleEvent(_ *Session, ev events.GameEvent) error {
	switch ev.Type {
	case events.EventWaveStarted:
		h.r.WavesStarted++
		if p, ok := ev.Payload.(*events.WavePayload); ok {
			*h.origin = p.ResetPosition
		}
	case events.EventLevelComplete:
		h.r.WavesCleared++
	case events.EventEnemySpawnRequest:
		h.r.Spawned++
		if p, ok := ev.Payload.(*events.SpawnPayload); ok && p.Request.Camping {
			h.r.CampingSpawns++
		}
	case events.EventEnemyKilled:
		h.r.Killed++
	case events.EventCampaignCleared:
		h.r.Finished = true
	case events.EventPlayerDied:
		h.r.Died = true
	}
	return nil
}

// playerAt walks the player around origin at one radian per second
func (o SimOptions) playerAt(now time.Duration, origin vmath.Vec3F) vmath.Vec3F {
	if o.Camp {
		return origin
	}
	a := now.Seconds()
	return vmath.V3FAdd(origin, vmath.Vec3F{X: o.Radius * math.Cos(a), Z: o.Radius * math.Sin(a)})
}

// Simulate runs s on a fixed-step clock, killing each enemy KillDelay after
// its spawn, until the campaign is cleared or Duration elapses. The player
// is dropped at each wave's reset position and walks around it
func Simulate(s *Session, opts SimOptions) (Report, error) {
	if opts.Step <= 0 {
		return Report{}, fmt.Errorf("simulation step %v must be positive", opts.Step)
	}

	var report Report
	var origin vmath.Vec3F
	s.Subscribe(&reportHandler{r: &report, origin: &origin})

	if err := s.Start(0, opts.playerAt(0, origin)); err != nil {
		return report, err
	}

	// Constant delay keeps deaths in spawn order
	var deaths []time.Duration
	now := time.Duration(0)
	for now < opts.Duration && !report.Finished {
		now += opts.Step
		player := opts.playerAt(now, origin)

		if opts.DieAt > 0 && now >= opts.DieAt && !report.Died {
			if err := s.PlayerDied(now); err != nil {
				return report, err
			}
			deaths = nil
		}

		_, ok, err := s.Update(now, player)
		if err != nil {
			return report, err
		}
		if ok {
			deaths = append(deaths, now+opts.KillDelay)
		}

		for len(deaths) > 0 && deaths[0] <= now {
			deaths = deaths[1:]
			if _, err := s.EnemyKilled(now); err != nil {
				return report, err
			}
		}

		if opts.OnStep != nil {
			if err := opts.OnStep(now); err != nil {
				return report, fmt.Errorf("step %v: %w", now, err)
			}
		}
	}

	report.Elapsed = now
	report.Score = s.Score.Score()
	report.Wave = s.Spawner.Number()
	return report, nil
}
