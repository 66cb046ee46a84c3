package events

import (
	"github.com/lixenwraith/arx-infinitum/mapgen"
	"github.com/lixenwraith/arx-infinitum/vmath"
	"github.com/lixenwraith/arx-infinitum/wave"
)

// WavePayload identifies a wave and the map it is played on
type WavePayload struct {
	Number int
	Map    *mapgen.Map
	// ResetPosition is where the host drops the player onto a new wave's map.
	// Zero on LevelComplete
	ResetPosition vmath.Vec3F
}

// SpawnPayload carries one scheduled spawn
type SpawnPayload struct {
	Request wave.SpawnRequest
}

// KillPayload reports the outcome of one enemy death
type KillPayload struct {
	Wave    int
	Points  int
	Streak  int
	Cleared bool
}
