package events

import "time"

// EventType represents the type of game event
type EventType int

const (
	// EventWaveStarted signals a new wave, its freshly generated map and the
	// player reset position on it
	// Trigger: Spawner new wave | Payload: *WavePayload
	EventWaveStarted EventType = iota

	// EventLevelComplete signals a cleared wave
	// Trigger: last enemy of a finite wave killed | Payload: *WavePayload
	EventLevelComplete

	// EventEnemySpawnRequest asks the host to flash a tile and spawn an enemy
	// Trigger: Spawner update | Payload: *SpawnPayload
	EventEnemySpawnRequest

	// EventEnemyKilled signals an enemy death
	// Consumer: game sound and metrics handlers | Payload: *KillPayload
	EventEnemyKilled

	// EventPlayerDied stops spawning and scoring
	// Payload: nil
	EventPlayerDied

	// EventCampaignCleared signals that the last finite wave was cleared
	// Payload: nil
	EventCampaignCleared
)

var typeNames = map[EventType]string{
	EventWaveStarted:       "WaveStarted",
	EventLevelComplete:     "LevelComplete",
	EventEnemySpawnRequest: "EnemySpawnRequest",
	EventEnemyKilled:       "EnemyKilled",
	EventPlayerDied:        "PlayerDied",
	EventCampaignCleared:   "CampaignCleared",
}

func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// GameEvent represents a single game event with metadata
type GameEvent struct {
	Type    EventType
	Payload any
	// Time is the game clock reading when the event was pushed
	Time time.Duration
}
