package wave

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/arx-infinitum/mapgen"
	"github.com/lixenwraith/arx-infinitum/vmath"
)

func testWaves() []Wave {
	return []Wave{
		{EnemyCount: 2, TimeBetweenSpawns: time.Second, MoveSpeed: 3, HitsToKillPlayer: 1, EnemyHealth: 1},
		{EnemyCount: 1, TimeBetweenSpawns: 500 * time.Millisecond, MoveSpeed: 4, HitsToKillPlayer: 2, EnemyHealth: 2},
	}
}

// newTestSpawner wires a spawner to a generator that builds a fresh 7x7 map per wave
func newTestSpawner(t *testing.T, waves []Wave) (*Spawner, *mapgen.Generator) {
	t.Helper()
	gen, err := mapgen.NewGenerator(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSpawner(waves, gen, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	s.OnNewWave(func(n int) error {
		_, err := gen.Generate(mapgen.Spec{Width: 7, Height: 7, ObstacleDensity: 0.2, Seed: int64(n)})
		return err
	})
	return s, gen
}

func TestNewSpawner_Validation(t *testing.T) {
	if _, err := NewSpawner(nil, nil, DefaultOptions()); err == nil {
		t.Error("Expected error for no waves")
	}
	bad := []Wave{{EnemyCount: 1, TimeBetweenSpawns: 0}}
	if _, err := NewSpawner(bad, nil, DefaultOptions()); err == nil {
		t.Error("Expected error for zero spawn interval")
	}
	empty := []Wave{{EnemyCount: 0, TimeBetweenSpawns: time.Second}}
	if _, err := NewSpawner(empty, nil, DefaultOptions()); err == nil {
		t.Error("Expected error for finite wave without enemies")
	}
	infinite := []Wave{{Infinite: true, TimeBetweenSpawns: time.Second}}
	if _, err := NewSpawner(infinite, nil, DefaultOptions()); err != nil {
		t.Errorf("Infinite wave rejected: %v", err)
	}
}

func TestSpawner_NotStarted(t *testing.T) {
	s, _ := newTestSpawner(t, testWaves())
	if _, _, err := s.Update(time.Second, vmath.Vec3F{}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Update: expected ErrNotStarted, got %v", err)
	}
	if _, err := s.EnemyKilled(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("EnemyKilled: expected ErrNotStarted, got %v", err)
	}
}

func TestSpawner_StartGeneratesMap(t *testing.T) {
	s, gen := newTestSpawner(t, testWaves())
	var started []int
	s.OnNewWave(func(n int) error {
		started = append(started, n)
		return nil
	})

	if err := s.Start(0, vmath.Vec3F{}); err != nil {
		t.Fatal(err)
	}
	if gen.Current() == nil {
		t.Fatal("Expected wave 1 to generate a map")
	}
	if s.Number() != 1 || len(started) != 1 || started[0] != 1 {
		t.Errorf("Expected wave 1 announced, got number=%d listeners=%v", s.Number(), started)
	}
	if s.RemainingToSpawn() != 2 || s.RemainingAlive() != 2 {
		t.Errorf("Expected 2 to spawn and 2 alive, got %d/%d", s.RemainingToSpawn(), s.RemainingAlive())
	}
}

func TestSpawner_PacesSpawns(t *testing.T) {
	s, gen := newTestSpawner(t, testWaves())
	if err := s.Start(0, vmath.Vec3F{}); err != nil {
		t.Fatal(err)
	}

	// Move every tick so the camping check never fires
	player := func(now time.Duration) vmath.Vec3F {
		return vmath.Vec3F{X: float64(now/time.Second) * 2}
	}

	var spawned []SpawnRequest
	for now := 100 * time.Millisecond; now <= 5*time.Second; now += 100 * time.Millisecond {
		req, ok, err := s.Update(now, player(now))
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			spawned = append(spawned, req)
		}
	}

	if len(spawned) != 2 {
		t.Fatalf("Expected exactly 2 spawns for wave 1, got %d", len(spawned))
	}
	if spawned[0].Coord == spawned[1].Coord {
		t.Error("Expected consecutive spawns on different open tiles")
	}
	m := gen.Current()
	for _, req := range spawned {
		if m.IsObstacle(req.Coord) {
			t.Errorf("Spawned on obstacle %v", req.Coord)
		}
		if req.Wave != 1 || req.Stats.MoveSpeed != 3 || req.FlashDelay != time.Second {
			t.Errorf("Unexpected request %+v", req)
		}
		if req.Position.Y != 1 {
			t.Errorf("Expected spawn lifted by 1, got %f", req.Position.Y)
		}
	}
}

func TestSpawner_CampingTargetsPlayerTile(t *testing.T) {
	s, gen := newTestSpawner(t, testWaves())
	player := vmath.Vec3F{X: 1, Z: -2}
	if err := s.Start(0, player); err != nil {
		t.Fatal(err)
	}

	// Past the first camp check without moving
	req, ok, err := s.Update(2500*time.Millisecond, player)
	if err != nil || !ok {
		t.Fatalf("Expected spawn, ok=%v err=%v", ok, err)
	}
	if !s.Camping() || !req.Camping {
		t.Fatal("Expected player to be flagged as camping")
	}
	layout, _ := gen.Layout()
	if want := layout.PositionToCoordinate(player); req.Coord != want {
		t.Errorf("Camping spawn at %v, want player tile %v", req.Coord, want)
	}
}

func TestSpawner_KillsAdvanceWaves(t *testing.T) {
	s, gen := newTestSpawner(t, testWaves())
	var completed []int
	s.OnLevelComplete(func(n int) error {
		completed = append(completed, n)
		return nil
	})
	if err := s.Start(0, vmath.Vec3F{}); err != nil {
		t.Fatal(err)
	}
	first := gen.Current()

	if cleared, err := s.EnemyKilled(); err != nil || cleared {
		t.Fatalf("First kill: cleared=%v err=%v", cleared, err)
	}
	cleared, err := s.EnemyKilled()
	if err != nil || !cleared {
		t.Fatalf("Second kill: cleared=%v err=%v", cleared, err)
	}
	if s.Number() != 2 || gen.Current() == first {
		t.Errorf("Expected wave 2 with a new map, got wave %d", s.Number())
	}
	if len(completed) != 1 || completed[0] != 1 {
		t.Errorf("Expected level 1 complete, got %v", completed)
	}

	// Clearing the last wave finishes the run
	if cleared, err := s.EnemyKilled(); err != nil || !cleared {
		t.Fatalf("Last kill: cleared=%v err=%v", cleared, err)
	}
	if !s.Finished() {
		t.Error("Expected spawner to be finished after last wave")
	}
	if _, ok, _ := s.Update(10*time.Second, vmath.Vec3F{}); ok {
		t.Error("Finished spawner still spawning")
	}
	if len(completed) != 2 {
		t.Errorf("Expected 2 level completions, got %v", completed)
	}
}

func TestSpawner_PlayerDeathStopsSpawning(t *testing.T) {
	s, _ := newTestSpawner(t, testWaves())
	s.Start(0, vmath.Vec3F{})
	s.PlayerDied()
	if _, ok, err := s.Update(3*time.Second, vmath.Vec3F{X: 4}); ok || err != nil {
		t.Errorf("Expected no spawn after death, ok=%v err=%v", ok, err)
	}
	if !s.Disabled() {
		t.Error("Expected disabled spawner")
	}
}

func TestSpawner_InfiniteWave(t *testing.T) {
	waves := []Wave{{Infinite: true, TimeBetweenSpawns: 900 * time.Millisecond}}
	s, _ := newTestSpawner(t, waves)
	s.Start(0, vmath.Vec3F{})

	count := 0
	for now := time.Second / 2; now < 20*time.Second; now += time.Second {
		if _, ok, err := s.Update(now, vmath.Vec3F{X: float64(now)}); err != nil {
			t.Fatal(err)
		} else if ok {
			count++
		}
	}
	if count != 20 {
		t.Errorf("Expected a spawn every tick for an infinite wave, got %d", count)
	}
}

func TestSpawner_SkipAndReset(t *testing.T) {
	s, _ := newTestSpawner(t, testWaves())
	s.Start(0, vmath.Vec3F{})
	if err := s.Skip(); err != nil {
		t.Fatal(err)
	}
	if s.Number() != 2 {
		t.Errorf("Expected wave 2 after skip, got %d", s.Number())
	}

	pos, err := s.PlayerResetPosition()
	if err != nil {
		t.Fatal(err)
	}
	if pos != (vmath.Vec3F{X: 0, Y: 3, Z: 0}) {
		t.Errorf("Reset position = %+v, want centre tile lifted by 3", pos)
	}
}

func TestSpawner_ListenerErrorPropagates(t *testing.T) {
	s, err := NewSpawner(testWaves(), nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	s.OnNewWave(func(int) error { return boom })
	if err := s.Start(0, vmath.Vec3F{}); !errors.Is(err, boom) {
		t.Errorf("Expected listener error, got %v", err)
	}
}
