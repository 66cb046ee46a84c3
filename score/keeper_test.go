package score

import (
	"testing"
	"time"
)

func TestKeeper_Streaks(t *testing.T) {
	k := NewKeeper(time.Second)

	steps := []struct {
		at         time.Duration
		wantPoints int
		wantStreak int
	}{
		{0, 6, 0},                       // first kill: 5 + 2^0
		{500 * time.Millisecond, 7, 1},  // within expiry
		{1200 * time.Millisecond, 9, 2}, // within expiry of previous
		{3 * time.Second, 6, 0},         // expired
		{3*time.Second + 999*time.Millisecond, 7, 1},
		{5 * time.Second, 6, 0}, // exactly at expiry does not extend
	}

	total := 0
	for i, s := range steps {
		got := k.EnemyKilled(s.at)
		total += s.wantPoints
		if got != s.wantPoints {
			t.Errorf("step %d: points %d, want %d", i, got, s.wantPoints)
		}
		if k.Streak() != s.wantStreak {
			t.Errorf("step %d: streak %d, want %d", i, k.Streak(), s.wantStreak)
		}
	}
	if k.Score() != total {
		t.Errorf("Score %d, want %d", k.Score(), total)
	}
}

func TestKeeper_DeathDetaches(t *testing.T) {
	k := NewKeeper(time.Second)
	k.EnemyKilled(0)
	k.PlayerDied()
	if got := k.EnemyKilled(100 * time.Millisecond); got != 0 {
		t.Errorf("Expected no points after death, got %d", got)
	}
	if k.Score() != 6 {
		t.Errorf("Score changed after death: %d", k.Score())
	}

	k.Reset()
	if k.Score() != 0 || k.Streak() != 0 {
		t.Error("Reset did not clear state")
	}
	if got := k.EnemyKilled(0); got != 6 {
		t.Errorf("Expected scoring to resume after reset, got %d", got)
	}
	if k.StreakExpiry != time.Second {
		t.Error("Reset dropped the streak expiry")
	}
}

func TestKeeper_StreakBonusBounded(t *testing.T) {
	k := NewKeeper(time.Hour)
	var last int
	for i := 0; i < 100; i++ {
		last = k.EnemyKilled(time.Duration(i) * time.Millisecond)
	}
	if want := BasePoints + 1<<maxStreakShift; last != want {
		t.Errorf("Bonus at long streak = %d, want %d", last, want)
	}
}
