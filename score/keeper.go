// Package score awards points for kills with a streak bonus
package score

import "time"

const (
	// BasePoints is awarded for every kill
	BasePoints = 5
	// maxStreakShift bounds the 2^streak bonus
	maxStreakShift = 30
)

// Keeper tracks score and kill streak. A kill within StreakExpiry of the
// previous one extends the streak; otherwise the streak restarts at zero
type Keeper struct {
	StreakExpiry time.Duration

	score    int
	streak   int
	lastKill time.Duration
	hasKill  bool
	detached bool
}

func NewKeeper(streakExpiry time.Duration) *Keeper {
	return &Keeper{StreakExpiry: streakExpiry}
}

// EnemyKilled records a kill at now and returns the points awarded
func (k *Keeper) EnemyKilled(now time.Duration) int {
	if k.detached {
		return 0
	}
	if k.hasKill && now < k.lastKill+k.StreakExpiry {
		k.streak++
	} else {
		k.streak = 0
	}
	k.lastKill = now
	k.hasKill = true

	points := BasePoints + 1<<min(k.streak, maxStreakShift)
	k.score += points
	return points
}

// PlayerDied stops scoring until Reset
func (k *Keeper) PlayerDied() {
	k.detached = true
}

// Reset clears score and streak for a new run
func (k *Keeper) Reset() {
	*k = Keeper{StreakExpiry: k.StreakExpiry}
}

func (k *Keeper) Score() int  { return k.score }
func (k *Keeper) Streak() int { return k.streak }
