package audio

import (
	"math/rand"
	"sync"

	"github.com/gopxl/beep"
)

// Library maps a sound group id to interchangeable clips.
// Asking for a group returns one of its clips at random.
// Safe for concurrent use; mu guards rng and groups
type Library struct {
	mu     sync.Mutex
	rng    *rand.Rand
	groups map[string][]*beep.Buffer
}

func NewLibrary(rng *rand.Rand) *Library {
	return &Library{rng: rng, groups: make(map[string][]*beep.Buffer)}
}

// Register appends clips to group id
func (l *Library) Register(id string, clips ...*beep.Buffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.groups[id] = append(l.groups[id], clips...)
}

// Clip returns a fresh stream over a random clip of group id
func (l *Library) Clip(id string) (beep.StreamSeeker, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	clips := l.groups[id]
	if len(clips) == 0 {
		return nil, false
	}
	buf := clips[l.rng.Intn(len(clips))]
	return buf.Streamer(0, buf.Len()), true
}

func (l *Library) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.groups[id]) > 0
}
