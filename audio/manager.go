package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// Sound group ids used by gameplay
const (
	SoundLevelComplete = "Level Complete"
	SoundEnemyDeath    = "Enemy Death"
	SoundImpact        = "Impact"
	SoundPlayerDeath   = "Player Death"
)

// MusicTheme is the group looped by PlayTheme during a run
const MusicTheme = "Main Theme"

// Manager mixes sound effects and crossfading music into one stream.
// It never opens a device: the host pulls samples through Stream
type Manager struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	volumes Volumes
	library *Library
	persist func(Volumes) error

	sfx beep.Mixer

	// activeClip is the raw music clip currently fading in or playing;
	// music wraps it with the crossfade from the previous clip
	activeClip beep.Streamer
	music      beep.Streamer
	musicBuf   [][2]float64

	// loop is the group re-queued when music ends; empty for one-shot clips
	loop string
}

// NewManager creates a manager. persist, if non-nil, is called with the new
// volumes after every SetVolume
func NewManager(rate beep.SampleRate, volumes Volumes, library *Library, persist func(Volumes) error) *Manager {
	return &Manager{
		rate:    rate,
		volumes: volumes.Clamped(),
		library: library,
		persist: persist,
	}
}

// SetVolume updates one channel and persists the settings
func (m *Manager) SetVolume(ch Channel, val float64) error {
	m.mu.Lock()
	m.volumes = m.volumes.With(ch, val)
	v := m.volumes
	m.mu.Unlock()

	if m.persist != nil {
		if err := m.persist(v); err != nil {
			return fmt.Errorf("save %s volume: %w", ch, err)
		}
	}
	return nil
}

func (m *Manager) Volumes() Volumes {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volumes
}

// PlaySound2D queues a random clip of group id at the SFX gain.
// Returns false when the group is unknown
func (m *Manager) PlaySound2D(id string) bool {
	clip, ok := m.library.Clip(id)
	if !ok {
		log.Printf("Audio: no clip for %q", id)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfx.Add(newVolume(clip, m.volumes.EffectiveSFX()))
	return true
}

// PlayMusic crossfades from the current clip to clip over fade. clip plays once
func (m *Manager) PlayMusic(clip beep.Streamer, fade time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loop = ""
	m.startMusic(clip, fade)
}

// PlayTheme crossfades to a clip of group id over fade and keeps looping
// the group until other music is played. Returns false when id is unknown
func (m *Manager) PlayTheme(id string, fade time.Duration) bool {
	clip, ok := m.library.Clip(id)
	if !ok {
		log.Printf("Audio: no music for %q", id)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loop = id
	m.startMusic(clip, fade)
	return true
}

// startMusic must be called with mu held
func (m *Manager) startMusic(clip beep.Streamer, fade time.Duration) {
	// gain is read inside Stream, which already holds mu
	gain := func() float64 { return m.volumes.EffectiveMusic() }
	m.music = newCrossfade(m.activeClip, clip, gain, m.rate.N(fade))
	m.activeClip = clip
}

// Stream fills samples with mixed audio; it never drains
func (m *Manager) Stream(samples [][2]float64) (n int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sn, _ := m.sfx.Stream(samples)
	for i := sn; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}

	if cap(m.musicBuf) < len(samples) {
		m.musicBuf = make([][2]float64, len(samples))
	}

	// A looping theme restarts only after its last clip produced samples,
	// so an empty clip cannot spin
	filled, lastRestart := 0, -1
	for filled < len(samples) && m.music != nil {
		buf := m.musicBuf[:len(samples)-filled]
		mn, mok := m.music.Stream(buf)
		for i := 0; i < mn; i++ {
			samples[filled+i][0] += buf[i][0]
			samples[filled+i][1] += buf[i][1]
		}
		filled += mn

		if mok {
			if mn == 0 {
				break
			}
			continue
		}

		m.music, m.activeClip = nil, nil
		if m.loop == "" || filled == lastRestart {
			break
		}
		clip, ok := m.library.Clip(m.loop)
		if !ok {
			break
		}
		m.startMusic(clip, 0)
		lastRestart = filled
	}
	return len(samples), true
}

func (m *Manager) Err() error { return nil }
