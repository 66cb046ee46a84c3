package audio

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

const eps = 1e-9

// constant streams n stereo samples of value v
func constant(v float64, n int) beep.Streamer {
	return beep.Take(n, beep.StreamerFunc(func(s [][2]float64) (int, bool) {
		for i := range s {
			s[i] = [2]float64{v, v}
		}
		return len(s), true
	}))
}

func drain(s beep.Streamer, chunk int) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, chunk)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
}

func testBuffer(v float64, n int) *beep.Buffer {
	buf := beep.NewBuffer(beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2})
	buf.Append(constant(v, n))
	return buf
}

func TestVolumes_WithClamps(t *testing.T) {
	v := DefaultVolumes()
	if v.Master != 0.2 || v.SFX != 1 || v.Music != 1 {
		t.Fatalf("Unexpected defaults %+v", v)
	}
	v = v.With(ChannelMusic, 1.7).With(ChannelSFX, -2).With(ChannelMaster, 0.5)
	if v.Music != 1 || v.SFX != 0 || v.Master != 0.5 {
		t.Errorf("Clamping failed: %+v", v)
	}
	if got := v.EffectiveMusic(); got != 0.5 {
		t.Errorf("EffectiveMusic = %f, want 0.5", got)
	}
	if got := v.EffectiveSFX(); got != 0 {
		t.Errorf("EffectiveSFX = %f, want 0", got)
	}
	if got := v.Get(ChannelMaster); got != 0.5 {
		t.Errorf("Get(master) = %f", got)
	}
	if nan := (Volumes{Master: math.NaN()}).Clamped(); nan.Master != 0 {
		t.Errorf("NaN volume clamped to %f, want 0", nan.Master)
	}
}

func TestParseChannel(t *testing.T) {
	for _, c := range []Channel{ChannelMaster, ChannelSFX, ChannelMusic} {
		got, err := ParseChannel(c.String())
		if err != nil || got != c {
			t.Errorf("ParseChannel(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseChannel("voice"); err == nil {
		t.Error("Expected error for unknown channel")
	}
}

func TestCrossfade_FadeIn(t *testing.T) {
	out := drain(Crossfade(nil, constant(1, 200), 0.5, 100), 64)
	if len(out) != 200 {
		t.Fatalf("Expected 200 samples, got %d", len(out))
	}
	for i, s := range out {
		want := 0.5
		if i < 100 {
			want = 0.5 * float64(i) / 100
		}
		if math.Abs(s[0]-want) > eps || math.Abs(s[1]-want) > eps {
			t.Fatalf("sample %d = %v, want %f", i, s, want)
		}
	}
}

func TestCrossfade_ConstantPower(t *testing.T) {
	out := drain(Crossfade(constant(1, 500), constant(1, 300), 0.8, 250), 37)
	if len(out) != 300 {
		t.Fatalf("Expected stream to end with incoming clip at 300, got %d", len(out))
	}
	for i, s := range out {
		if math.Abs(s[0]-0.8) > eps {
			t.Fatalf("sample %d = %f, want 0.8", i, s[0])
		}
	}
}

func TestCrossfade_OutgoingEndsEarly(t *testing.T) {
	out := drain(Crossfade(constant(1, 10), constant(0, 100), 1, 50), 16)
	for i, s := range out {
		want := 0.0
		if i < 10 {
			want = 1 - float64(i)/50
		}
		if math.Abs(s[0]-want) > eps {
			t.Fatalf("sample %d = %f, want %f", i, s[0], want)
		}
	}
}

func TestCrossfade_ZeroLength(t *testing.T) {
	out := drain(Crossfade(constant(1, 50), constant(0.5, 50), 1, 0), 50)
	for i, s := range out {
		if s[0] != 0.5 {
			t.Fatalf("sample %d = %f, want immediate switch to 0.5", i, s[0])
		}
	}
}

func TestLibrary_Clip(t *testing.T) {
	lib := NewLibrary(rand.New(rand.NewSource(1)))
	if _, ok := lib.Clip("Impact"); ok {
		t.Error("Expected unknown group to miss")
	}

	lib.Register(SoundImpact, testBuffer(1, 10), testBuffer(1, 20))
	if !lib.Has(SoundImpact) {
		t.Fatal("Expected registered group")
	}
	lengths := make(map[int]bool)
	for i := 0; i < 50; i++ {
		clip, ok := lib.Clip(SoundImpact)
		if !ok {
			t.Fatal("Expected clip")
		}
		lengths[clip.Len()] = true
	}
	if !lengths[10] || !lengths[20] || len(lengths) != 2 {
		t.Errorf("Expected both clips to be chosen, got lengths %v", lengths)
	}
}

func newTestManager(persist func(Volumes) error) *Manager {
	lib := NewLibrary(rand.New(rand.NewSource(1)))
	lib.Register(SoundLevelComplete, testBuffer(1, 100))
	return NewManager(beep.SampleRate(1000), DefaultVolumes(), lib, persist)
}

func TestManager_SilentWhenIdle(t *testing.T) {
	m := newTestManager(nil)
	samples := make([][2]float64, 32)
	for i := range samples {
		samples[i] = [2]float64{9, 9}
	}
	n, ok := m.Stream(samples)
	if n != 32 || !ok {
		t.Fatalf("Stream = %d,%v", n, ok)
	}
	for i, s := range samples {
		if s != ([2]float64{}) {
			t.Fatalf("sample %d = %v, want silence", i, s)
		}
	}
}

func TestManager_PlaySound2D(t *testing.T) {
	m := newTestManager(nil)
	if m.PlaySound2D("Nope") {
		t.Error("Expected unknown sound to fail")
	}
	if !m.PlaySound2D(SoundLevelComplete) {
		t.Fatal("Expected level complete sound to play")
	}

	samples := make([][2]float64, 150)
	m.Stream(samples)
	for i := 0; i < 100; i++ {
		if math.Abs(samples[i][0]-0.2) > 1e-3 {
			t.Fatalf("sample %d = %f, want master*sfx = 0.2", i, samples[i][0])
		}
	}
	for i := 100; i < 150; i++ {
		if samples[i][0] != 0 {
			t.Fatalf("sample %d = %f, want silence after clip", i, samples[i][0])
		}
	}
}

func TestManager_MusicCrossfade(t *testing.T) {
	m := newTestManager(nil)
	m.PlayMusic(constant(1, 1000), 0)

	samples := make([][2]float64, 10)
	m.Stream(samples)
	if math.Abs(samples[0][0]-0.2) > eps {
		t.Fatalf("Music at %f, want 0.2", samples[0][0])
	}

	// 100ms at 1kHz = 100 samples of fade to the new theme
	m.PlayMusic(constant(1, 1000), 100*time.Millisecond)
	samples = make([][2]float64, 200)
	m.Stream(samples)
	for i, s := range samples {
		if math.Abs(s[0]-0.2) > eps {
			t.Fatalf("sample %d = %f, want constant 0.2 across crossfade", i, s[0])
		}
	}

	// Volume changes apply to music already playing
	if err := m.SetVolume(ChannelMaster, 1); err != nil {
		t.Fatal(err)
	}
	m.Stream(samples)
	if math.Abs(samples[0][0]-1) > eps {
		t.Errorf("Music at %f after master change, want 1", samples[0][0])
	}
}

func TestManager_MusicEnds(t *testing.T) {
	m := newTestManager(nil)
	m.PlayMusic(constant(1, 5), 0)
	samples := make([][2]float64, 20)
	m.Stream(samples)
	m.Stream(samples)
	for i, s := range samples {
		if s[0] != 0 {
			t.Fatalf("sample %d = %f, want silence after music ended", i, s[0])
		}
	}
}

func TestManager_SetVolumePersists(t *testing.T) {
	var saved []Volumes
	m := newTestManager(func(v Volumes) error {
		saved = append(saved, v)
		return nil
	})
	if err := m.SetVolume(ChannelSFX, 0.4); err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 || saved[0].SFX != 0.4 {
		t.Errorf("Expected persisted sfx 0.4, got %+v", saved)
	}
	if m.Volumes().SFX != 0.4 {
		t.Errorf("Volumes().SFX = %f", m.Volumes().SFX)
	}

	boom := errors.New("disk full")
	m = newTestManager(func(Volumes) error { return boom })
	if err := m.SetVolume(ChannelMusic, 0.1); !errors.Is(err, boom) {
		t.Errorf("Expected persist error, got %v", err)
	}
}

func TestManager_ConcurrentPlaySound2D(t *testing.T) {
	lib := NewLibrary(rand.New(rand.NewSource(1)))
	lib.Register(SoundEnemyDeath, testBuffer(1, 10), testBuffer(1, 20), testBuffer(1, 30))
	m := NewManager(beep.SampleRate(1000), DefaultVolumes(), lib, nil)

	const goroutines = 8
	const plays = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < plays; i++ {
				if !m.PlaySound2D(SoundEnemyDeath) {
					t.Error("Expected enemy death clip")
					return
				}
			}
		}()
	}

	// Pull samples while sounds are queued, like an output device would
	wg.Add(1)
	go func() {
		defer wg.Done()
		samples := make([][2]float64, 16)
		for i := 0; i < 100; i++ {
			m.Stream(samples)
		}
	}()
	wg.Wait()
}

func TestManager_PlayThemeLoops(t *testing.T) {
	lib := NewLibrary(rand.New(rand.NewSource(1)))
	lib.Register(MusicTheme, testBuffer(1, 30))
	m := NewManager(beep.SampleRate(1000), DefaultVolumes(), lib, nil)

	if m.PlayTheme("Nope", 0) {
		t.Error("Expected unknown theme to fail")
	}
	if !m.PlayTheme(MusicTheme, 0) {
		t.Fatal("Expected theme to play")
	}

	// 30-sample clip restarts without gaps, within and across calls
	samples := make([][2]float64, 100)
	for call := 0; call < 3; call++ {
		m.Stream(samples)
		for i, s := range samples {
			if math.Abs(s[0]-0.2) > 1e-3 {
				t.Fatalf("call %d sample %d = %f, want looping theme at 0.2", call, i, s[0])
			}
		}
	}

	// One-shot music replaces the loop
	m.PlayMusic(constant(1, 5), 0)
	short := make([][2]float64, 20)
	m.Stream(short)
	m.Stream(short)
	for i, s := range short {
		if s[0] != 0 {
			t.Fatalf("sample %d = %f, want silence after one-shot music", i, s[0])
		}
	}
}

func TestManager_PlayThemeEmptyClip(t *testing.T) {
	lib := NewLibrary(rand.New(rand.NewSource(1)))
	lib.Register(MusicTheme, testBuffer(1, 0))
	m := NewManager(beep.SampleRate(1000), DefaultVolumes(), lib, nil)

	m.PlayTheme(MusicTheme, 0)
	samples := make([][2]float64, 10)
	if n, ok := m.Stream(samples); n != 10 || !ok {
		t.Errorf("Stream = %d,%v", n, ok)
	}
}
