package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// Waveform types
const (
	waveSine = iota
	waveSquare
	waveSaw
	waveNoise
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// oscillator generates raw waveform samples. rng feeds waveNoise only
func oscillator(waveType int, freq float64, rate beep.SampleRate, samples int, rng *rand.Rand) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0
	phaseInc := freq / float64(rate)

	for i := 0; i < samples; i++ {
		switch waveType {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1.0
			} else {
				buf[i] = -1.0
			}
		case waveSaw:
			buf[i] = 2.0 * (phase - 0.5)
		case waveNoise:
			buf[i] = rng.Float64()*2 - 1
		}

		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// applyEnvelope applies a linear attack/release envelope in place
func applyEnvelope(buf floatBuffer, attack, release int) {
	total := len(buf)
	releaseStart := max(total-release, attack)

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attack && attack > 0 {
			vol = float64(i) / float64(attack)
		} else if i >= releaseStart && release > 0 {
			vol = float64(total-i) / float64(release)
		}
		buf[i] *= vol
	}
}

func concatFloatBuffers(a, b floatBuffer) floatBuffer {
	result := make(floatBuffer, len(a)+len(b))
	copy(result, a)
	copy(result[len(a):], b)
	return result
}

// toBuffer scales mono samples by gain into a stereo clip
func toBuffer(buf floatBuffer, rate beep.SampleRate, gain float64) *beep.Buffer {
	clip := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	pos := 0
	clip.Append(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(buf) {
			return 0, false
		}
		n := min(len(samples), len(buf)-pos)
		for i := 0; i < n; i++ {
			v := buf[pos+i] * gain
			samples[i] = [2]float64{v, v}
		}
		pos += n
		return n, true
	}))
	return clip
}

// tone is one enveloped note
func tone(rate beep.SampleRate, rng *rand.Rand, wave int, freq float64, d, attack, release time.Duration) floatBuffer {
	buf := oscillator(wave, freq, rate, rate.N(d), rng)
	applyEnvelope(buf, rate.N(attack), rate.N(release))
	return buf
}

// SynthLibrary builds a library of generated clips for every gameplay sound
// group, for hosts without sample files
func SynthLibrary(rate beep.SampleRate, rng *rand.Rand) *Library {
	lib := NewLibrary(rng)
	ms := time.Millisecond

	// Rising two-note chime
	lib.Register(SoundLevelComplete, toBuffer(concatFloatBuffers(
		tone(rate, rng, waveSine, 659.25, 150*ms, 5*ms, 60*ms),
		tone(rate, rng, waveSine, 987.77, 400*ms, 5*ms, 300*ms),
	), rate, 0.6))

	// Noise bursts of two lengths so repeated kills vary
	lib.Register(SoundEnemyDeath,
		toBuffer(tone(rate, rng, waveNoise, 0, 120*ms, 2*ms, 100*ms), rate, 0.4),
		toBuffer(tone(rate, rng, waveNoise, 0, 180*ms, 2*ms, 150*ms), rate, 0.4),
	)

	lib.Register(SoundImpact, toBuffer(tone(rate, rng, waveSaw, 110, 80*ms, 1*ms, 60*ms), rate, 0.5))

	// Falling square notes
	lib.Register(SoundPlayerDeath, toBuffer(concatFloatBuffers(
		tone(rate, rng, waveSquare, 440, 200*ms, 5*ms, 50*ms),
		tone(rate, rng, waveSquare, 220, 500*ms, 5*ms, 400*ms),
	), rate, 0.3))

	// Eight-note arpeggio looped as the run's theme
	var theme floatBuffer
	for _, f := range []float64{220, 261.63, 329.63, 392, 329.63, 261.63, 196, 246.94} {
		theme = concatFloatBuffers(theme, tone(rate, rng, waveSine, f, 250*ms, 10*ms, 60*ms))
	}
	lib.Register(MusicTheme, toBuffer(theme, rate, 0.3))

	return lib
}
