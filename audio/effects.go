package audio

import (
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// newVolume scales s by a linear gain; log2(0) is -Inf so zero goes silent
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain), Silent: false}
}

// crossfade ramps `to` from 0 to gain and `from` from gain to 0 over length
// samples, then keeps streaming `to` at gain
type crossfade struct {
	from, to beep.Streamer
	gain     func() float64
	pos      int
	length   int
	buf      [][2]float64
}

// Crossfade returns a stream that fades from→to over length samples at a fixed
// target gain. from may be nil for a fade-in. The stream ends when `to` ends
func Crossfade(from, to beep.Streamer, gain float64, length int) beep.Streamer {
	return newCrossfade(from, to, func() float64 { return gain }, length)
}

func newCrossfade(from, to beep.Streamer, gain func() float64, length int) *crossfade {
	return &crossfade{from: from, to: to, gain: gain, length: length}
}

func (c *crossfade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = c.to.Stream(samples)

	var out [][2]float64
	if c.from != nil && c.pos < c.length && n > 0 {
		if cap(c.buf) < n {
			c.buf = make([][2]float64, n)
		}
		out = c.buf[:n]
		fn, fok := c.from.Stream(out)
		for i := fn; i < n; i++ {
			out[i] = [2]float64{}
		}
		if !fok {
			c.from = nil
		}
	}

	gain := c.gain()
	for i := 0; i < n; i++ {
		p := 1.0
		if c.pos < c.length {
			p = float64(c.pos) / float64(c.length)
		}
		samples[i][0] *= gain * p
		samples[i][1] *= gain * p
		if out != nil {
			samples[i][0] += out[i][0] * gain * (1 - p)
			samples[i][1] += out[i][1] * gain * (1 - p)
		}
		c.pos++
	}

	if c.pos >= c.length {
		c.from = nil
	}
	return n, ok
}

func (c *crossfade) Err() error { return c.to.Err() }
