package audio

import "fmt"

// Channel selects one of the volume sliders
type Channel int

const (
	ChannelMaster Channel = iota
	ChannelSFX
	ChannelMusic
)

func (c Channel) String() string {
	switch c {
	case ChannelMaster:
		return "master"
	case ChannelSFX:
		return "sfx"
	case ChannelMusic:
		return "music"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// ParseChannel accepts the names returned by Channel.String
func ParseChannel(s string) (Channel, error) {
	for _, c := range []Channel{ChannelMaster, ChannelSFX, ChannelMusic} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown audio channel %q", s)
}

// Volumes holds the three slider values, each in [0, 1]
type Volumes struct {
	Master float64 `yaml:"master"`
	SFX    float64 `yaml:"sfx"`
	Music  float64 `yaml:"music"`
}

// DefaultVolumes matches first-run settings
func DefaultVolumes() Volumes {
	return Volumes{Master: 0.2, SFX: 1, Music: 1}
}

// Get returns the slider value for ch
func (v Volumes) Get(ch Channel) float64 {
	switch ch {
	case ChannelSFX:
		return v.SFX
	case ChannelMusic:
		return v.Music
	default:
		return v.Master
	}
}

// With returns a copy with ch set to val, clamped to [0, 1]
func (v Volumes) With(ch Channel, val float64) Volumes {
	val = clampVolume(val)
	switch ch {
	case ChannelSFX:
		v.SFX = val
	case ChannelMusic:
		v.Music = val
	default:
		v.Master = val
	}
	return v
}

// Clamped returns v with every slider clamped to [0, 1]
func (v Volumes) Clamped() Volumes {
	return Volumes{Master: clampVolume(v.Master), SFX: clampVolume(v.SFX), Music: clampVolume(v.Music)}
}

// EffectiveSFX is the gain applied to sound effects
func (v Volumes) EffectiveSFX() float64 { return v.SFX * v.Master }

// EffectiveMusic is the gain applied to music at full fade
func (v Volumes) EffectiveMusic() float64 { return v.Music * v.Master }

func clampVolume(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
