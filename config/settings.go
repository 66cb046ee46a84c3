package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lixenwraith/arx-infinitum/audio"
	"gopkg.in/yaml.v3"
)

// Settings are per-player preferences persisted between runs
type Settings struct {
	Audio audio.Volumes `yaml:"audio"`
}

func DefaultSettings() Settings {
	return Settings{Audio: audio.DefaultVolumes()}
}

// LoadSettings reads path; a missing file yields defaults
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.applyEnv(os.LookupEnv)
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		s = DefaultSettings()
		s.applyEnv(os.LookupEnv)
		return s, fmt.Errorf("decode settings %s: %w", path, err)
	}
	s.Audio = s.Audio.Clamped()
	s.applyEnv(os.LookupEnv)
	return s, nil
}

// SaveSettings writes s, creating the parent directory
func SaveSettings(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// applyEnv reads the master volume as 0-100
func (s *Settings) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvMasterVolume); ok {
		if pct, err := strconv.Atoi(v); err == nil {
			s.Audio = s.Audio.With(audio.ChannelMaster, float64(pct)/100)
		}
	}
}
