// ABOUTME: Engine configuration loading
// ABOUTME: Viper-backed config file and environment handling with defaults
// Package config loads engine configuration for the chime CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/Chime-Audio/chime-go/pkg/chime"
	"github.com/spf13/viper"
)

// Config mirrors chime.Options in file-loadable form.
type Config struct {
	Backend               string  `mapstructure:"backend"`
	DeviceName            string  `mapstructure:"device_name"`
	Threaded              bool    `mapstructure:"threaded"`
	UpdateTime            float64 `mapstructure:"update_time"`
	SuspendResumeFadeTime float64 `mapstructure:"suspend_resume_fade_time"`
	IdleUnloadTime        float64 `mapstructure:"idle_unload_time"`
	SampleRate            int     `mapstructure:"sample_rate"`
	Channels              int     `mapstructure:"channels"`
	BitsPerSample         int     `mapstructure:"bits_per_sample"`
}

// Default returns the engine's built-in configuration.
func Default() *Config {
	return &Config{
		Backend:               "default",
		Threaded:              true,
		UpdateTime:            0.01,
		SuspendResumeFadeTime: 0.5,
		IdleUnloadTime:        60,
		SampleRate:            44100,
		Channels:              2,
		BitsPerSample:         16,
	}
}

// Load reads a config file (YAML, TOML or JSON by extension) over the
// defaults. An empty path returns the defaults with environment overrides
// (CHIME_ prefix) applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults := Default()
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("device_name", defaults.DeviceName)
	v.SetDefault("threaded", defaults.Threaded)
	v.SetDefault("update_time", defaults.UpdateTime)
	v.SetDefault("suspend_resume_fade_time", defaults.SuspendResumeFadeTime)
	v.SetDefault("idle_unload_time", defaults.IdleUnloadTime)
	v.SetDefault("sample_rate", defaults.SampleRate)
	v.SetDefault("channels", defaults.Channels)
	v.SetDefault("bits_per_sample", defaults.BitsPerSample)
	v.SetEnvPrefix("CHIME")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// BackendKind maps the config's backend name to the engine enum.
func (c *Config) BackendKind() (chime.BackendKind, error) {
	switch strings.ToLower(c.Backend) {
	case "", "default":
		return chime.BackendDefault, nil
	case "disabled":
		return chime.BackendDisabled, nil
	case "directsound":
		return chime.BackendDirectSound, nil
	case "openal":
		return chime.BackendOpenAL, nil
	case "opensles":
		return chime.BackendOpenSLES, nil
	case "sdl":
		return chime.BackendSDL, nil
	case "xaudio2":
		return chime.BackendXAudio2, nil
	}
	return chime.BackendDefault, fmt.Errorf("unknown backend %q", c.Backend)
}

// Options converts the config into engine options.
func (c *Config) Options() (chime.Options, error) {
	kind, err := c.BackendKind()
	if err != nil {
		return chime.Options{}, err
	}
	return chime.Options{
		Backend:               kind,
		DeviceName:            c.DeviceName,
		Threaded:              c.Threaded,
		UpdateTime:            c.UpdateTime,
		SuspendResumeFadeTime: c.SuspendResumeFadeTime,
		IdleUnloadTime:        c.IdleUnloadTime,
		SampleRate:            c.SampleRate,
		Channels:              c.Channels,
		BitsPerSample:         c.BitsPerSample,
	}, nil
}
