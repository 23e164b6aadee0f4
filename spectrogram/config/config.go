package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/resample"
	"github.com/RyanBlaney/sonido-spectrogram/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectrogram/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectrogram/render"
)

// ErrInvalidValue marks a setting outside its allowed range
var ErrInvalidValue = errors.New("invalid value")

// ConfigurationError reports a structural problem with render settings.
// It wraps the underlying sentinel so callers can match it with errors.Is.
type ConfigurationError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds a ConfigurationError
func NewConfigurationError(field string, value any, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Err: err}
}

// Config carries every engine-wide setting. It is passed by value; the
// engine never mutates it, so renders with different settings can run
// side by side.
type Config struct {
	FFTSize      int                   `json:"fft_size" yaml:"fft_size" mapstructure:"fft_size"`
	HopSize      int                   `json:"hop_size" yaml:"hop_size" mapstructure:"hop_size"`
	Window       windowing.Type        `json:"window" yaml:"window" mapstructure:"window"`
	Decibel      spectral.DecibelScale `json:"decibel" yaml:"decibel" mapstructure:"decibel"`
	MaxDimension int                   `json:"max_dimension" yaml:"max_dimension" mapstructure:"max_dimension"`
	Downsampler  resample.Downsampler  `json:"downsampler" yaml:"downsampler" mapstructure:"downsampler"`
	Upsampler    resample.Upsampler    `json:"upsampler" yaml:"upsampler" mapstructure:"upsampler"`
	// Workers bounds frame and row parallelism; zero sizes from the CPU count
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// Default returns the 2048/512 Hanning, peak/bilinear configuration
func Default() Config {
	return Config{
		FFTSize:      spectral.DefaultFFTSize,
		HopSize:      spectral.DefaultHopSize,
		Window:       windowing.TypeHanning,
		Decibel:      spectral.DefaultDecibelScale(),
		MaxDimension: render.DefaultMaxDimension,
		Downsampler:  resample.DownsamplePeak,
		Upsampler:    resample.UpsampleBilinear,
	}
}

// Validate reports the first invalid setting as a *ConfigurationError
func (c Config) Validate() error {
	if !spectral.IsPowerOfTwo(c.FFTSize) {
		return NewConfigurationError("fft_size", c.FFTSize, spectral.ErrNotPowerOfTwo)
	}
	if c.HopSize <= 0 {
		return NewConfigurationError("hop_size", c.HopSize, spectral.ErrInvalidHopSize)
	}
	if _, err := windowing.ParseType(string(c.Window)); err != nil {
		return NewConfigurationError("window", c.Window, err)
	}
	if c.Decibel.ReferenceLevel <= 0 {
		return NewConfigurationError("decibel.reference_level", c.Decibel.ReferenceLevel, ErrInvalidValue)
	}
	if c.Decibel.MinPower < 0 {
		return NewConfigurationError("decibel.min_power", c.Decibel.MinPower, ErrInvalidValue)
	}
	if c.MaxDimension <= 0 || c.MaxDimension > render.DefaultMaxDimension {
		return NewConfigurationError("max_dimension", c.MaxDimension, ErrInvalidValue)
	}
	if _, err := resample.ParseDownsampler(string(c.Downsampler)); err != nil {
		return NewConfigurationError("downsampler", c.Downsampler, err)
	}
	if _, err := resample.ParseUpsampler(string(c.Upsampler)); err != nil {
		return NewConfigurationError("upsampler", c.Upsampler, err)
	}
	if c.Workers < 0 {
		return NewConfigurationError("workers", c.Workers, ErrInvalidValue)
	}
	return nil
}

// STFTOptions converts the config into segmenter options
func (c Config) STFTOptions() spectral.STFTOptions {
	window, err := windowing.ParseType(string(c.Window))
	if err != nil {
		window = c.Window
	}
	return spectral.STFTOptions{
		FFTSize: c.FFTSize,
		HopSize: c.HopSize,
		Window:  window,
		Decibel: c.Decibel,
		Workers: c.Workers,
	}
}

// Resampler returns the temporal resampler the config selects
func (c Config) Resampler() resample.Resampler {
	down, _ := resample.ParseDownsampler(string(c.Downsampler))
	up, _ := resample.ParseUpsampler(string(c.Upsampler))
	return resample.New(down, up)
}

// Load reads a YAML file over Default(). Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}
