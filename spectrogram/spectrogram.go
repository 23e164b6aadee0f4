// Package spectrogram renders decoded audio into spectrogram images.
//
// An Engine owns an immutable config.Config. Global range computation and
// renders are pure with respect to that config and the audio they read, so
// any number of them may run concurrently on one Engine.
package spectrogram

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectrogram/logging"
	"github.com/RyanBlaney/sonido-spectrogram/render"
	"github.com/RyanBlaney/sonido-spectrogram/spectrogram/config"
	"github.com/RyanBlaney/sonido-spectrogram/transcode"
)

// ConfigurationError reports an invalid setting or request field
type ConfigurationError = config.ConfigurationError

var (
	ErrNoAudio      = errors.New("no audio supplied")
	ErrInvalidRange = errors.New("invalid range")
	ErrInvalidParts = errors.New("part count must be positive")
)

const (
	DefaultPalette = render.PaletteHeat
	DefaultScale   = spectral.ScaleLinear
	DefaultMapping = render.MappingLinear
)

// RenderRequest describes one image. Zero-valued Palette, Scale and
// Mapping fall back to the package defaults. Nil dB bounds are taken from
// the rendered time range itself.
type RenderRequest struct {
	StartTime float64 `json:"start_time"`
	// Duration in seconds; zero or negative renders to the end of the audio
	Duration     float64        `json:"duration"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Palette      render.Palette `json:"palette"`
	Scale        spectral.Scale `json:"scale"`
	Mapping      render.Mapping `json:"mapping"`
	MinFrequency *float64       `json:"min_frequency,omitempty"`
	MaxFrequency *float64       `json:"max_frequency,omitempty"`
	MinDb        *float64       `json:"min_db,omitempty"`
	MaxDb        *float64       `json:"max_db,omitempty"`
}

// Result is a rendered image together with what produced it
type Result struct {
	Image  *image.RGBA
	Matrix *spectral.Matrix
	Range  spectral.DbRange
	// Elapsed is the wall time the render took
	Elapsed time.Duration
}

// Engine renders spectrograms with a fixed configuration
type Engine struct {
	cfg  config.Config
	stft *spectral.STFT
}

// New validates cfg and builds an Engine around it
func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stft, err := spectral.NewSTFT(cfg.STFTOptions())
	if err != nil {
		return nil, config.NewConfigurationError("stft", cfg.FFTSize, err)
	}

	return &Engine{cfg: cfg, stft: stft}, nil
}

// Config returns the engine configuration
func (e *Engine) Config() config.Config {
	return e.cfg
}

// ComputeGlobalRange builds an Engine for cfg and scans the whole recording
func ComputeGlobalRange(ctx context.Context, audio *transcode.AudioData, cfg config.Config) (spectral.DbRange, error) {
	engine, err := New(cfg)
	if err != nil {
		return spectral.DbRange{}, err
	}
	return engine.ComputeGlobalRange(ctx, audio)
}

// Render builds an Engine for cfg and renders a single image
func Render(ctx context.Context, audio *transcode.AudioData, req RenderRequest, cfg config.Config) (*Result, error) {
	engine, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Render(ctx, audio, req)
}

// RenderParts builds an Engine for cfg and renders parts equal slices
func RenderParts(ctx context.Context, audio *transcode.AudioData, base RenderRequest, parts int, cfg config.Config) ([]*Result, error) {
	engine, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return engine.RenderParts(ctx, audio, base, parts)
}

// ComputeGlobalRange returns the decibel span of the entire recording.
// Silent audio yields the floor to 0 dB fallback range.
func (e *Engine) ComputeGlobalRange(ctx context.Context, audio *transcode.AudioData) (spectral.DbRange, error) {
	if err := checkAudio(audio); err != nil {
		return spectral.DbRange{}, err
	}

	result, err := e.stft.GlobalRange(ctx, audio.PCM, audio.SampleRate)
	if err != nil {
		return spectral.DbRange{}, err
	}

	logging.Debug("Global range computed", logging.Fields{
		"min_db":        result.MinDb,
		"max_db":        result.MaxDb,
		"dynamic_range": result.DynamicRange,
	})
	return result, nil
}

// Render segments the requested time range, resamples it to the image
// width and paints it. The request is validated before any analysis or
// allocation happens.
func (e *Engine) Render(ctx context.Context, audio *transcode.AudioData, req RenderRequest) (*Result, error) {
	started := time.Now()

	if err := checkAudio(audio); err != nil {
		return nil, err
	}

	req, err := e.normalize(req)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component":  "spectrogram",
		"start_time": req.StartTime,
		"duration":   req.Duration,
		"width":      req.Width,
		"height":     req.Height,
		"scale":      req.Scale,
	})

	matrix, err := e.stft.Compute(ctx, audio.PCM, audio.SampleRate, req.StartTime, req.Duration)
	if err != nil {
		return nil, err
	}

	dbRange := e.resolveRange(matrix, req)

	columns := e.cfg.Resampler().Resample(matrix.Columns(), req.Width)

	rasterizer := render.Rasterizer{
		Mapper: spectral.FrequencyMapper{
			Scale:        req.Scale,
			SampleRate:   audio.SampleRate,
			MinFrequency: req.MinFrequency,
			MaxFrequency: req.MaxFrequency,
		},
		Mapping:      req.Mapping,
		Palette:      req.Palette,
		Range:        dbRange,
		MaxDimension: e.cfg.MaxDimension,
		Workers:      e.cfg.Workers,
	}

	img, err := rasterizer.Rasterize(ctx, columns, req.Width, req.Height)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Image:   img,
		Matrix:  matrix,
		Range:   dbRange,
		Elapsed: time.Since(started),
	}

	logger.Debug("Render complete", logging.Fields{
		"frames":     matrix.NumFrames(),
		"min_db":     dbRange.MinDb,
		"max_db":     dbRange.MaxDb,
		"elapsed_ms": result.Elapsed.Milliseconds(),
	})

	return result, nil
}

func (e *Engine) resolveRange(matrix *spectral.Matrix, req RenderRequest) spectral.DbRange {
	if req.MinDb != nil && req.MaxDb != nil {
		return spectral.NewDbRange(*req.MinDb, *req.MaxDb)
	}

	local := matrix.Range(e.stft.FloorDb())
	minDb, maxDb := local.MinDb, local.MaxDb
	if req.MinDb != nil {
		minDb = *req.MinDb
	}
	if req.MaxDb != nil {
		maxDb = *req.MaxDb
	}
	return spectral.NewDbRange(minDb, maxDb)
}

// normalize fills request defaults and rejects malformed fields
func (e *Engine) normalize(req RenderRequest) (RenderRequest, error) {
	limits := render.Rasterizer{MaxDimension: e.cfg.MaxDimension}
	if err := limits.CheckCanvas(req.Width, req.Height); err != nil {
		return req, config.NewConfigurationError("canvas", [2]int{req.Width, req.Height}, err)
	}

	palette, err := render.ParsePalette(string(req.Palette))
	if req.Palette == "" {
		palette, err = DefaultPalette, nil
	}
	if err != nil {
		return req, config.NewConfigurationError("palette", req.Palette, err)
	}
	req.Palette = palette

	scale, err := spectral.ParseScale(string(req.Scale))
	if req.Scale == "" {
		scale, err = DefaultScale, nil
	}
	if err != nil {
		return req, config.NewConfigurationError("scale", req.Scale, err)
	}
	req.Scale = scale

	mapping, err := render.ParseMapping(string(req.Mapping))
	if req.Mapping == "" {
		mapping, err = DefaultMapping, nil
	}
	if err != nil {
		return req, config.NewConfigurationError("mapping", req.Mapping, err)
	}
	req.Mapping = mapping

	if req.MinFrequency != nil && *req.MinFrequency < 0 {
		return req, config.NewConfigurationError("min_frequency", *req.MinFrequency, ErrInvalidRange)
	}
	if req.MaxFrequency != nil && *req.MaxFrequency <= 0 {
		return req, config.NewConfigurationError("max_frequency", *req.MaxFrequency, ErrInvalidRange)
	}
	if req.MinFrequency != nil && req.MaxFrequency != nil && *req.MinFrequency >= *req.MaxFrequency {
		return req, config.NewConfigurationError("frequency_range", [2]float64{*req.MinFrequency, *req.MaxFrequency}, ErrInvalidRange)
	}
	if req.MinDb != nil && req.MaxDb != nil && *req.MinDb > *req.MaxDb {
		return req, config.NewConfigurationError("db_range", [2]float64{*req.MinDb, *req.MaxDb}, ErrInvalidRange)
	}

	return req, nil
}

func checkAudio(audio *transcode.AudioData) error {
	if audio == nil {
		return ErrNoAudio
	}
	if audio.SampleRate <= 0 {
		return config.NewConfigurationError("sample_rate", audio.SampleRate, spectral.ErrInvalidSampleRate)
	}
	return nil
}
