package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-spectrogram/logging"
)

// Format names a container the decoder understands
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
	FormatOGG Format = "ogg"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyAudio        = errors.New("empty audio data")
	ErrInvalidAudio      = errors.New("invalid audio stream")
)

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64     `json:"-"` // mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // always 1 after decoding
	Duration   time.Duration `json:"duration"`
	Metadata   *Metadata     `json:"metadata,omitempty"`
}

// Metadata describes the source the samples were decoded from
type Metadata struct {
	Path             string `json:"path,omitempty"`
	Format           Format `json:"format"`
	SourceChannels   int    `json:"source_channels"`
	SourceSampleRate int    `json:"source_sample_rate"`
	BitDepth         int    `json:"bit_depth,omitempty"`
}

// Seconds returns the duration in seconds
func (a *AudioData) Seconds() float64 {
	return a.Duration.Seconds()
}

// NewAudioData wraps mono samples, deriving the duration from the sample rate
func NewAudioData(pcm []float64, sampleRate int) *AudioData {
	data := &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   1,
	}
	if sampleRate > 0 {
		data.Duration = time.Duration(float64(len(pcm)) / float64(sampleRate) * float64(time.Second))
	}
	return data
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// MaxDuration truncates decoded audio; zero keeps everything
	MaxDuration time.Duration `json:"max_duration" yaml:"max_duration" mapstructure:"max_duration"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
	}
}

// Decoder turns WAV, MP3 and OGG/Vorbis data into mono float samples
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// FormatFromPath guesses the container from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "wav", "wave":
		return FormatWAV, nil
	case "mp3":
		return FormatMP3, nil
	case "ogg", "oga":
		return FormatOGG, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// SupportedFormats lists the containers the decoder understands
func SupportedFormats() []Format {
	return []Format{FormatWAV, FormatMP3, FormatOGG}
}

// DecodeFile decodes an audio file, picking the format from its extension
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": filename,
	})

	format, err := FormatFromPath(filename)
	if err != nil {
		logger.Error(err, "Cannot determine audio format")
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		logger.Error(err, "Failed to read audio file")
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	audio, err := d.DecodeBytes(data, format)
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}
	audio.Metadata.Path = filename

	return audio, nil
}

// DecodeReader decodes a complete stream of the given format
func (d *Decoder) DecodeReader(r io.Reader, format Format) (*AudioData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return d.DecodeBytes(data, format)
}

// DecodeBytes decodes audio from byte slice
func (d *Decoder) DecodeBytes(data []byte, format Format) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function":  "DecodeBytes",
		"format":    format,
		"data_size": len(data),
	})

	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}

	var (
		raw *rawAudio
		err error
	)
	switch format {
	case FormatWAV:
		raw, err = decodeWAV(bytes.NewReader(data))
	case FormatMP3:
		raw, err = decodeMP3(bytes.NewReader(data))
	case FormatOGG:
		raw, err = decodeOGG(bytes.NewReader(data))
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if raw.sampleRate <= 0 || raw.channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidAudio, raw.sampleRate, raw.channels)
	}

	pcm := Downmix(raw.samples, raw.channels)
	if limit := d.config.MaxDuration; limit > 0 {
		maxSamples := int(limit.Seconds() * float64(raw.sampleRate))
		if len(pcm) > maxSamples {
			pcm = pcm[:maxSamples]
		}
	}

	audio := NewAudioData(pcm, raw.sampleRate)
	audio.Metadata = &Metadata{
		Format:           format,
		SourceChannels:   raw.channels,
		SourceSampleRate: raw.sampleRate,
		BitDepth:         raw.bitDepth,
	}

	logger.Debug("Decoded audio", logging.Fields{
		"sample_rate":     raw.sampleRate,
		"source_channels": raw.channels,
		"samples":         len(pcm),
		"duration":        audio.Duration,
	})

	return audio, nil
}

// rawAudio is interleaved float audio straight out of a format decoder
type rawAudio struct {
	samples    []float64
	sampleRate int
	channels   int
	bitDepth   int
}
