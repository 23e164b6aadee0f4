package transcode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

func decodeWAV(r io.ReadSeeker) (*rawAudio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrInvalidAudio)
	}

	// 3 is WAVE_FORMAT_IEEE_FLOAT; go-audio only hands back integer PCM
	if dec.WavAudioFormat == 3 {
		return nil, fmt.Errorf("%w: IEEE float WAV is not supported", ErrInvalidAudio)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidAudio, bitDepth)
	}

	scale := 1 / float64(int64(1)<<(bitDepth-1))
	// 8-bit WAV is unsigned with silence at 128
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = clampSample(float64(v-offset) * scale)
	}

	return &rawAudio{
		samples:    samples,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   bitDepth,
	}, nil
}

// go-mp3 always yields 16-bit little-endian stereo
func decodeMP3(r io.Reader) (*rawAudio, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}

	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		samples[i] = float64(v) / 32768.0
	}

	return &rawAudio{
		samples:    samples,
		sampleRate: dec.SampleRate(),
		channels:   2,
		bitDepth:   16,
	}, nil
}

func decodeOGG(r io.Reader) (*rawAudio, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode ogg: %w", err)
	}

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = clampSample(float64(v))
	}

	return &rawAudio{
		samples:    samples,
		sampleRate: format.SampleRate,
		channels:   format.Channels,
	}, nil
}

func clampSample(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
