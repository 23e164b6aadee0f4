package transcode

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-spectrogram/logging"
)

func init() {
	logging.SetGlobalLogger(nil)
}

// writeWAV encodes interleaved 16-bit samples into a temporary file
func writeWAV(t *testing.T, sampleRate, channels int, data []int) string {
	t.Helper()
	return writeWAVDepth(t, sampleRate, 16, channels, data)
}

func writeWAVDepth(t *testing.T, sampleRate, bitDepth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	return path
}

func TestDecodeStereoWAVToMono(t *testing.T) {
	// left and right cancel to zero on even frames and agree on odd frames
	const frames = 8000
	data := make([]int, 0, frames*2)
	for i := range frames {
		if i%2 == 0 {
			data = append(data, 16384, -16384)
		} else {
			data = append(data, 16384, 16384)
		}
	}
	path := writeWAV(t, 8000, 2, data)

	got, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, got.SampleRate)
	assert.Equal(t, 1, got.Channels)
	require.Len(t, got.PCM, frames)
	assert.Equal(t, time.Second, got.Duration)
	assert.InDelta(t, 1.0, got.Seconds(), 1e-9)

	assert.InDelta(t, 0, got.PCM[0], 1e-9)
	assert.InDelta(t, 0.5, got.PCM[1], 1e-9)

	require.NotNil(t, got.Metadata)
	assert.Equal(t, FormatWAV, got.Metadata.Format)
	assert.Equal(t, 2, got.Metadata.SourceChannels)
	assert.Equal(t, 16, got.Metadata.BitDepth)
	assert.Equal(t, path, got.Metadata.Path)
}

func TestDecodeMonoWAVRange(t *testing.T) {
	data := make([]int, 4410)
	for i := range data {
		data[i] = int(32767 * math.Sin(2*math.Pi*float64(i)/100))
	}
	path := writeWAV(t, 44100, 1, data)

	got, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)
	require.Len(t, got.PCM, 4410)
	for _, v := range got.PCM {
		assert.LessOrEqual(t, math.Abs(v), 1.0)
	}
}

func TestDecode8BitWAVIsCentred(t *testing.T) {
	data := make([]int, 800)
	for i := range data {
		data[i] = 128
	}
	data[1], data[2] = 255, 0

	got, err := NewDecoder(nil).DecodeFile(writeWAVDepth(t, 8000, 8, 1, data))
	require.NoError(t, err)
	require.Len(t, got.PCM, 800)

	assert.InDelta(t, 0, got.PCM[0], 1e-9)
	assert.InDelta(t, 127.0/128, got.PCM[1], 1e-9)
	assert.InDelta(t, -1, got.PCM[2], 1e-9)
	for _, v := range got.PCM[3:] {
		require.InDelta(t, 0, v, 1e-9)
	}
	assert.Equal(t, 8, got.Metadata.BitDepth)
}

// floatWAV builds a mono 32-bit IEEE float WAV by hand
func floatWAV(samples []float32) []byte {
	var b bytes.Buffer
	dataSize := uint32(4 * len(samples))
	le := binary.LittleEndian

	b.WriteString("RIFF")
	binary.Write(&b, le, 36+dataSize)
	b.WriteString("WAVEfmt ")
	binary.Write(&b, le, uint32(16))
	binary.Write(&b, le, uint16(3)) // IEEE float
	binary.Write(&b, le, uint16(1))
	binary.Write(&b, le, uint32(8000))
	binary.Write(&b, le, uint32(8000*4))
	binary.Write(&b, le, uint16(4))
	binary.Write(&b, le, uint16(32))
	b.WriteString("data")
	binary.Write(&b, le, dataSize)
	binary.Write(&b, le, samples)
	return b.Bytes()
}

func TestDecodeFloatWAVRejected(t *testing.T) {
	_, err := NewDecoder(nil).DecodeBytes(floatWAV([]float32{0, 0.5, -0.5, 0.25}), FormatWAV)
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestMaxDurationTruncates(t *testing.T) {
	path := writeWAV(t, 1000, 1, make([]int, 3000))

	dec := NewDecoder(&DecoderConfig{MaxDuration: 1500 * time.Millisecond})
	got, err := dec.DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, got.PCM, 1500)
}

func TestDecodeReaderMatchesFile(t *testing.T) {
	path := writeWAV(t, 8000, 1, []int{0, 1000, -1000, 32767})
	fromFile, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	fromReader, err := NewDecoder(nil).DecodeReader(f, FormatWAV)
	require.NoError(t, err)
	assert.Equal(t, fromFile.PCM, fromReader.PCM)
}

func TestDecodeErrors(t *testing.T) {
	dec := NewDecoder(nil)

	_, err := dec.DecodeBytes(nil, FormatWAV)
	assert.ErrorIs(t, err, ErrEmptyAudio)

	_, err = dec.DecodeBytes([]byte("definitely not a riff header"), FormatWAV)
	assert.ErrorIs(t, err, ErrInvalidAudio)

	_, err = dec.DecodeBytes([]byte{1, 2, 3}, Format("flac"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = dec.DecodeFile("song.flac")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = dec.DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.wav":     FormatWAV,
		"b.WAVE":    FormatWAV,
		"dir/c.mp3": FormatMP3,
		"d.ogg":     FormatOGG,
		"e.tar.oga": FormatOGG,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Len(t, SupportedFormats(), 3)
}

func TestDownmix(t *testing.T) {
	assert.Equal(t, []float64{0.5, 0}, Downmix([]float64{1, 0, 0.5, -0.5, 0.25}, 2))
	assert.Equal(t, []float64{1, 2}, Downmix([]float64{1, 2}, 1))
	assert.InDeltaSlice(t, []float64{1.0 / 3}, Downmix([]float64{1, 0, 0}, 3), 1e-12)
}

func TestNewAudioData(t *testing.T) {
	a := NewAudioData(make([]float64, 22050), 44100)
	assert.Equal(t, 500*time.Millisecond, a.Duration)
	assert.Equal(t, 1, a.Channels)

	assert.Zero(t, NewAudioData(make([]float64, 10), 0).Duration)
}
