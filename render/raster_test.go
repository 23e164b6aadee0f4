package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectrogram/logging"
)

func init() {
	logging.SetGlobalLogger(nil)
}

func linearRasterizer(palette Palette) Rasterizer {
	return Rasterizer{
		Mapper:  spectral.FrequencyMapper{Scale: spectral.ScaleLinear, SampleRate: 8},
		Mapping: MappingLinear,
		Palette: palette,
		Range:   spectral.NewDbRange(-100, 0),
	}
}

func TestRasterizeDimensions(t *testing.T) {
	columns := [][]float64{{-100, -50, 0, -20}, {0, 0, 0, 0}}
	img, err := linearRasterizer(PaletteHeat).Rasterize(context.Background(), columns, 96, 768)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 96, 768), img.Bounds())
	assert.Len(t, img.Pix, 96*768*4)
}

func TestRasterizePixelValues(t *testing.T) {
	// two columns, four bins; rows map 1:1 onto bins with height 4
	columns := [][]float64{
		{-100, -50, 0, -100},
		{0, 0, 0, 0},
	}
	img, err := linearRasterizer(PaletteInvGray).Rasterize(context.Background(), columns, 2, 4)
	require.NoError(t, err)

	// bottom row is bin 0
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 3))
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, img.RGBAAt(0, 2))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(0, 0))
	for y := range 4 {
		assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(1, y))
	}
}

func TestRasterizeColumnSelection(t *testing.T) {
	columns := [][]float64{{-100}, {0}, {-100}, {0}}
	img, err := linearRasterizer(PaletteInvGray).Rasterize(context.Background(), columns, 8, 1)
	require.NoError(t, err)

	want := []uint8{0, 0, 255, 255, 0, 0, 255, 255}
	for x, v := range want {
		assert.Equal(t, v, img.RGBAAt(x, 0).R, "x=%d", x)
	}
}

func TestRasterizeShortColumnReadsMinDb(t *testing.T) {
	r := linearRasterizer(PaletteInvGray)
	r.Mapper = spectral.FrequencyMapper{Scale: spectral.ScaleLinear, SampleRate: 8}

	// first column sets the bin count, second is short
	columns := [][]float64{{0, 0, 0, 0}, {0}}
	img, err := r.Rasterize(context.Background(), columns, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.RGBAAt(1, 3).R)
	assert.Equal(t, uint8(0), img.RGBAAt(1, 0).R)
}

func TestRasterizeEmptyColumns(t *testing.T) {
	img, err := linearRasterizer(PaletteHeat).Rasterize(context.Background(), nil, 10, 10)
	require.NoError(t, err)
	for y := range 10 {
		for x := range 10 {
			assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(x, y))
		}
	}
}

func TestRasterizeRejectsCanvas(t *testing.T) {
	r := linearRasterizer(PaletteGray)
	columns := [][]float64{{0}}

	_, err := r.Rasterize(context.Background(), columns, 16385, 10)
	assert.ErrorIs(t, err, ErrCanvasTooLarge)
	_, err = r.Rasterize(context.Background(), columns, 10, 20000)
	assert.ErrorIs(t, err, ErrCanvasTooLarge)
	_, err = r.Rasterize(context.Background(), columns, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidCanvas)

	r.MaxDimension = 64
	_, err = r.Rasterize(context.Background(), columns, 65, 10)
	assert.ErrorIs(t, err, ErrCanvasTooLarge)

	assert.NoError(t, r.CheckCanvas(64, 64))
}

func TestRasterizeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := linearRasterizer(PaletteGray).Rasterize(ctx, [][]float64{{0}}, 4, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeHorizontal(t *testing.T) {
	left := image.NewRGBA(image.Rect(0, 0, 3, 2))
	right := image.NewRGBA(image.Rect(0, 0, 2, 4))
	left.SetRGBA(2, 1, color.RGBA{10, 20, 30, 255})
	right.SetRGBA(0, 3, color.RGBA{40, 50, 60, 255})

	out := ComposeHorizontal([]*image.RGBA{left, nil, right})
	assert.Equal(t, image.Rect(0, 0, 5, 4), out.Bounds())
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, out.RGBAAt(2, 1))
	assert.Equal(t, color.RGBA{40, 50, 60, 255}, out.RGBAAt(3, 3))
}

func TestEncodeAndWritePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.SetRGBA(1, 1, color.RGBA{200, 100, 50, 255})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, WritePNG(path, img))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
