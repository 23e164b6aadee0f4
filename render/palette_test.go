package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatBoundaries(t *testing.T) {
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, PaletteHeat.Color(0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, PaletteHeat.Color(1))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, PaletteHeat.Color(0.33))
	assert.Equal(t, color.RGBA{255, 255, 0, 255}, PaletteHeat.Color(0.67))
}

func TestGrayPalettes(t *testing.T) {
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, PaletteGray.Color(0))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, PaletteGray.Color(1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, PaletteInvGray.Color(0))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, PaletteInvGray.Color(1))
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, PaletteInvGray.Color(0.5))
}

func TestInfernoInterpolatesBetweenStops(t *testing.T) {
	c := PaletteInferno.Color(0.1)
	assert.InDelta(t, 43.5, float64(c.R), 1)
	assert.InDelta(t, 8, float64(c.G), 1)
	assert.InDelta(t, 55, float64(c.B), 1)
	assert.Equal(t, uint8(255), c.A)
}

func TestInfernoStops(t *testing.T) {
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, PaletteInferno.Color(0))
	assert.Equal(t, color.RGBA{87, 16, 110, 255}, PaletteInferno.Color(0.2))
	assert.Equal(t, color.RGBA{249, 142, 9, 255}, PaletteInferno.Color(0.6))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, PaletteInferno.Color(1))
}

func TestPalettesClampInput(t *testing.T) {
	for _, p := range Palettes() {
		assert.Equal(t, p.Color(0), p.Color(-3), string(p))
		assert.Equal(t, p.Color(1), p.Color(7), string(p))
		assert.Equal(t, p.Color(0), p.Color(math.NaN()), string(p))
	}
}

func TestHeatIsMonotonicInBrightness(t *testing.T) {
	prev := -1
	for i := 0; i <= 100; i++ {
		c := PaletteHeat.Color(float64(i) / 100)
		sum := int(c.R) + int(c.G) + int(c.B)
		assert.GreaterOrEqual(t, sum, prev)
		prev = sum
	}
}

func TestParsePalette(t *testing.T) {
	for _, p := range Palettes() {
		got, err := ParsePalette(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParsePalette("GREY")
	require.NoError(t, err)
	assert.Equal(t, PaletteGray, got)

	_, err = ParsePalette("viridis")
	assert.ErrorIs(t, err, ErrUnknownPalette)
}
