package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Palette turns a mapped intensity into a color
type Palette string

const (
	PaletteGray    Palette = "gray"
	PaletteInvGray Palette = "invgray"
	PaletteHeat    Palette = "heat"
	PaletteInferno Palette = "inferno"
)

// Palettes lists every supported palette
func Palettes() []Palette {
	return []Palette{PaletteGray, PaletteInvGray, PaletteHeat, PaletteInferno}
}

// ParsePalette maps a name onto a Palette
func ParsePalette(name string) (Palette, error) {
	switch p := Palette(strings.ToLower(strings.TrimSpace(name))); p {
	case PaletteGray, PaletteInvGray, PaletteHeat, PaletteInferno:
		return p, nil
	case "grey":
		return PaletteGray, nil
	case "invgrey", "inverted":
		return PaletteInvGray, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
}

type rgb struct{ r, g, b float64 }

// infernoStops approximate matplotlib's inferno at t = 0, 0.2, ..., 1
var infernoStops = [...]rgb{
	{0, 0, 0},
	{87, 16, 110},
	{188, 55, 84},
	{249, 142, 9},
	{252, 255, 164},
	{255, 255, 255},
}

// Color returns the palette color for t in [0,1]; t is clamped.
// Unknown palettes fall back to PaletteGray.
func (p Palette) Color(t float64) color.RGBA {
	t = clamp01(t)

	switch p {
	case PaletteInvGray:
		v := 255 * t
		return toRGBA(rgb{v, v, v})
	case PaletteHeat:
		return toRGBA(heat(t))
	case PaletteInferno:
		return toRGBA(inferno(t))
	default:
		// dark = loud
		v := 255 - 255*t
		return toRGBA(rgb{v, v, v})
	}
}

// heat ramps black -> red -> yellow -> white
func heat(t float64) rgb {
	switch {
	case t < 0.33:
		return rgb{255 * t / 0.33, 0, 0}
	case t < 0.67:
		return rgb{255, 255 * (t - 0.33) / 0.34, 0}
	default:
		return rgb{255, 255, 255 * (t - 0.67) / 0.33}
	}
}

func inferno(t float64) rgb {
	segments := len(infernoStops) - 1

	pos := t * float64(segments)
	i := min(int(pos), segments-1)
	frac := pos - float64(i)

	a, b := infernoStops[i], infernoStops[i+1]
	return rgb{
		a.r + frac*(b.r-a.r),
		a.g + frac*(b.g-a.g),
		a.b + frac*(b.b-a.b),
	}
}

func toRGBA(c rgb) color.RGBA {
	return color.RGBA{R: channel(c.r), G: channel(c.g), B: channel(c.b), A: 255}
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
