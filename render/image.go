package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
)

// ComposeHorizontal places parts side by side, left to right, on one
// canvas as tall as the tallest part
func ComposeHorizontal(parts []*image.RGBA) *image.RGBA {
	width, height := 0, 0
	for _, part := range parts {
		if part == nil {
			continue
		}
		b := part.Bounds()
		width += b.Dx()
		height = max(height, b.Dy())
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	x := 0
	for _, part := range parts {
		if part == nil {
			continue
		}
		b := part.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), part, b.Min, draw.Src)
		x += b.Dx()
	}
	return out
}

// EncodePNG writes img to w as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG encodes img into the file at path, replacing it if it exists
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
