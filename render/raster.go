package render

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectrogram/logging"
)

// DefaultMaxDimension bounds both canvas axes
const DefaultMaxDimension = 16384

// Rasterizer paints resampled spectrogram columns onto an RGBA canvas
type Rasterizer struct {
	Mapper  spectral.FrequencyMapper
	Mapping Mapping
	Palette Palette
	Range   spectral.DbRange
	// MaxDimension caps width and height; zero means DefaultMaxDimension
	MaxDimension int
	// Workers bounds the row workers; zero uses runtime.NumCPU
	Workers int
}

// CheckCanvas validates width and height against the size limit
func (r Rasterizer) CheckCanvas(width, height int) error {
	limit := r.MaxDimension
	if limit <= 0 {
		limit = DefaultMaxDimension
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, width, height)
	}
	if width > limit || height > limit {
		return fmt.Errorf("%w: %dx%d > %d", ErrCanvasTooLarge, width, height, limit)
	}
	return nil
}

// Rasterize renders columns into a width x height image. Pixel column x
// reads columns[floor(x*len(columns)/width)] and row y reads the bin the
// Mapper assigns to it; bins missing from a column read as Range.MinDb.
// The canvas is validated before anything is allocated.
func (r Rasterizer) Rasterize(ctx context.Context, columns [][]float64, width, height int) (*image.RGBA, error) {
	if err := r.CheckCanvas(width, height); err != nil {
		return nil, err
	}

	logger := logging.WithFields(logging.Fields{
		"component": "rasterizer",
		"width":     width,
		"height":    height,
		"columns":   len(columns),
		"palette":   r.Palette,
		"mapping":   r.Mapping,
	})

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	numBins := 0
	if len(columns) > 0 {
		numBins = len(columns[0])
	}
	rowBins := r.Mapper.RowBins(height, numBins)

	xColumns := make([]int, width)
	for x := range xColumns {
		xColumns[x] = x * len(columns) / width
	}

	minDb, maxDb := r.Range.MinDb, r.Range.MaxDb
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := range height {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			bin := rowBins[y]
			row := img.Pix[y*img.Stride : y*img.Stride+4*width]
			for x := range width {
				db := minDb
				if len(columns) > 0 {
					column := columns[xColumns[x]]
					if bin < len(column) {
						db = column[bin]
					}
				}

				c := r.Palette.Color(r.Mapping.Apply(Normalize(db, minDb, maxDb)))
				px := row[4*x : 4*x+4 : 4*x+4]
				px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Rasterization aborted", logging.Fields{"reason": err.Error()})
		return nil, err
	}

	logger.Debug("Rasterized spectrogram")
	return img, nil
}
