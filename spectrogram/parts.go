package spectrogram

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-spectrogram/logging"
	"github.com/RyanBlaney/sonido-spectrogram/transcode"
)

// RenderParts splits the requested span into parts equal slices and
// renders each one with the recording's global decibel range, so adjacent
// images share one color calibration. Explicit MinDb or MaxDb on base
// override the corresponding global bound. Results are in time order.
func (e *Engine) RenderParts(ctx context.Context, audio *transcode.AudioData, base RenderRequest, parts int) ([]*Result, error) {
	if parts <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidParts, parts)
	}
	if err := checkAudio(audio); err != nil {
		return nil, err
	}
	if _, err := e.normalize(base); err != nil {
		return nil, err
	}

	global, err := e.ComputeGlobalRange(ctx, audio)
	if err != nil {
		return nil, err
	}

	start := math.Max(base.StartTime, 0)
	span := audio.Seconds() - start
	if base.Duration > 0 {
		span = math.Min(span, base.Duration)
	}
	span = math.Max(span, 0)
	slice := span / float64(parts)

	logging.Debug("Rendering parts", logging.Fields{
		"parts":      parts,
		"start_time": start,
		"slice":      slice,
		"min_db":     global.MinDb,
		"max_db":     global.MaxDb,
	})

	minDb, maxDb := global.MinDb, global.MaxDb
	if base.MinDb != nil {
		minDb = *base.MinDb
	}
	if base.MaxDb != nil {
		maxDb = *base.MaxDb
	}

	results := make([]*Result, parts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.partWorkers(parts))

	for i := range parts {
		req := base
		req.StartTime = start + float64(i)*slice
		req.Duration = slice
		req.MinDb = &minDb
		req.MaxDb = &maxDb

		g.Go(func() error {
			result, err := e.Render(ctx, audio, req)
			if err != nil {
				return fmt.Errorf("part %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// partWorkers keeps part-level fan-out small; each render is already
// parallel inside.
func (e *Engine) partWorkers(parts int) int {
	workers := 2
	if e.cfg.Workers > 0 {
		workers = e.cfg.Workers
	}
	return min(workers, parts)
}
