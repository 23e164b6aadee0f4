package spectral

import (
	"context"
	"math"

	"github.com/RyanBlaney/sonido-spectrogram/logging"
)

// DbRange is the decibel span used to calibrate colors. It is a plain value
// so one range can be handed to many independent renders.
type DbRange struct {
	MinDb        float64 `json:"min_db"`
	MaxDb        float64 `json:"max_db"`
	DynamicRange float64 `json:"dynamic_range"`
}

// NewDbRange builds a range from its bounds
func NewDbRange(minDb, maxDb float64) DbRange {
	return DbRange{MinDb: minDb, MaxDb: maxDb, DynamicRange: maxDb - minDb}
}

// SilentRange is the fallback used when no bin rises above the floor:
// from the floor up to the 0 dB theoretical ceiling.
func SilentRange(floorDb float64) DbRange {
	return NewDbRange(floorDb, 0)
}

// Range scans every bin and returns the observed min and max, skipping
// values at or below floorDb. A matrix with nothing above the floor yields
// SilentRange(floorDb).
func (m *Matrix) Range(floorDb float64) DbRange {
	minDb, maxDb := math.Inf(1), math.Inf(-1)
	for i := range m.Frames {
		for _, db := range m.Frames[i].Bins {
			if db <= floorDb || math.IsNaN(db) {
				continue
			}
			minDb = math.Min(minDb, db)
			maxDb = math.Max(maxDb, db)
		}
	}

	if math.IsInf(minDb, 1) {
		return SilentRange(floorDb)
	}
	return NewDbRange(minDb, maxDb)
}

// GlobalRange runs the segmenter over the whole recording, ignoring any
// sub-range, and returns the decibel span shared by every part rendered
// from it.
func (s *STFT) GlobalRange(ctx context.Context, samples []float64, sampleRate int) (DbRange, error) {
	matrix, err := s.Compute(ctx, samples, sampleRate, 0, 0)
	if err != nil {
		return DbRange{}, err
	}

	result := matrix.Range(s.power.Scale().FloorDb)

	s.logger.Debug("Computed global dB range", logging.Fields{
		"frames":        matrix.NumFrames(),
		"min_db":        result.MinDb,
		"max_db":        result.MaxDb,
		"dynamic_range": result.DynamicRange,
	})

	return result, nil
}
