package spectrogram

import (
	"context"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectrogram/transcode"
)

// Analysis summarises a whole recording
type Analysis struct {
	Range    spectral.DbRange  `json:"range"`
	Features spectral.Features `json:"features"`
	Frames   int               `json:"frames"`
	Duration float64           `json:"duration"`
}

// Analyze runs the segmenter over the whole recording once and returns its
// global range along with mean spectral features. Range matches
// ComputeGlobalRange for the same audio.
func (e *Engine) Analyze(ctx context.Context, audio *transcode.AudioData) (*Analysis, error) {
	if err := checkAudio(audio); err != nil {
		return nil, err
	}

	matrix, err := e.stft.Compute(ctx, audio.PCM, audio.SampleRate, 0, 0)
	if err != nil {
		return nil, err
	}

	floor := e.stft.FloorDb()
	return &Analysis{
		Range:    matrix.Range(floor),
		Features: matrix.MeanFeatures(floor, spectral.DefaultRolloffThreshold),
		Frames:   matrix.NumFrames(),
		Duration: audio.Seconds(),
	}, nil
}
