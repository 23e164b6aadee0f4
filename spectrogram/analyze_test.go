package spectrogram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeMatchesGlobalRange(t *testing.T) {
	audio := sweep(2000, 2000, 16000, 1)
	engine := newEngine(t, nil)

	analysis, err := engine.Analyze(context.Background(), audio)
	require.NoError(t, err)

	global, err := engine.ComputeGlobalRange(context.Background(), audio)
	require.NoError(t, err)

	assert.Equal(t, global, analysis.Range)
	assert.Equal(t, 28, analysis.Frames)
	assert.InDelta(t, 1.0, analysis.Duration, 1e-9)
	assert.InDelta(t, 2000, analysis.Features.PeakFrequency, 16000.0/2048)
}

func TestAnalyzeRejectsNil(t *testing.T) {
	_, err := newEngine(t, nil).Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoAudio)
}
