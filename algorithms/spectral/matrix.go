package spectral

// Frame is one analysis column: a decibel spectrum of FFTSize/2 bins
type Frame struct {
	Bins          []float64 `json:"bins"`
	TimePosition  float64   `json:"time_position"`  // seconds from the start of the audio
	FrameDuration float64   `json:"frame_duration"` // seconds covered by one FFT window
}

// Matrix is an ordered sequence of frames. Every frame has NumBins() bins.
type Matrix struct {
	Frames              []Frame `json:"frames"`
	SampleRate          int     `json:"sample_rate"`
	FFTSize             int     `json:"fft_size"`
	HopSize             int     `json:"hop_size"`
	FrequencyResolution float64 `json:"frequency_resolution"` // Hz per bin
	TimeResolution      float64 `json:"time_resolution"`      // seconds per frame
}

func newMatrix(frames []Frame, sampleRate, fftSize, hopSize int) *Matrix {
	return &Matrix{
		Frames:              frames,
		SampleRate:          sampleRate,
		FFTSize:             fftSize,
		HopSize:             hopSize,
		FrequencyResolution: float64(sampleRate) / float64(fftSize),
		TimeResolution:      float64(hopSize) / float64(sampleRate),
	}
}

// NumFrames returns the number of time frames
func (m *Matrix) NumFrames() int {
	return len(m.Frames)
}

// NumBins returns the per-frame bin count
func (m *Matrix) NumBins() int {
	return m.FFTSize / 2
}

// Empty reports whether the matrix holds no frames
func (m *Matrix) Empty() bool {
	return len(m.Frames) == 0
}

// Columns returns the bin slices of every frame in time order. The slices
// are shared with the matrix and must not be modified.
func (m *Matrix) Columns() [][]float64 {
	columns := make([][]float64, len(m.Frames))
	for i := range m.Frames {
		columns[i] = m.Frames[i].Bins
	}
	return columns
}

// BinFrequency returns the centre frequency in Hz of bin k
func (m *Matrix) BinFrequency(k int) float64 {
	return BinFrequency(k, m.FFTSize, m.SampleRate)
}

// Duration returns the time span from the first frame start to the last frame end
func (m *Matrix) Duration() float64 {
	if m.Empty() {
		return 0
	}
	first, last := m.Frames[0], m.Frames[len(m.Frames)-1]
	return last.TimePosition + last.FrameDuration - first.TimePosition
}
