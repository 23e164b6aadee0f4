package spectral

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectrogram/logging"
)

const (
	DefaultFFTSize = 2048
	DefaultHopSize = 512
)

// STFTOptions configures the frame segmenter
type STFTOptions struct {
	FFTSize int
	HopSize int
	Window  windowing.Type
	Decibel DecibelScale
	// Workers bounds the frame worker pool. Zero picks a count from the
	// workload and runtime.NumCPU.
	Workers int
}

// DefaultSTFTOptions returns a 2048/512 Hanning configuration
func DefaultSTFTOptions() STFTOptions {
	return STFTOptions{
		FFTSize: DefaultFFTSize,
		HopSize: DefaultHopSize,
		Window:  windowing.TypeHanning,
		Decibel: DefaultDecibelScale(),
	}
}

// STFT slices samples into overlapping frames and runs
// window -> FFT -> power -> dB on each one
type STFT struct {
	opts   STFTOptions
	fft    *FFT
	window *windowing.Window
	power  *PowerSpectrum
	logger logging.Logger
}

// NewSTFT validates opts and precomputes the window and FFT tables
func NewSTFT(opts STFTOptions) (*STFT, error) {
	fft, err := NewFFT(opts.FFTSize)
	if err != nil {
		return nil, err
	}

	if opts.HopSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHopSize, opts.HopSize)
	}

	if opts.Decibel == (DecibelScale{}) {
		opts.Decibel = DefaultDecibelScale()
	}
	if opts.Window == "" {
		opts.Window = windowing.TypeHanning
	}
	window, err := windowing.New(opts.Window, opts.FFTSize)
	if err != nil {
		return nil, err
	}

	return &STFT{
		opts:   opts,
		fft:    fft,
		window: window,
		power:  NewPowerSpectrum(opts.Decibel),
		logger: logging.WithFields(logging.Fields{
			"component": "stft",
			"fft_size":  opts.FFTSize,
			"hop_size":  opts.HopSize,
			"window":    opts.Window,
		}),
	}, nil
}

// Options returns the configuration the segmenter was built with
func (s *STFT) Options() STFTOptions {
	return s.opts
}

// FloorDb returns the decibel value assigned to silent bins
func (s *STFT) FloorDb() float64 {
	return s.power.Scale().FloorDb
}

// Compute returns the spectrogram of samples[startTime, startTime+duration).
// A non-positive duration runs to the end of the audio, and the range is
// clamped to the samples available. A range shorter than one frame gives
// an empty matrix, not an error.
func (s *STFT) Compute(ctx context.Context, samples []float64, sampleRate int, startTime, duration float64) (*Matrix, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleRate, sampleRate)
	}

	fftSize, hopSize := s.opts.FFTSize, s.opts.HopSize
	startTime = math.Max(startTime, 0)

	startSample := min(int(math.Floor(startTime*float64(sampleRate))), len(samples))
	endSample := len(samples)
	if duration > 0 {
		endSample = min(startSample+int(math.Floor(duration*float64(sampleRate))), len(samples))
	}

	numFrames := 0
	if span := endSample - startSample; span >= fftSize {
		numFrames = (span-fftSize)/hopSize + 1
	}

	logger := s.logger.WithFields(logging.Fields{
		"function":     "Compute",
		"start_sample": startSample,
		"end_sample":   endSample,
		"num_frames":   numFrames,
	})

	if numFrames <= 0 {
		logger.Debug("Range shorter than one frame, returning empty matrix")
		return newMatrix([]Frame{}, sampleRate, fftSize, hopSize), nil
	}

	frames := make([]Frame, numFrames)
	frameDuration := float64(fftSize) / float64(sampleRate)
	numBins := fftSize / 2

	numWorkers := s.getOptimalWorkerCount(numFrames)
	jobs := make(chan int, numWorkers)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// per-worker scratch, reused across frames
			frameBuffer := make([]float64, fftSize)
			spectrum := make([]complex128, fftSize)

			for frameIdx := range jobs {
				offset := startSample + frameIdx*hopSize
				n := copy(frameBuffer, samples[offset:min(offset+fftSize, len(samples))])
				clear(frameBuffer[n:])

				// sizes are fixed at construction, these cannot fail
				_ = s.window.ApplyInPlace(frameBuffer)
				_ = s.fft.ComputeInto(spectrum, frameBuffer)

				bins := make([]float64, numBins)
				s.power.PowerInto(bins, spectrum)
				s.power.DecibelsInto(bins, bins, fftSize)

				frames[frameIdx] = Frame{
					Bins:          bins,
					TimePosition:  startTime + float64(frameIdx*hopSize)/float64(sampleRate),
					FrameDuration: frameDuration,
				}
			}
		}()
	}

	var sendErr error
	func() {
		defer close(jobs)
		for frameIdx := range numFrames {
			if err := ctx.Err(); err != nil {
				sendErr = err
				return
			}
			select {
			case <-ctx.Done():
				sendErr = ctx.Err()
				return
			case jobs <- frameIdx:
			}
		}
	}()

	wg.Wait()

	if sendErr != nil {
		logger.Warn("Spectrogram computation cancelled")
		return nil, sendErr
	}

	logger.Debug("Computed spectrogram matrix", logging.Fields{
		"workers": numWorkers,
	})

	return newMatrix(frames, sampleRate, fftSize, hopSize), nil
}

// getOptimalWorkerCount determines the number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	if s.opts.Workers > 0 {
		return min(s.opts.Workers, numFrames)
	}

	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	// For medium workloads, use most CPUs
	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
