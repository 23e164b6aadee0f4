package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectrogram/logging"
	"github.com/RyanBlaney/sonido-spectrogram/render"
	"github.com/RyanBlaney/sonido-spectrogram/spectrogram"
	"github.com/RyanBlaney/sonido-spectrogram/spectrogram/config"
	"github.com/RyanBlaney/sonido-spectrogram/transcode"
)

var (
	renderOutput      string
	renderWidth       int
	renderHeight      int
	renderStart       float64
	renderDuration    float64
	renderPalette     string
	renderScale       string
	renderMapping     string
	renderMinFreq     float64
	renderMaxFreq     float64
	renderMinDb       float64
	renderMaxDb       float64
	renderParts       int
	renderSplit       bool
	renderGlobalRange bool
)

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render an audio file as a PNG spectrogram",
	Long: `Render the spectrogram of a WAV, MP3 or OGG/Vorbis file.

With --parts N the selected span is cut into N equal slices that share the
recording's global decibel range. The slices are joined side by side into
the output image, or written as separate numbered files with --split.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "", "output PNG path (default <input>.png)")
	f.IntVar(&renderWidth, "width", 1024, "image width in pixels")
	f.IntVar(&renderHeight, "height", 512, "image height in pixels")
	f.Float64Var(&renderStart, "start", 0, "start time in seconds")
	f.Float64Var(&renderDuration, "duration", 0, "duration in seconds (0 renders to the end)")
	f.StringVar(&renderPalette, "palette", string(spectrogram.DefaultPalette), "color palette ("+join(render.Palettes())+")")
	f.StringVar(&renderScale, "scale", string(spectrogram.DefaultScale), "frequency scale ("+join(spectral.Scales())+")")
	f.StringVar(&renderMapping, "mapping", string(spectrogram.DefaultMapping), "intensity mapping ("+join(render.Mappings())+")")
	f.Float64Var(&renderMinFreq, "min-freq", 0, "lowest frequency shown in Hz")
	f.Float64Var(&renderMaxFreq, "max-freq", 0, "highest frequency shown in Hz")
	f.Float64Var(&renderMinDb, "min-db", 0, "decibel value mapped to the darkest color")
	f.Float64Var(&renderMaxDb, "max-db", 0, "decibel value mapped to the brightest color")
	f.IntVar(&renderParts, "parts", 1, "number of equal time slices to render")
	f.BoolVar(&renderSplit, "split", false, "write each part to its own file instead of joining them")
	f.BoolVar(&renderGlobalRange, "global-range", false, "calibrate colors against the whole recording")
	addEngineFlags(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	audio, err := decode(input)
	if err != nil {
		return err
	}

	engine, err := spectrogram.New(cfg)
	if err != nil {
		return err
	}

	req := renderRequest(cmd)
	output := renderOutput
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}

	logger := logging.WithFields(logging.Fields{
		"input":  input,
		"output": output,
		"parts":  renderParts,
	})

	if renderParts > 1 {
		results, err := engine.RenderParts(ctx, audio, req, renderParts)
		if err != nil {
			return err
		}
		return writeParts(cmd, results, output, logger)
	}

	if renderGlobalRange && (req.MinDb == nil || req.MaxDb == nil) {
		global, err := engine.ComputeGlobalRange(ctx, audio)
		if err != nil {
			return err
		}
		if req.MinDb == nil {
			req.MinDb = &global.MinDb
		}
		if req.MaxDb == nil {
			req.MaxDb = &global.MaxDb
		}
	}

	result, err := engine.Render(ctx, audio, req)
	if err != nil {
		return err
	}

	if err := render.WritePNG(output, result.Image); err != nil {
		return err
	}

	logger.Info("Spectrogram written", logging.Fields{
		"frames":     result.Matrix.NumFrames(),
		"min_db":     result.Range.MinDb,
		"max_db":     result.Range.MaxDb,
		"elapsed_ms": result.Elapsed.Milliseconds(),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%dx%d, %.1f to %.1f dB)\n",
		output, req.Width, req.Height, result.Range.MinDb, result.Range.MaxDb)
	return nil
}

func writeParts(cmd *cobra.Command, results []*spectrogram.Result, output string, logger logging.Logger) error {
	if !renderSplit {
		images := make([]*image.RGBA, len(results))
		for i, r := range results {
			images[i] = r.Image
		}
		composed := render.ComposeHorizontal(images)
		if err := render.WritePNG(output, composed); err != nil {
			return err
		}
		logger.Info("Composed spectrogram written", logging.Fields{"width": composed.Bounds().Dx()})
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d parts)\n", output, len(results))
		return nil
	}

	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)
	for i, r := range results {
		path := fmt.Sprintf("%s_%03d%s", base, i+1, ext)
		if err := render.WritePNG(path, r.Image); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// renderRequest turns the render flags into a request; unset optional
// bounds stay nil.
func renderRequest(cmd *cobra.Command) spectrogram.RenderRequest {
	req := spectrogram.RenderRequest{
		StartTime: renderStart,
		Duration:  renderDuration,
		Width:     renderWidth,
		Height:    renderHeight,
		Palette:   render.Palette(renderPalette),
		Scale:     spectral.Scale(renderScale),
		Mapping:   render.Mapping(renderMapping),
	}

	flags := cmd.Flags()
	if flags.Changed("min-freq") {
		req.MinFrequency = &renderMinFreq
	}
	if flags.Changed("max-freq") {
		req.MaxFrequency = &renderMaxFreq
	}
	if flags.Changed("min-db") {
		req.MinDb = &renderMinDb
	}
	if flags.Changed("max-db") {
		req.MaxDb = &renderMaxDb
	}
	return req
}

func decode(path string) (*transcode.AudioData, error) {
	decoder := transcode.NewDecoder(transcode.DefaultDecoderConfig())
	audio, err := decoder.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return audio, nil
}

func join[T ~string](values []T) string {
	return strings.Join(names(values), ", ")
}

// engineSummary is shared by range and list output
func engineSummary(cfg config.Config) string {
	return fmt.Sprintf("fft=%d hop=%d window=%s", cfg.FFTSize, cfg.HopSize, cfg.Window)
}
