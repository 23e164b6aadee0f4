package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-spectrogram/spectrogram"
)

var rangeJSON bool

var rangeCmd = &cobra.Command{
	Use:   "range <input>",
	Short: "Print the global decibel range and spectral summary of an audio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRange,
}

func init() {
	rootCmd.AddCommand(rangeCmd)

	rangeCmd.Flags().BoolVar(&rangeJSON, "json", false, "print the range as JSON")
	addEngineFlags(rangeCmd)
}

func runRange(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	audio, err := decode(args[0])
	if err != nil {
		return err
	}

	engine, err := spectrogram.New(cfg)
	if err != nil {
		return err
	}

	analysis, err := engine.Analyze(ctx, audio)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rangeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	r, f := analysis.Range, analysis.Features
	fmt.Fprintf(out, "%s: %.2fs @ %d Hz, %d frames (%s)\n", args[0], analysis.Duration, audio.SampleRate, analysis.Frames, engineSummary(cfg))
	fmt.Fprintf(out, "  min:      %8.2f dB\n", r.MinDb)
	fmt.Fprintf(out, "  max:      %8.2f dB\n", r.MaxDb)
	fmt.Fprintf(out, "  dynamic:  %8.2f dB\n", r.DynamicRange)
	fmt.Fprintf(out, "  peak:     %8.1f Hz\n", f.PeakFrequency)
	fmt.Fprintf(out, "  centroid: %8.1f Hz\n", f.Centroid)
	fmt.Fprintf(out, "  rolloff:  %8.1f Hz\n", f.Rolloff)
	return nil
}
