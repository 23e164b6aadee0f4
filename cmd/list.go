package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/resample"
	"github.com/RyanBlaney/sonido-spectrogram/algorithms/spectral"
	"github.com/RyanBlaney/sonido-spectrogram/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectrogram/render"
	"github.com/RyanBlaney/sonido-spectrogram/spectrogram/config"
	"github.com/RyanBlaney/sonido-spectrogram/transcode"
)

var titleCaser = cases.Title(language.English)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported palettes, scales, mappings, windows and formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

		section := func(name string, values []string) {
			fmt.Fprintf(w, "%s:\n", titleCaser.String(name))
			for _, v := range values {
				fmt.Fprintf(w, "\t%s\t%s\n", v, titleCaser.String(v))
			}
		}

		section("palettes", names(render.Palettes()))
		section("frequency scales", names(spectral.Scales()))
		section("intensity mappings", names(render.Mappings()))
		section("windows", names(windowing.Types()))
		section("downsamplers", []string{string(resample.DownsamplePeak), string(resample.DownsampleAverage)})
		section("upsamplers", []string{string(resample.UpsampleLinear), string(resample.UpsampleBilinear)})
		section("formats", names(transcode.SupportedFormats()))
		fmt.Fprintf(w, "Defaults:\t%s\n", engineSummary(config.Default()))

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
