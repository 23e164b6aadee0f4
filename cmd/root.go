package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-spectrogram/algorithms/resample"
	"github.com/RyanBlaney/sonido-spectrogram/algorithms/windowing"
	"github.com/RyanBlaney/sonido-spectrogram/logging"
	"github.com/RyanBlaney/sonido-spectrogram/spectrogram/config"
)

const envPrefix = "SONIDO_SPECTROGRAM"

var (
	configFile string
	verbose    bool
	logLevel   string
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sonido-spectrogram",
	Short: "Render audio files as spectrogram images",
	Long: `Decode WAV, MP3 or OGG/Vorbis audio and render its short-time Fourier
transform as a PNG spectrogram.

Every flag can also be set through a SONIDO_SPECTROGRAM_* environment
variable, e.g. SONIDO_SPECTROGRAM_FFT_SIZE=4096. Engine settings can be
loaded from a YAML file with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, viper.New()); err != nil {
			return err
		}
		return setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML file with engine settings (fft_size, hop_size, window, decibel, ...)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored log output")
}

// bindFlags binds each cobra flag to viper and to its environment variable,
// and copies values that came from the environment back onto unset flags.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	var lastErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		if err := v.BindEnv(f.Name, envVar); err != nil {
			lastErr = err
		}

		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				lastErr = fmt.Errorf("%s: %w", envVar, err)
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

func setupLogging() error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = logging.DebugLevel
	}

	logger := logging.NewDefaultLogger()
	if noColor {
		logger = logging.NewDefaultLoggerNoColor()
	}
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	return nil
}

// engineConfig starts from --config (or the defaults) and applies any
// engine flags the user set explicitly. Names are checked by Validate.
func engineConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("fft-size") {
		cfg.FFTSize, _ = flags.GetInt("fft-size")
	}
	if flags.Changed("hop-size") {
		cfg.HopSize, _ = flags.GetInt("hop-size")
	}
	if flags.Changed("window") {
		window, _ := flags.GetString("window")
		cfg.Window = windowing.Type(window)
	}
	if flags.Changed("downsampler") {
		down, _ := flags.GetString("downsampler")
		cfg.Downsampler = resample.Downsampler(down)
	}
	if flags.Changed("upsampler") {
		up, _ := flags.GetString("upsampler")
		cfg.Upsampler = resample.Upsampler(up)
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}

	return cfg, cfg.Validate()
}

// addEngineFlags registers the STFT flags shared by render and range
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Int("fft-size", config.Default().FFTSize, "FFT size in samples (power of two)")
	cmd.Flags().Int("hop-size", config.Default().HopSize, "hop between frames in samples")
	cmd.Flags().String("window", string(config.Default().Window), "window function (rectangular, hanning, hamming, blackman)")
	cmd.Flags().String("downsampler", string(config.Default().Downsampler), "column reduction when frames outnumber pixels (peak, average)")
	cmd.Flags().String("upsampler", string(config.Default().Upsampler), "column synthesis when pixels outnumber frames (linear, bilinear)")
	cmd.Flags().Int("workers", 0, "worker goroutines (0 uses every CPU)")
}
