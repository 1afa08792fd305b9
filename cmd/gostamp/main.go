package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/gostamp/internal/app"
	"github.com/philipparndt/gostamp/internal/config"
	"github.com/philipparndt/gostamp/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	patternRef string
	imageFiles []string
	noWatch    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gostamp [model]",
	Short: "Place logos on a 3D garment and bake them into its texture",
	Long: `gostamp is a desktop editor for positioning images on a garment texture.
Layers are moved and resized on a 2D canvas while the baked texture is
previewed live on the 3D model. Supports STL and OpenSCAD models.`,
	Version:       version.GetFullVersion(),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: runEditor,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "gostamp.yaml", "settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&patternRef, "pattern", "p", "", "base pattern image (path or URL)")
	rootCmd.Flags().StringSliceVarP(&imageFiles, "image", "i", nil, "image to add as a layer on startup (repeatable)")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the model or pattern when they change")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the settings file and applies flags that were set
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	if f := cmd.Flags().Lookup("pattern"); f != nil && f.Changed {
		cfg.Pattern = patternRef
	}
	if noWatch {
		cfg.Watch = false
	}
	return cfg, nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Model = args[0]
	}

	slog.Debug("Starting editor", "model", cfg.Model, "pattern", cfg.Pattern, "canvas", fmt.Sprintf("%dx%d", cfg.Canvas.Width, cfg.Canvas.Height))
	return app.Run(app.Options{Config: cfg, Logger: slog.Default(), Images: imageFiles})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
