package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gostamp/internal/config"
	"github.com/philipparndt/gostamp/pkg/compositor"
	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/imagefile"
	"github.com/philipparndt/gostamp/pkg/overlay"
	"github.com/spf13/cobra"
)

type bakeOptions struct {
	Pattern string
	Images  []string
	Out     string
	Places  []string
	Canvas  string
}

var bakeOpts bakeOptions

var bakeCmd = &cobra.Command{
	Use:   "bake PATTERN IMAGE...",
	Short: "Compose images over a pattern without opening a window",
	Long: `Adds every IMAGE as a layer the same way the editor does, then bakes the
layers over PATTERN into a PNG of the pattern's size. Use --place once per
image, in order, to override the default placement.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		bakeOpts.Pattern = args[0]
		bakeOpts.Images = args[1:]
		return runBake(cmd.Context(), cfg, bakeOpts, cmd.OutOrStdout())
	},
}

func init() {
	bakeCmd.Flags().StringVarP(&bakeOpts.Out, "out", "o", "baked.png", "output PNG")
	bakeCmd.Flags().StringArrayVar(&bakeOpts.Places, "place", nil, "layer rect as x,y,w,h (negative w/h mirrors)")
	bakeCmd.Flags().StringVar(&bakeOpts.Canvas, "canvas", "", "canvas size as WxH (default from config)")
	rootCmd.AddCommand(bakeCmd)
}

func runBake(ctx context.Context, cfg config.Config, opts bakeOptions, out io.Writer) error {
	if opts.Canvas != "" {
		w, h, err := parseSize(opts.Canvas)
		if err != nil {
			return err
		}
		cfg.Canvas.Width, cfg.Canvas.Height = w, h
	}
	if len(opts.Places) > len(opts.Images) {
		return fmt.Errorf("%d --place values for %d images", len(opts.Places), len(opts.Images))
	}

	editor := overlay.NewEditor(overlay.Options{
		Anchor:   geometry.Pt(cfg.Placement.X, cfg.Placement.Y),
		MaxWidth: cfg.Placement.MaxWidth,
	})

	for i, path := range opts.Images {
		img, err := imagefile.Load(path)
		if err != nil {
			return err
		}
		id, err := editor.AddLayerNamed(path, img)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", path, err)
		}
		if i < len(opts.Places) {
			r, err := parseRect(opts.Places[i])
			if err != nil {
				return err
			}
			if err := editor.SetRect(id, r); err != nil {
				return err
			}
		}
	}

	baker := compositor.NewBaker(compositor.Open(opts.Pattern), cfg.Canvas.Width, cfg.Canvas.Height, cfg.Canvas.Scale, cfg.Bake.Timeout)
	res, err := baker.Bake(ctx, editor.Snapshot())
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.Out, res.PNG, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.Out, err)
	}

	b := res.Image.Bounds()
	fmt.Fprintf(out, "Baked %d layer(s) onto %s (%dx%d) -> %s\n", editor.Len(), opts.Pattern, b.Dx(), b.Dy(), opts.Out)
	for _, l := range editor.Layers() {
		fmt.Fprintf(out, "  %s: x=%.1f y=%.1f w=%.1f h=%.1f\n", l.Name, l.X, l.Y, l.W, l.H)
	}
	return nil
}

// parseRect reads "x,y,w,h"
func parseRect(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, fmt.Errorf("invalid rect %q: expected x,y,w,h", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Rect{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		v[i] = f
	}
	return geometry.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// parseSize reads "WxH"
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q: expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: must be positive", s)
	}
	return w, h, nil
}
