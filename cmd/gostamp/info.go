package main

import (
	"context"
	"fmt"
	"io"

	"github.com/philipparndt/gostamp/pkg/analysis"
	"github.com/philipparndt/gostamp/pkg/mesh"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [model]",
	Short: "Display information about a model",
	Long:  "Show triangle count, surface area, bounds and how much of the surface the front texture projection covers.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd.Context(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(ctx context.Context, filename string, out io.Writer) error {
	model, err := mesh.LoadModel(ctx, filename)
	if err != nil {
		return err
	}
	result := analysis.Summarize(model)
	group := mesh.FromModel(model)

	fmt.Fprintln(out, "Model Information")
	fmt.Fprintln(out, "=================")
	if result.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", result.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Meshes: %d\n", len(group.Meshes))
	fmt.Fprintf(out, "  Degenerate triangles: %d\n", result.DegenerateCount)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	if result.TriangleCount == 0 {
		return nil
	}

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(out, "  Height (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(out, "  Depth (Z): %.6f units\n\n", result.Dimensions.Z)

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n\n", result.AvgEdgeLength)

	fmt.Fprintln(out, "Texture Projection:")
	fmt.Fprintf(out, "  Front-facing area: %.6f square units\n", result.FrontArea)
	fmt.Fprintf(out, "  Coverage: %.1f%%\n", result.FrontCoverage()*100)
	return nil
}
