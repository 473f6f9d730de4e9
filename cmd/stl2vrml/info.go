package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/stl2vrml/pkg/analysis"
	"github.com/philipparndt/stl2vrml/pkg/stl"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.stl>",
	Short: "Display general information about an STL file",
	Long:  "Show format, facet count, dimensions, surface area and edge statistics without converting.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	filename := args[0]

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := stl.NewReader(file)
	if err := reader.ReadHeader(); err != nil {
		return fmt.Errorf("error parsing STL file: %w", err)
	}
	stats, err := analysis.AnalyzeReader(reader)
	if err != nil {
		return fmt.Errorf("error parsing STL file: %w", err)
	}

	out := cmd.OutOrStdout()
	size := stats.Dimensions()

	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "File: %s\n", filename)
	fmt.Fprintf(out, "Format: %s\n\n", stats.Format)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", stats.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", stats.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", stats.SurfaceArea)

	if stats.TriangleCount == 0 {
		fmt.Fprintln(out, "Model has no facets.")
		return nil
	}

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(stats.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(stats.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(stats.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", size.X)
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", size.Y)
	fmt.Fprintf(out, "  Height (Z): %.6f units\n", size.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f units\n\n", stats.BoundingBox.Diagonal())

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", stats.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", stats.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", stats.AvgEdgeLength())
	return nil
}
