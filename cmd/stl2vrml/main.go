package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/stl2vrml/internal/config"
	"github.com/philipparndt/stl2vrml/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stl2vrml <input.stl> <output.wrl>",
	Short: "Convert STL models to VRML",
	Long: `stl2vrml converts a 3D model from STL (ASCII or binary) to a VRML 2.0
.wrl scene with a camera placed to frame the whole model.

OpenSCAD sources (.scad) are rendered to STL with the openscad binary first.`,
	Version:       version.GetFullVersion(),
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
