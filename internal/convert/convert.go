// Package convert drives an STL to VRML conversion: facets are pulled from
// an stl.Reader and pushed to a vrml.Writer while the model bounds are
// accumulated for the final viewpoint.
package convert

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/stl2vrml/pkg/fault"
	"github.com/philipparndt/stl2vrml/pkg/geometry"
	"github.com/philipparndt/stl2vrml/pkg/openscad"
	"github.com/philipparndt/stl2vrml/pkg/stl"
	"github.com/philipparndt/stl2vrml/pkg/vrml"
)

// ProgressInterval is the facet cadence of progress callbacks
const ProgressInterval = 1000

// Options configure a conversion
type Options struct {
	Generator string
	BatchSize int

	// Progress, when set, is called with the number of facets processed
	// so far every ProgressInterval facets.
	Progress func(facets int)

	// KeepPartial keeps a partially written output file after a failure.
	// Only used by ConvertFile.
	KeepPartial bool

	// OpenSCAD is the binary used for .scad input. Only used by ConvertFile
	OpenSCAD string
}

// Result describes a finished conversion
type Result struct {
	Format stl.Format
	Facets int
	Blocks int
	Bounds geometry.BoundingBox
}

// Convert reads an STL model from in and writes the VRML scene to out. Any
// error aborts the conversion and leaves out incomplete.
func Convert(in io.ReadSeeker, out io.Writer, opts Options) (*Result, error) {
	reader := stl.NewReader(in)
	if err := reader.ReadHeader(); err != nil {
		return nil, err
	}

	writer := vrml.NewWriter(out, vrml.Options{
		Generator: opts.Generator,
		BatchSize: opts.BatchSize,
	})
	if err := writer.Begin(); err != nil {
		return nil, err
	}

	result := &Result{
		Format: reader.Format(),
		Bounds: geometry.NewBoundingBox(),
	}
	for {
		facet, ok, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		if err := writer.Submit(facet); err != nil {
			return nil, err
		}
		result.Bounds.ExtendFacet(facet)

		result.Facets++
		if opts.Progress != nil && result.Facets%ProgressInterval == 0 {
			opts.Progress(result.Facets)
		}
	}

	if err := writer.End(result.Bounds); err != nil {
		return nil, err
	}
	result.Blocks = writer.Blocks()
	return result, nil
}

// ConvertFile converts the file at inPath into a new file at outPath. An
// OpenSCAD source is rendered to a temporary STL first. On failure the
// output file is removed unless opts.KeepPartial is set.
func ConvertFile(inPath, outPath string, opts Options) (result *Result, err error) {
	if openscad.IsSource(inPath) {
		stlPath, err := openscad.NewRenderer(".", opts.OpenSCAD).RenderToTemp(inPath)
		if err != nil {
			return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}
		defer os.Remove(stlPath)
		inPath = stlPath
	}

	in, err := os.Open(inPath)
	if err != nil {
		return nil, fault.IO(err, "failed opening input file")
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fault.IO(err, "failed opening output file")
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fault.IO(cerr, "failed closing output file")
		}
		if err != nil {
			result = nil
			if !opts.KeepPartial {
				os.Remove(outPath)
			}
		}
	}()

	buffered := bufio.NewWriter(out)
	result, err = Convert(in, buffered, opts)
	if err != nil {
		return nil, err
	}
	if err := buffered.Flush(); err != nil {
		return nil, fault.IO(err, "failed writing to VRML file")
	}
	return result, nil
}
