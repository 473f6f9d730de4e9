// Package vrml writes triangle meshes as VRML 2.0 scenes.
package vrml

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/philipparndt/stl2vrml/pkg/fault"
	"github.com/philipparndt/stl2vrml/pkg/geometry"
)

// DefaultBatchSize is the number of points buffered before a face set is
// written (1000 facets).
const DefaultBatchSize = 3000

// DefaultGenerator names the tool in the header comment
const DefaultGenerator = "stl2vrml"

// Options control how the scene is written
type Options struct {
	// Generator is written into the header comment line
	Generator string
	// BatchSize is the point count that triggers a face set flush. It is
	// rounded down to whole facets; zero means DefaultBatchSize.
	BatchSize int
}

// Writer emits a VRML scene facet by facet. Facets are buffered and written
// as one Shape/IndexedFaceSet per batch, so memory use is bounded by the
// batch size and not by the model size.
//
// Call Begin once, Submit for every facet, then End once.
type Writer struct {
	w         io.Writer
	generator string
	batchSize int
	pending   []geometry.Vector3
	blocks    int
	err       error
}

// NewWriter creates a Writer that writes to w
func NewWriter(w io.Writer, opts Options) *Writer {
	batch := opts.BatchSize - opts.BatchSize%3
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	generator := opts.Generator
	if generator == "" {
		generator = DefaultGenerator
	}
	return &Writer{
		w:         w,
		generator: generator,
		batchSize: batch,
		pending:   make([]geometry.Vector3, 0, batch),
	}
}

// Begin writes the VRML signature and the generator comment
func (vw *Writer) Begin() error {
	vw.printf("#VRML V2.0 utf8\n# Model converted by %s.\n", vw.generator)
	return vw.err
}

// Submit buffers one facet and flushes the buffer once it is full
func (vw *Writer) Submit(f geometry.Facet) error {
	if vw.err != nil {
		return vw.err
	}
	vw.pending = append(vw.pending, f[0], f[1], f[2])
	if len(vw.pending) >= vw.batchSize {
		vw.flush()
	}
	return vw.err
}

// End writes any buffered facets followed by the viewpoint, background
// and navigation nodes derived from bounds.
func (vw *Writer) End(bounds geometry.BoundingBox) error {
	if vw.err != nil {
		return vw.err
	}
	if len(vw.pending) > 0 {
		vw.flush()
	}

	position := ViewpointPosition(bounds)
	vw.printf("\nViewpoint {\n  description \"View_1\"\n  orientation 1 0 0 0\n")
	vw.printf("  position %s %s %s\n}\n", number(position.X), number(position.Y), number(position.Z))

	vw.printf("Background { skyColor 0.4 0.4 0.4 }\n")
	vw.printf("NavigationInfo { type [ \"EXAMINE\" \"ANY\" ] }\n")
	return vw.err
}

// Blocks returns the number of face sets written so far
func (vw *Writer) Blocks() int {
	return vw.blocks
}

// ViewpointPosition places the camera above the center of the box, pulled
// back along +Z by the larger of its width and depth. An empty box yields
// a camera one unit above the origin.
func ViewpointPosition(bounds geometry.BoundingBox) geometry.Vector3 {
	if bounds.IsEmpty() {
		return geometry.NewVector3(0, 0, 1)
	}
	size := bounds.Size()
	center := bounds.Center()
	center.Z += math.Max(size.X, size.Y)
	return center
}

// flush writes the pending points as one Shape. Indices restart at zero
// for every block.
func (vw *Writer) flush() {
	points := vw.pending
	facets := len(points) / 3

	vw.printf("\nShape {\n" +
		"  appearance Appearance {\n" +
		"    material Material {\n" +
		"      diffuseColor 0.8 0.8 0.8\n" +
		"    }\n" +
		"  }\n" +
		"  geometry IndexedFaceSet {\n" +
		"    coord Coordinate {\n" +
		"      point [\n")

	for i, p := range points {
		sep := ","
		if i == len(points)-1 {
			sep = ""
		}
		vw.printf("        %s %s %s%s\n", number(p.X), number(p.Y), number(p.Z), sep)
	}

	vw.printf("      ]\n    }\n    coordIndex [\n")

	for i := 0; i < facets; i++ {
		sep := ","
		if i == facets-1 {
			sep = ""
		}
		vw.printf("      %d, %d, %d, -1%s\n", 3*i, 3*i+1, 3*i+2, sep)
	}

	vw.printf("    ]\n  }\n}\n")

	vw.pending = vw.pending[:0]
	vw.blocks++
}

// printf remembers the first write error; later calls are no-ops
func (vw *Writer) printf(format string, args ...any) {
	if vw.err != nil {
		return
	}
	if _, err := fmt.Fprintf(vw.w, format, args...); err != nil {
		vw.err = fault.IO(err, "failed writing to VRML file")
	}
}

// number formats a coordinate with 15 significant digits
func number(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}
