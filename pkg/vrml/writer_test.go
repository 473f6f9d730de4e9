package vrml

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/philipparndt/stl2vrml/pkg/fault"
	"github.com/philipparndt/stl2vrml/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() geometry.Facet {
	return geometry.NewFacet(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	)
}

func write(t *testing.T, opts Options, facets []geometry.Facet) (string, *Writer) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := NewWriter(buf, opts)
	bounds := geometry.NewBoundingBox()

	require.NoError(t, w.Begin())
	for _, f := range facets {
		require.NoError(t, w.Submit(f))
		bounds.ExtendFacet(f)
	}
	require.NoError(t, w.End(bounds))
	return buf.String(), w
}

func TestSingleTriangle(t *testing.T) {
	out, w := write(t, Options{}, []geometry.Facet{triangle()})

	expected := `#VRML V2.0 utf8
# Model converted by stl2vrml.

Shape {
  appearance Appearance {
    material Material {
      diffuseColor 0.8 0.8 0.8
    }
  }
  geometry IndexedFaceSet {
    coord Coordinate {
      point [
        0 0 0,
        1 0 0,
        0 1 0
      ]
    }
    coordIndex [
      0, 1, 2, -1
    ]
  }
}

Viewpoint {
  description "View_1"
  orientation 1 0 0 0
  position 0.5 0.5 1
}
Background { skyColor 0.4 0.4 0.4 }
NavigationInfo { type [ "EXAMINE" "ANY" ] }
`
	assert.Equal(t, expected, out)
	assert.Equal(t, 1, w.Blocks())
}

func TestGeneratorName(t *testing.T) {
	out, _ := write(t, Options{Generator: "mytool 1.2"}, nil)
	assert.True(t, strings.HasPrefix(out, "#VRML V2.0 utf8\n# Model converted by mytool 1.2.\n"))
}

func TestNoFacets(t *testing.T) {
	out, w := write(t, Options{}, nil)

	assert.Equal(t, 0, w.Blocks())
	assert.NotContains(t, out, "Shape")
	assert.Contains(t, out, "position 0 0 1\n")
	assert.NotContains(t, out, "+Inf")
	assert.NotContains(t, out, "-Inf")
}

func TestPrecision(t *testing.T) {
	f := geometry.NewFacet(
		geometry.NewVector3(0.1, -123456.789012345, 1e20),
		geometry.NewVector3(float64(float32(0.1)), 2, 3),
		geometry.NewVector3(1.0/3.0, 0, 0),
	)
	out, _ := write(t, Options{}, []geometry.Facet{f})

	assert.Contains(t, out, "        0.1 -123456.789012345 1e+20,\n")
	assert.Contains(t, out, "        0.100000001490116 2 3,\n")
	assert.Contains(t, out, "        0.333333333333333 0 0\n")
}

func TestViewpointPosition(t *testing.T) {
	bounds := geometry.NewBoundingBox()
	bounds.Extend(geometry.NewVector3(-2, 0, 1))
	bounds.Extend(geometry.NewVector3(2, 10, 3))

	// width 4, depth 10: camera pulled back by 10
	assert.Equal(t, geometry.NewVector3(0, 5, 12), ViewpointPosition(bounds))
	assert.Equal(t, geometry.NewVector3(0, 0, 1), ViewpointPosition(geometry.NewBoundingBox()))
}

func TestBatchSizeRounding(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, NewWriter(nil, Options{}).batchSize)
	assert.Equal(t, 9, NewWriter(nil, Options{BatchSize: 10}).batchSize)
	assert.Equal(t, DefaultBatchSize, NewWriter(nil, Options{BatchSize: 2}).batchSize)
	assert.Equal(t, DefaultBatchSize, NewWriter(nil, Options{BatchSize: -6}).batchSize)
}

func manyFacets(n int) []geometry.Facet {
	facets := make([]geometry.Facet, n)
	for i := range facets {
		x := float64(i) * 0.5
		facets[i] = geometry.NewFacet(
			geometry.NewVector3(x, 0, 1),
			geometry.NewVector3(x, 1, 2),
			geometry.NewVector3(x, 2, 3),
		)
	}
	return facets
}

// mesh is the model content of a scene: points in order and faces with
// indices made global again.
type mesh struct {
	points []string
	faces  [][3]int
}

func parseScene(t *testing.T, out string) mesh {
	t.Helper()
	var m mesh
	section := ""
	base := 0
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "point [":
			section = "point"
			base = len(m.points)
		case line == "coordIndex [":
			section = "index"
		case line == "]":
			section = ""
		case section == "point":
			m.points = append(m.points, strings.TrimSuffix(line, ","))
		case section == "index":
			parts := strings.Split(strings.TrimSuffix(line, ","), ", ")
			require.Len(t, parts, 4)
			require.Equal(t, "-1", parts[3])
			var face [3]int
			for i := range face {
				idx, err := strconv.Atoi(parts[i])
				require.NoError(t, err)
				face[i] = base + idx
			}
			m.faces = append(m.faces, face)
		}
	}
	require.NoError(t, scanner.Err())
	return m
}

func TestBatching(t *testing.T) {
	facets := manyFacets(3001)

	out, w := write(t, Options{}, facets)
	assert.Equal(t, 4, w.Blocks())
	reference := parseScene(t, out)
	require.Len(t, reference.points, 3*3001)
	require.Len(t, reference.faces, 3001)

	for _, size := range []int{3, 30, 2999, 9003, 100000} {
		t.Run(fmt.Sprintf("batch %d", size), func(t *testing.T) {
			out, w := write(t, Options{BatchSize: size}, facets)
			batch := size - size%3
			assert.Equal(t, int(math.Ceil(float64(3*3001)/float64(batch))), w.Blocks())
			assert.Equal(t, reference, parseScene(t, out))
		})
	}
}

func TestIndicesRestartPerBlock(t *testing.T) {
	out, _ := write(t, Options{BatchSize: 6}, manyFacets(3))

	assert.Equal(t, 1, strings.Count(out, "      0, 1, 2, -1,\n"))
	assert.Equal(t, 1, strings.Count(out, "      3, 4, 5, -1\n"))
	assert.Equal(t, 1, strings.Count(out, "      0, 1, 2, -1\n"))
}

// failingWriter accepts limit bytes and then fails every write
type failingWriter struct {
	limit int
}

var errDiskFull = errors.New("disk full")

func (f *failingWriter) Write(p []byte) (int, error) {
	if len(p) > f.limit {
		n := f.limit
		f.limit = 0
		return n, errDiskFull
	}
	f.limit -= len(p)
	return len(p), nil
}

func TestWriteFailure(t *testing.T) {
	w := NewWriter(&failingWriter{limit: 10}, Options{})

	err := w.Begin()
	require.ErrorIs(t, err, fault.ErrIO)
	assert.ErrorIs(t, err, errDiskFull)

	assert.ErrorIs(t, w.Submit(triangle()), fault.ErrIO)
	assert.ErrorIs(t, w.End(geometry.NewBoundingBox()), fault.ErrIO)
}

func TestWriteFailureDuringFlush(t *testing.T) {
	w := NewWriter(&failingWriter{limit: 100}, Options{BatchSize: 3})
	require.NoError(t, w.Begin())

	err := w.Submit(triangle())
	assert.Equal(t, fault.KindIO, fault.KindOf(err))
}
