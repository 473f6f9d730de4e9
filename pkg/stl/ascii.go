package stl

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/philipparndt/stl2vrml/pkg/fault"
	"github.com/philipparndt/stl2vrml/pkg/geometry"
)

// An ASCII facet:
//
//	facet normal nx ny nz
//	   outer loop
//	      vertex x y z
//	      vertex x y z
//	      vertex x y z
//	   end loop
//	end facet
//
// Keywords may also be written joined ("outerloop", "endloop", "endfacet").

func (r *Reader) readASCIIHeader() error {
	if _, err := r.rs.Seek(0, io.SeekStart); err != nil {
		return fault.IO(err, "failed to seek to start of STL stream")
	}
	r.text = bufio.NewReader(r.rs)

	fields, ok, err := r.readFields()
	if err != nil {
		return err
	}
	if !ok {
		return fault.Formatf("file does not appear to be in STL format")
	}
	if fields[0] != "solid" {
		return fault.Formatf("file does not appear to be an ASCII STL file, expected keyword \"solid\" on line %d", r.line)
	}
	return nil
}

func (r *Reader) nextASCII() (geometry.Facet, bool, error) {
	var facet geometry.Facet

	fields, ok, err := r.readFields()
	if err != nil || !ok {
		return facet, false, err
	}
	if fields[0] == "endsolid" || keywordPair(fields, "end", "solid") {
		return facet, false, nil
	}
	if fields[0] != "facet" {
		return facet, false, r.errorf("expected \"facet\" or \"end solid\"")
	}

	if err := r.expect("outer", "loop", "a facet is missing its outer loop"); err != nil {
		return facet, false, err
	}
	for i := range facet {
		if facet[i], err = r.readVertex(); err != nil {
			return facet, false, err
		}
	}
	if err := r.expect("end", "loop", "expected \"end loop\" after vertex"); err != nil {
		return facet, false, err
	}
	if err := r.expect("end", "facet", "expected \"end facet\" after \"end loop\""); err != nil {
		return facet, false, err
	}
	return facet, true, nil
}

// expect reads a line that must start with first+second, either joined or
// as two tokens.
func (r *Reader) expect(first, second, msg string) error {
	fields, ok, err := r.readFields()
	if err != nil {
		return err
	}
	if !ok {
		return r.errorf("unexpected end of file while reading a facet")
	}
	if fields[0] != first+second && !keywordPair(fields, first, second) {
		return r.errorf("%s", msg)
	}
	return nil
}

func (r *Reader) readVertex() (geometry.Vector3, error) {
	fields, ok, err := r.readFields()
	if err != nil {
		return geometry.Vector3{}, err
	}
	if !ok {
		return geometry.Vector3{}, r.errorf("unexpected end of file while looking for \"vertex\"")
	}
	if len(fields) < 4 {
		return geometry.Vector3{}, r.errorf("malformed vertex line, expected x, y and z coordinates")
	}
	if fields[0] != "vertex" {
		return geometry.Vector3{}, r.errorf("missing or malformed vertex")
	}

	var c [3]float64
	for i := range c {
		v, ok := parseCoordinate(fields[i+1])
		if !ok {
			return geometry.Vector3{}, r.errorf("invalid coordinate value %q after \"vertex\"", fields[i+1])
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// readFields returns the tokens of the next non-blank line. It returns
// false at end of stream.
func (r *Reader) readFields() ([]string, bool, error) {
	for {
		line, err := r.text.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, false, fault.IO(err, "failed reading ASCII STL file")
		}
		if line == "" && err == io.EOF {
			return nil, false, nil
		}
		r.line++

		if strings.TrimSpace(line) != "" {
			fields := Fields(line)
			if len(fields) == 0 {
				// only separators
				fields = []string{strings.TrimSpace(line)}
			}
			return fields, true, nil
		}
		if err == io.EOF {
			return nil, false, nil
		}
	}
}

func (r *Reader) errorf(format string, args ...any) error {
	args = append([]any{r.line}, args...)
	return fault.Formatf("line %d: "+format, args...)
}

func keywordPair(fields []string, first, second string) bool {
	return len(fields) >= 2 && fields[0] == first && fields[1] == second
}

// parseCoordinate converts a vertex token the way C's atof does: the
// longest numeric prefix wins and garbage yields zero. A zero from a token
// that does not start with '0' is rejected, as are NaN and infinities.
func parseCoordinate(tok string) (float64, bool) {
	v := leadingFloat(tok)
	if v == 0 && tok[0] != '0' {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func leadingFloat(tok string) float64 {
	for end := len(tok); end > 0; end-- {
		v, err := strconv.ParseFloat(tok[:end], 64)
		if err == nil {
			return v
		}
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v
		}
	}
	return 0
}
