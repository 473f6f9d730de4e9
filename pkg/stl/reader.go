package stl

import (
	"bufio"
	"errors"
	"io"

	"github.com/philipparndt/stl2vrml/pkg/fault"
	"github.com/philipparndt/stl2vrml/pkg/geometry"
)

var errNoHeader = errors.New("stl: Next called before ReadHeader")

// Reader streams facets out of an ASCII or binary STL stream. It holds at
// most one facet at a time, so memory use does not grow with the model.
//
// The format is fixed by ReadHeader; Next dispatches on it for the lifetime
// of the Reader.
type Reader struct {
	rs     io.ReadSeeker
	format Format
	ready  bool
	done   bool

	// ASCII state
	text *bufio.Reader
	line int

	// Binary state
	data     *bufio.Reader
	facets   uint32
	consumed uint32
}

// NewReader creates a Reader for a stream positioned at the start of an STL model
func NewReader(rs io.ReadSeeker) *Reader {
	return &Reader{rs: rs}
}

// ReadHeader detects the format and validates the header. It must be
// called once before Next.
func (r *Reader) ReadHeader() error {
	if _, err := r.rs.Seek(0, io.SeekStart); err != nil {
		return fault.IO(err, "failed to seek to start of STL stream")
	}

	format, err := DetectFormat(r.rs)
	if err != nil {
		return err
	}
	r.format = format
	r.done = false
	r.line = 0
	r.consumed = 0
	r.facets = 0

	if format == Binary {
		err = r.readBinaryHeader()
	} else {
		err = r.readASCIIHeader()
	}
	if err != nil {
		return err
	}
	r.ready = true
	return nil
}

// Next returns the next facet. It returns false with a nil error once the
// model is exhausted; every call after that does the same.
func (r *Reader) Next() (geometry.Facet, bool, error) {
	if !r.ready {
		return geometry.Facet{}, false, errNoHeader
	}
	if r.done {
		return geometry.Facet{}, false, nil
	}

	var (
		facet geometry.Facet
		ok    bool
		err   error
	)
	switch r.format {
	case Binary:
		facet, ok, err = r.nextBinary()
	default:
		facet, ok, err = r.nextASCII()
	}
	if !ok || err != nil {
		r.done = true
	}
	return facet, ok, err
}

// Format returns the format chosen by ReadHeader
func (r *Reader) Format() Format {
	return r.format
}

// FacetCount returns the facet count declared in a binary header, or 0 for ASCII
func (r *Reader) FacetCount() uint32 {
	return r.facets
}
