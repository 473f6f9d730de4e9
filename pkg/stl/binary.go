package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/philipparndt/stl2vrml/pkg/fault"
	"github.com/philipparndt/stl2vrml/pkg/geometry"
)

// record is one facet as laid out in a binary STL file
type record struct {
	Normal   [3]float32
	Vertices [9]float32
	Attr     uint16
}

func (r *Reader) readBinaryHeader() error {
	// The 80 byte header is free-form and ignored
	if _, err := r.rs.Seek(headerSize, io.SeekStart); err != nil {
		return fault.IO(err, "failed to seek past binary STL header")
	}

	var buf [countSize]byte
	if _, err := io.ReadFull(r.rs, buf[:]); err != nil {
		if isShortRead(err) {
			return fault.Formatf("failed reading facet count from binary STL file")
		}
		return fault.IO(err, "failed reading facet count from binary STL file")
	}

	r.facets = le.Uint32(buf[:])
	if r.facets < 1 {
		return fault.Formatf("facet count in binary STL header is not valid")
	}
	r.data = bufio.NewReader(r.rs)
	return nil
}

func (r *Reader) nextBinary() (geometry.Facet, bool, error) {
	if r.consumed >= r.facets {
		return geometry.Facet{}, false, nil
	}

	// read it into a buffer first, so that a short read is caught once
	var buf [recordSize]byte
	if _, err := io.ReadFull(r.data, buf[:]); err != nil {
		if isShortRead(err) {
			return geometry.Facet{}, false, fault.Formatf(
				"binary STL file is truncated: facet %d of %d is incomplete", r.consumed+1, r.facets)
		}
		return geometry.Facet{}, false, fault.IO(err, "failed reading facet record from binary STL file")
	}

	var rec record
	if err := binary.Read(bytes.NewReader(buf[:]), le, &rec); err != nil {
		return geometry.Facet{}, false, fault.IO(err, "failed decoding facet record")
	}
	if rec.Attr != 0 {
		return geometry.Facet{}, false, fault.Formatf(
			"invalid attribute size %d in facet %d of binary STL file", rec.Attr, r.consumed+1)
	}

	var facet geometry.Facet
	for i := range facet {
		v := rec.Vertices[i*3 : i*3+3]
		facet[i] = geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
	}

	r.consumed++
	return facet, true, nil
}

func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
