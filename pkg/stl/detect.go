package stl

import (
	"encoding/binary"
	"io"

	"github.com/philipparndt/stl2vrml/pkg/fault"
)

// Binary STL layout
const (
	headerSize = 80
	countSize  = 4
	recordSize = 50 // 12 bytes normal, 36 bytes vertices, 2 bytes attribute
)

// Format is the variant of an STL stream
type Format int

const (
	ASCII Format = iota
	Binary
)

func (f Format) String() string {
	if f == Binary {
		return "binary"
	}
	return "ASCII"
}

// le is the byte order of every binary STL field
var le = binary.LittleEndian

// BinarySize returns the exact length of a binary STL stream holding n facets
func BinarySize(n uint32) int64 {
	return headerSize + countSize + int64(n)*recordSize
}

// DetectFormat reports Binary if the stream declares at least one facet at
// offset 80 and its total length matches that count exactly. Everything else
// is treated as ASCII; an ASCII file that happens to match the length formula
// is misread as binary.
//
// The stream position is restored before returning. Only a failure to save
// or restore the position is reported as an error.
func DetectFormat(rs io.ReadSeeker) (Format, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return ASCII, fault.IO(err, "failed to save stream position")
	}

	format := probe(rs)

	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return format, fault.IO(err, "failed to restore stream position")
	}
	return format, nil
}

func probe(rs io.ReadSeeker) Format {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil || size < headerSize+countSize {
		return ASCII
	}
	if _, err := rs.Seek(headerSize, io.SeekStart); err != nil {
		return ASCII
	}

	var count uint32
	if err := binary.Read(rs, le, &count); err != nil {
		return ASCII
	}
	if count < 1 || size != BinarySize(count) {
		return ASCII
	}
	return Binary
}
