package meta

import "io"

// seekPointSize is the encoded size in bytes of a single seek point.
const seekPointSize = 18

// SeekTable contains zero or more pre-calculated audio frame seek points.
type SeekTable struct {
	Points []SeekPoint
}

// A SeekPoint specifies the byte offset and initial sample number of a
// given target frame.
type SeekPoint struct {
	// Sample number of the first sample in the target frame, or
	// 0xFFFFFFFFFFFFFFFF for a placeholder point.
	SampleNum uint64
	// Offset in bytes from the first byte of the first frame header to the
	// first byte of the target frame's header.
	Offset uint64
	// Number of samples in the target frame.
	NSamples uint16
}

// NewSeekTable reads and parses the body of a SeekTable metadata block.
// length is the metadata block's declared byte length, used to derive the
// seek point count (each seek point is 18 bytes).
//
// All multi-byte fields are big-endian, per the FLAC stream format.
func NewSeekTable(r io.Reader, length int) (*SeekTable, error) {
	n := length / seekPointSize
	table := &SeekTable{Points: make([]SeekPoint, n)}
	var buf [seekPointSize]byte
	for i := range table.Points {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		p := &table.Points[i]
		p.SampleNum = beUint64(buf[0:8])
		p.Offset = beUint64(buf[8:16])
		p.NSamples = uint16(buf[16])<<8 | uint16(buf[17])
	}
	return table, nil
}

func beUint64(b []byte) uint64 {
	var x uint64
	for _, v := range b {
		x = x<<8 | uint64(v)
	}
	return x
}
