package meta

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/mewkiz/flac/internal/ferror"
)

// A VorbisComment metadata block stores a list of human-readable
// name/value pairs, values UTF-8 encoded. It implements the Vorbis comment
// specification (without the framing bit) and is the only officially
// supported tagging mechanism in FLAC.
type VorbisComment struct {
	Vendor  string
	Entries []VorbisEntry
}

// A VorbisEntry is a name/value pair. Either field may be empty: an entry
// with a zero-length vector string is a valid, tolerated tag.
type VorbisEntry struct {
	Name  string
	Value string
}

// NewVorbisComment parses and returns a new VorbisComment metadata block.
// length is the enclosing metadata block's declared byte length; every
// length-prefixed field read from r is checked against it before anything
// sized by that field is allocated.
//
// Unlike the rest of the FLAC format, the numeric fields in this block are
// little-endian, inherited unchanged from the Vorbis comment specification.
//
// Vorbis comment format:
//
//	vendor_length uint32le
//	vendor_string [vendor_length]byte
//	comment_count uint32le
//	comments      [comment_count]comment
//
//	type comment struct {
//	   vector_length uint32le
//	   vector_string [vector_length]byte // "NAME=value"
//	}
func NewVorbisComment(r io.Reader, length int) (*VorbisComment, error) {
	budget := length

	vendorLen, err := readU32le(r)
	if err != nil {
		return nil, err
	}
	budget -= 4
	if err := checkFieldLength(vendorLen, budget); err != nil {
		return nil, err
	}
	vendor, err := readBytes(r, int(vendorLen))
	if err != nil {
		return nil, err
	}
	budget -= int(vendorLen)
	vc := &VorbisComment{Vendor: string(vendor)}

	commentCount, err := readU32le(r)
	if err != nil {
		return nil, err
	}
	budget -= 4
	// Every entry spends at least 4 bytes on its own vector_length prefix,
	// so a count that could not possibly fit in the remaining budget is
	// rejected before the []VorbisEntry backing it is allocated.
	if err := checkFieldLength(commentCount, budget/4); err != nil {
		return nil, err
	}

	vc.Entries = make([]VorbisEntry, commentCount)
	for i := range vc.Entries {
		vectorLen, err := readU32le(r)
		if err != nil {
			return nil, err
		}
		budget -= 4
		if vectorLen == 0 {
			// Empty entries are tolerated, not rejected.
			continue
		}
		if err := checkFieldLength(vectorLen, budget); err != nil {
			return nil, err
		}
		buf, err := readBytes(r, int(vectorLen))
		if err != nil {
			return nil, err
		}
		budget -= int(vectorLen)
		vector := string(buf)
		pos := strings.Index(vector, "=")
		if pos == -1 {
			return nil, vorbisCommentFormatError(vector)
		}
		vc.Entries[i] = VorbisEntry{Name: vector[:pos], Value: vector[pos+1:]}
	}
	return vc, nil
}

func vorbisCommentFormatError(vector string) error {
	return ferror.Newf("invalid vorbis comment vector, missing '=': %q", vector)
}

func readU32le(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
