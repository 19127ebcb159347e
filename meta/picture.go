package meta

import (
	"encoding/binary"
	"io"
	"io/ioutil"

	"github.com/mewkiz/flac/internal/ferror"
)

// A Picture metadata block stores a picture associated with the stream,
// most commonly cover art. There may be more than one Picture block in a
// stream.
type Picture struct {
	// Picture type according to the ID3v2 APIC frame; reserved values above
	// 20 are rejected.
	Type uint32
	// MIME type string, in printable ASCII 0x20-0x7e.
	MIME string
	// Description of the picture, in UTF-8.
	Desc string
	Width,
	Height,
	ColorDepth,
	ColorCount uint32
	// Binary picture data.
	Data []byte
}

// NewPicture parses and returns a new Picture metadata block. length is
// the enclosing metadata block's declared byte length; mime_length and
// desc_length are checked against it before their buffers are allocated.
//
// Picture format:
//
//	type        uint32
//	mime_length uint32
//	mime_string [mime_length]byte
//	desc_length uint32
//	desc_string [desc_length]byte
//	width       uint32
//	height      uint32
//	color_depth uint32
//	color_count uint32
//	data_length uint32
//	data        [data_length]byte
func NewPicture(r io.Reader, length int) (*Picture, error) {
	budget := length

	pic := new(Picture)
	if err := binary.Read(r, binary.BigEndian, &pic.Type); err != nil {
		return nil, err
	}
	budget -= 4
	if pic.Type > 20 {
		return nil, ferror.Newf("reserved picture type: %d", pic.Type)
	}

	mimeLen, err := readU32be(r)
	if err != nil {
		return nil, err
	}
	budget -= 4
	if err := checkFieldLength(mimeLen, budget); err != nil {
		return nil, err
	}
	buf, err := readBytes(r, int(mimeLen))
	if err != nil {
		return nil, err
	}
	budget -= int(mimeLen)
	pic.MIME = getStringFromSZ(buf)
	for _, c := range pic.MIME {
		if c < 0x20 || c > 0x7E {
			return nil, ferror.Newf("invalid character in MIME type; expected >= 0x20 and <= 0x7E, got 0x%02X", c)
		}
	}

	descLen, err := readU32be(r)
	if err != nil {
		return nil, err
	}
	budget -= 4
	if err := checkFieldLength(descLen, budget); err != nil {
		return nil, err
	}
	buf, err = readBytes(r, int(descLen))
	if err != nil {
		return nil, err
	}
	budget -= int(descLen)
	pic.Desc = getStringFromSZ(buf)

	for _, field := range []*uint32{&pic.Width, &pic.Height, &pic.ColorDepth, &pic.ColorCount} {
		if err := binary.Read(r, binary.BigEndian, field); err != nil {
			return nil, err
		}
	}

	dataLen, err := readU32be(r)
	if err != nil {
		return nil, err
	}
	pic.Data, err = ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(pic.Data) != int(dataLen) {
		return nil, ferror.Newf("invalid picture data length; expected %d, got %d", dataLen, len(pic.Data))
	}

	return pic, nil
}

func readU32be(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
