// Package meta parses the FLAC metadata block chain: StreamInfo (mandatory,
// first), and the optional Padding, Application, SeekTable, VorbisComment,
// CueSheet and Picture blocks that may follow it.
package meta

import (
	"io"
	"io/ioutil"

	"github.com/mewkiz/flac/internal/bits"
	"github.com/mewkiz/flac/internal/ferror"
)

// MaxBlockLength is the largest metadata block length this decoder will
// accept. A declared length beyond this is rejected before any allocation
// is attempted, closing off an allocation-based denial-of-service vector.
const MaxBlockLength = 10 << 20 // 10 MiB

// A Block is a metadata block, consisting of a block header and a block
// body.
type Block struct {
	// The underlying reader of the block body.
	r io.Reader
	// Metadata block header.
	Header *BlockHeader
	// Metadata block body: *StreamInfo, *Application, *SeekTable, etc. Nil
	// until Parse is called, and still nil after Parse for Padding and for
	// unknown or reserved block types.
	Body interface{}
}

// NewBlock reads and parses a metadata block header from r and returns a
// handle to the metadata block. Call Parse to decode the block body or Skip
// to discard it unread.
func NewBlock(r io.Reader) (*Block, error) {
	h, err := NewBlockHeader(r)
	if err != nil {
		return nil, err
	}
	return &Block{r: io.LimitReader(r, int64(h.Length)), Header: h}, nil
}

// Parse reads and parses the metadata block body. Unknown or reserved block
// types have no body type; Parse discards them the same way Skip does.
func (block *Block) Parse() (err error) {
	switch block.Header.BlockType {
	case TypeStreamInfo:
		block.Body, err = NewStreamInfo(block.r)
	case TypePadding:
		err = VerifyPadding(block.r)
	case TypeApplication:
		block.Body, err = NewApplication(block.r)
	case TypeSeekTable:
		block.Body, err = NewSeekTable(block.r, block.Header.Length)
	case TypeVorbisComment:
		block.Body, err = NewVorbisComment(block.r, block.Header.Length)
	case TypeCueSheet:
		block.Body, err = NewCueSheet(block.r)
	case TypePicture:
		block.Body, err = NewPicture(block.r, block.Header.Length)
	default:
		return block.Skip()
	}
	return err
}

// Skip discards the contents of the metadata block body without decoding
// it.
func (block *Block) Skip() error {
	_, err := io.Copy(ioutil.Discard, block.r)
	return err
}

// BlockType identifies the metadata block type.
type BlockType uint8

// Metadata block types, numbered per their on-disk encoding.
const (
	TypeStreamInfo BlockType = iota
	TypePadding
	TypeApplication
	TypeSeekTable
	TypeVorbisComment
	TypeCueSheet
	TypePicture
	typeReservedStart BlockType = 7
	typeInvalid       BlockType = 127
)

var blockTypeName = map[BlockType]string{
	TypeStreamInfo:    "stream info",
	TypePadding:       "padding",
	TypeApplication:   "application",
	TypeSeekTable:     "seek table",
	TypeVorbisComment: "vorbis comment",
	TypeCueSheet:      "cue sheet",
	TypePicture:       "picture",
}

func (t BlockType) String() string {
	if name, ok := blockTypeName[t]; ok {
		return name
	}
	return "unknown"
}

// A BlockHeader contains type and length information about a metadata
// block.
type BlockHeader struct {
	// IsLast is true if this block is the last metadata block before the
	// audio frames.
	IsLast bool
	// Block type.
	BlockType BlockType
	// Length in bytes of the metadata body.
	Length int
}

// NewBlockHeader parses and returns a new metadata block header.
//
// Block header format:
//
//	is_last    uint1
//	block_type uint7
//	length     uint24
func NewBlockHeader(r io.Reader) (*BlockHeader, error) {
	br := bits.NewReader(r)
	isLast, err := br.ReadBits(1)
	if err != nil {
		return nil, err
	}
	rawType, err := br.ReadBits(7)
	if err != nil {
		return nil, err
	}
	length, err := br.ReadBits(24)
	if err != nil {
		return nil, err
	}

	blockType := BlockType(rawType)
	if blockType == typeInvalid {
		return nil, ferror.Newf("invalid metadata block type 127")
	}
	if int64(length) > MaxBlockLength {
		return nil, ferror.Unsupportedf("metadata block length %d exceeds %d byte cap", length, MaxBlockLength)
	}

	h := &BlockHeader{
		IsLast:    isLast != 0,
		BlockType: blockType,
		Length:    int(length),
	}
	return h, nil
}
