// Package frame decodes FLAC audio frames: the frame header, the per-channel
// subframes (residual decoding and inverse prediction), inter-channel
// decorrelation, and the frame footer CRC-16.
package frame

import (
	"github.com/mewkiz/flac/internal/bits"
	"github.com/mewkiz/flac/internal/ferror"
	"github.com/mewkiz/flac/meta"
)

// syncCode is the 14-bit frame sync pattern.
const syncCode = 0x3FFE // 11 1111 1111 1110

// ChannelAssignment specifies how subframes map onto the output channels:
// either N independent channels, or one of the three stereo decorrelation
// pairings.
type ChannelAssignment uint8

const (
	ChannelAssignmentIndependent ChannelAssignment = iota
	ChannelAssignmentLeftSide
	ChannelAssignmentRightSide
	ChannelAssignmentMidSide
)

// Header holds the parsed fields of a single frame header.
type Header struct {
	// HasFixedBlockSize is true when every frame in the stream shares the
	// same block size (except possibly the last).
	HasFixedBlockSize bool
	// BlockSize is the number of inter-channel samples in this frame.
	BlockSize uint16
	// SampleRate in Hz.
	SampleRate uint32
	// Channels describes how subframes map onto output channels.
	Channels ChannelAssignment
	// EncodedChannels is the number of subframes present in the frame
	// (equal to the logical channel count in every assignment FLAC
	// defines).
	EncodedChannels uint8
	// BitsPerSample is the sample resolution of the encoded channels,
	// before any side-channel widening.
	BitsPerSample uint8
	// Num is the frame number (fixed blocking strategy) or the first
	// sample number (variable blocking strategy).
	Num uint64
}

// fixedBlockSizes maps the short 4-bit block-size code to its value, for
// codes that need no trailing bytes.
var fixedBlockSizes = map[uint32]uint16{
	0b0001: 192,
	0b0010: 576,
	0b0011: 1152,
	0b0100: 2304,
	0b0101: 4608,
	0b1000: 256,
	0b1001: 512,
	0b1010: 1024,
	0b1011: 2048,
	0b1100: 4096,
	0b1101: 8192,
	0b1110: 16384,
	0b1111: 32768,
}

// fixedSampleRates maps the short 4-bit sample-rate code to its value in Hz,
// for codes that need no trailing bytes.
var fixedSampleRates = map[uint32]uint32{
	0b0001: 88200,
	0b0010: 176400,
	0b0011: 192000,
	0b0100: 8000,
	0b0101: 16000,
	0b0110: 22050,
	0b0111: 24000,
	0b1000: 32000,
	0b1001: 44100,
	0b1010: 48000,
	0b1011: 96000,
}

// sampleSizes maps the 3-bit sample-size code to bits per sample, for codes
// that are not "get it from StreamInfo".
var sampleSizes = map[uint32]uint8{
	0b001: 8,
	0b010: 12,
	0b100: 16,
	0b101: 20,
	0b110: 24,
}

// decodeHeader parses a frame header from br. si supplies the fallback
// sample rate and bits-per-sample when the header defers to it.
//
// The caller is responsible for calling br.ResetCRC16 and br.EnableCRC8
// immediately before this is invoked, and for validating the returned CRC-8
// against br.DisableCRC8() once the trailing CRC-8 byte has been read.
func decodeHeader(br *bits.Reader, si *meta.StreamInfo) (*Header, error) {
	sync, err := br.ReadBits(14)
	if err != nil {
		return nil, err
	}
	if sync != syncCode {
		return nil, ferror.Newf("invalid sync code %#x", sync)
	}

	if _, err := br.ReadBits(1); err != nil { // reserved bit, must be 0
		return nil, err
	}
	blockingBit, err := br.ReadBits(1)
	if err != nil {
		return nil, err
	}

	blockSizeCode, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	sampleRateCode, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	chanCode, err := br.ReadBits(4)
	if err != nil {
		return nil, err
	}
	sampleSizeCode, err := br.ReadBits(3)
	if err != nil {
		return nil, err
	}
	if _, err := br.ReadBits(1); err != nil { // reserved bit, must be 0
		return nil, err
	}

	h := &Header{HasFixedBlockSize: blockingBit == 0}

	num, err := decodeUTF8(br)
	if err != nil {
		return nil, err
	}
	h.Num = num

	switch {
	case blockSizeCode == 0b0110:
		v, err := br.ReadBits(8)
		if err != nil {
			return nil, err
		}
		h.BlockSize = uint16(v) + 1
	case blockSizeCode == 0b0111:
		v, err := br.ReadBits(16)
		if err != nil {
			return nil, err
		}
		h.BlockSize = uint16(v) + 1
	default:
		bs, ok := fixedBlockSizes[uint32(blockSizeCode)]
		if !ok {
			return nil, ferror.Newf("reserved block size code %#x", blockSizeCode)
		}
		h.BlockSize = bs
	}

	switch {
	case sampleRateCode == 0b0000:
		h.SampleRate = si.SampleRate
	case sampleRateCode == 0b1100:
		v, err := br.ReadBits(8)
		if err != nil {
			return nil, err
		}
		h.SampleRate = uint32(v) * 1000
	case sampleRateCode == 0b1101:
		v, err := br.ReadBits(16)
		if err != nil {
			return nil, err
		}
		h.SampleRate = uint32(v)
	case sampleRateCode == 0b1110:
		v, err := br.ReadBits(16)
		if err != nil {
			return nil, err
		}
		h.SampleRate = uint32(v) * 10
	case sampleRateCode == 0b1111:
		return nil, ferror.Newf("invalid sample rate code 0b1111")
	default:
		sr, ok := fixedSampleRates[uint32(sampleRateCode)]
		if !ok {
			return nil, ferror.Newf("reserved sample rate code %#x", sampleRateCode)
		}
		h.SampleRate = sr
	}

	switch {
	case chanCode <= 7:
		h.Channels = ChannelAssignmentIndependent
		h.EncodedChannels = uint8(chanCode) + 1
	case chanCode == 8:
		h.Channels = ChannelAssignmentLeftSide
		h.EncodedChannels = 2
	case chanCode == 9:
		h.Channels = ChannelAssignmentRightSide
		h.EncodedChannels = 2
	case chanCode == 10:
		h.Channels = ChannelAssignmentMidSide
		h.EncodedChannels = 2
	default:
		return nil, ferror.Newf("reserved channel assignment code %#x", chanCode)
	}

	switch sampleSizeCode {
	case 0b000:
		h.BitsPerSample = si.BitsPerSample
	case 0b011, 0b111:
		return nil, ferror.Newf("reserved sample size code %#x", sampleSizeCode)
	default:
		bps, ok := sampleSizes[uint32(sampleSizeCode)]
		if !ok {
			return nil, ferror.Newf("reserved sample size code %#x", sampleSizeCode)
		}
		h.BitsPerSample = bps
	}

	return h, nil
}
