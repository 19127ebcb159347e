package meta

import (
	"io"

	"github.com/mewkiz/flac/internal/bits"
	"github.com/mewkiz/flac/internal/ferror"
)

// StreamInfo contains the basic properties of a FLAC audio stream, such as
// its sample rate and channel count. It is mandatory, always the first
// metadata block, and immutable once parsed.
type StreamInfo struct {
	// Minimum and maximum block size in inter-channel samples (16-65535).
	BlockSizeMin uint16
	BlockSizeMax uint16
	// Minimum and maximum frame size in bytes; 0 means unknown.
	FrameSizeMin uint32
	FrameSizeMax uint32
	// Sample rate in Hz (1-655350).
	SampleRate uint32
	// Number of channels (1-8).
	ChannelCount uint8
	// Number of bits per sample (4-32).
	BitsPerSample uint8
	// Total number of inter-channel samples; 0 means unknown.
	SampleCount uint64
	// MD5 checksum of the unencoded audio data; may be all-zero.
	MD5sum [16]byte
}

// MaxBlockSize is the safety threshold beyond which a declared block size
// is rejected rather than allocated for.
const MaxBlockSize = 65535

// NewStreamInfo parses and returns the StreamInfo metadata block.
//
// Stream info format:
//
//	block_size_min  uint16
//	block_size_max  uint16
//	frame_size_min  uint24
//	frame_size_max  uint24
//	sample_rate     uint20
//	channel_count   uint3  (value stored is channel_count-1)
//	bits_per_sample uint5  (value stored is bits_per_sample-1)
//	sample_count    uint36
//	md5sum          [16]byte
func NewStreamInfo(r io.Reader) (*StreamInfo, error) {
	br := bits.NewReader(r)

	blockSizeMin, err := br.ReadLeqU32(16)
	if err != nil {
		return nil, err
	}
	blockSizeMax, err := br.ReadLeqU32(16)
	if err != nil {
		return nil, err
	}
	if blockSizeMax > MaxBlockSize {
		return nil, ferror.Unsupportedf("maximum block size %d exceeds safety threshold of %d samples", blockSizeMax, MaxBlockSize)
	}

	frameSizeMin, err := br.ReadLeqU32(24)
	if err != nil {
		return nil, err
	}
	frameSizeMax, err := br.ReadLeqU32(24)
	if err != nil {
		return nil, err
	}

	sampleRate, err := br.ReadLeqU32(20)
	if err != nil {
		return nil, err
	}
	if sampleRate == 0 || sampleRate > 655350 {
		return nil, ferror.Newf("sample rate %d out of range [1, 655350]", sampleRate)
	}

	channelCount, err := br.ReadLeqU32(3)
	if err != nil {
		return nil, err
	}

	bps, err := br.ReadLeqU32(5)
	if err != nil {
		return nil, err
	}

	sampleCount, err := br.ReadBits(36)
	if err != nil {
		return nil, err
	}

	var md5sum [16]byte
	for i := range md5sum {
		b, err := br.ReadLeqU32(8)
		if err != nil {
			return nil, err
		}
		md5sum[i] = byte(b)
	}

	si := &StreamInfo{
		BlockSizeMin:  uint16(blockSizeMin),
		BlockSizeMax:  uint16(blockSizeMax),
		FrameSizeMin:  frameSizeMin,
		FrameSizeMax:  frameSizeMax,
		SampleRate:    sampleRate,
		ChannelCount:  uint8(channelCount) + 1,
		BitsPerSample: uint8(bps) + 1,
		SampleCount:   sampleCount,
		MD5sum:        md5sum,
	}
	return si, nil
}
