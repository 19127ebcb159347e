package frame

import (
	"github.com/mewkiz/flac/internal/bits"
	"github.com/mewkiz/flac/internal/ferror"
	"github.com/mewkiz/flac/meta"
)

// Frame is one decoded audio frame: a parsed header plus the
// post-decorrelation, channel-major sample data.
type Frame struct {
	Header
	// Samples is laid out channel-major: Samples[c][i] is sample i of
	// logical channel c. Each inner slice has length int(BlockSize).
	Samples [][]int32
}

// Decode reads and fully decodes the next frame from br. si supplies the
// StreamInfo fallbacks the header may defer to and the channel count used
// to validate the frame's channel assignment against the stream.
func Decode(br *bits.Reader, si *meta.StreamInfo) (*Frame, error) {
	br.AlignToByte()
	br.ResetCRC16()
	br.EnableCRC8()

	h, err := decodeHeader(br, si)
	if err != nil {
		return nil, err
	}
	if h.EncodedChannels != si.ChannelCount {
		return nil, ferror.Newf("frame channel count %d does not match stream channel count %d", h.EncodedChannels, si.ChannelCount)
	}

	gotCRC8 := br.DisableCRC8()
	wantCRC8, err := br.ReadBits(8)
	if err != nil {
		return nil, err
	}
	if uint8(wantCRC8) != gotCRC8 {
		return nil, ferror.Newf("frame header CRC-8 mismatch: computed %#x, stream says %#x", gotCRC8, uint8(wantCRC8))
	}

	subframes := make([]*Subframe, h.EncodedChannels)
	for ch := range subframes {
		bps := uint(h.BitsPerSample)
		switch h.Channels {
		case ChannelAssignmentLeftSide, ChannelAssignmentMidSide:
			if ch == 1 { // side channel
				bps++
			}
		case ChannelAssignmentRightSide:
			if ch == 0 { // side channel
				bps++
			}
		}
		sf, err := decodeSubframe(br, int(h.BlockSize), bps)
		if err != nil {
			return nil, err
		}
		subframes[ch] = sf
	}

	br.AlignToByte()
	wantCRC16 := br.CRC16()
	gotCRC16, err := br.ReadBits(16)
	if err != nil {
		return nil, err
	}
	if uint16(gotCRC16) != wantCRC16 {
		return nil, ferror.Newf("frame footer CRC-16 mismatch: computed %#x, stream says %#x", wantCRC16, uint16(gotCRC16))
	}

	samples := decorrelate(h.Channels, subframes)

	return &Frame{Header: *h, Samples: samples}, nil
}

// decorrelate undoes the frame's inter-channel decorrelation scheme and
// returns the logical, channel-major sample planes.
func decorrelate(ca ChannelAssignment, subframes []*Subframe) [][]int32 {
	if ca == ChannelAssignmentIndependent {
		out := make([][]int32, len(subframes))
		for i, sf := range subframes {
			out[i] = sf.Samples
		}
		return out
	}

	a, b := subframes[0].Samples, subframes[1].Samples
	n := len(a)
	left := make([]int32, n)
	right := make([]int32, n)

	switch ca {
	case ChannelAssignmentLeftSide:
		// a = left, b = side
		for i := 0; i < n; i++ {
			left[i] = a[i]
			right[i] = a[i] - b[i]
		}
	case ChannelAssignmentRightSide:
		// a = side, b = right
		for i := 0; i < n; i++ {
			right[i] = b[i]
			left[i] = b[i] + a[i]
		}
	case ChannelAssignmentMidSide:
		// a = mid, b = side
		for i := 0; i < n; i++ {
			mid := int64(a[i])<<1 | int64(b[i]&1)
			side := int64(b[i])
			left[i] = int32((mid + side) >> 1)
			right[i] = int32((mid - side) >> 1)
		}
	}
	return [][]int32{left, right}
}
