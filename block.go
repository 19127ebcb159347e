package flac

// Block is the decoded output of exactly one frame: a contiguous run of
// inter-channel samples in channel-major order.
//
// The buffer backing Samples is owned by the Stream and recycled across
// frames; callers that need the data to outlive the next pull must copy it.
type Block struct {
	// FirstSampleNum is the stream-relative index of this block's first
	// inter-channel sample.
	FirstSampleNum uint64
	// BlockSize is the number of inter-channel samples in this block.
	BlockSize int
	// ChannelCount is the number of channels.
	ChannelCount int
	// BitsPerSample is the sample resolution.
	BitsPerSample int
	// Samples is channel-major: Samples[c*BlockSize+i] is sample i of
	// channel c.
	Samples []int32
}
