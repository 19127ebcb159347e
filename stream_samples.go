package flac

// SampleIterator pulls one interleaved sample at a time from a Stream,
// recycling the underlying Block across frame boundaries.
type SampleIterator struct {
	s     *Stream
	block *Block
	frame int // time index within the current block
	ch    int // channel index within the current time index
}

// Samples returns a SampleIterator over the stream's remaining audio.
func (s *Stream) Samples() *SampleIterator {
	return &SampleIterator{s: s}
}

// Next returns the next sample in interleaved order (channel 0's sample at
// time i, then channel 1's, ... then channel 0's sample at time i+1, ...),
// decoding a new block from the underlying Stream when the current one is
// exhausted. It returns io.EOF at a clean end of stream, exactly as
// Stream.NextBlock does.
func (it *SampleIterator) Next() (int32, error) {
	for it.block == nil || it.frame >= it.block.BlockSize {
		block, err := it.s.NextBlock()
		if err != nil {
			return 0, err
		}
		it.block = block
		it.frame = 0
		it.ch = 0
	}
	v := it.block.Samples[it.ch*it.block.BlockSize+it.frame]
	it.ch++
	if it.ch >= it.block.ChannelCount {
		it.ch = 0
		it.frame++
	}
	return v, nil
}
