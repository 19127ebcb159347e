package flac

import (
	"encoding/binary"
	"hash"
)

// writeLittleEndianSamples feeds w the interleaved, little-endian PCM byte
// representation of b, matching the layout the reference decoder hashes
// against StreamInfo's MD5sum: each sample packed into the smallest whole
// number of bytes that holds BitsPerSample bits, two's complement.
func writeLittleEndianSamples(w hash.Hash, b *Block) {
	bytesPerSample := (b.BitsPerSample + 7) / 8
	var buf [4]byte
	for i := 0; i < b.BlockSize; i++ {
		for c := 0; c < b.ChannelCount; c++ {
			v := uint32(b.Samples[c*b.BlockSize+i])
			binary.LittleEndian.PutUint32(buf[:], v)
			w.Write(buf[:bytesPerSample])
		}
	}
}
