package frame

import (
	"github.com/mewkiz/flac/internal/bits"
	"github.com/mewkiz/flac/internal/ferror"
)

// decodeResidual decodes a partitioned-Rice residual sequence of
// blockSize-predOrder signed values into out, which must already be sized
// accordingly.
func decodeResidual(br *bits.Reader, predOrder, blockSize int, out []int32) error {
	codingMethod, err := br.ReadBits(2)
	if err != nil {
		return err
	}
	var paramBits uint
	switch codingMethod {
	case 0:
		paramBits = 4
	case 1:
		paramBits = 5
	default:
		return ferror.Newf("reserved residual coding method %d", codingMethod)
	}
	escape := uint64(1)<<paramBits - 1

	partOrderBits, err := br.ReadBits(4)
	if err != nil {
		return err
	}
	partitions := 1 << partOrderBits
	if blockSize%partitions != 0 {
		return ferror.Newf("block size %d not evenly divisible into %d partitions", blockSize, partitions)
	}
	partLen := blockSize / partitions
	if partLen < predOrder {
		return ferror.Newf("first partition length %d smaller than predictor order %d", partLen-predOrder, predOrder)
	}

	idx := 0
	for p := 0; p < partitions; p++ {
		n := partLen
		if p == 0 {
			n -= predOrder
		}

		param, err := br.ReadBits(paramBits)
		if err != nil {
			return err
		}

		if param == escape {
			rawWidth, err := br.ReadBits(5)
			if err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				if rawWidth == 0 {
					out[idx] = 0
					idx++
					continue
				}
				v, err := br.ReadBits(uint(rawWidth))
				if err != nil {
					return err
				}
				out[idx] = int32(bits.IntN(v, uint(rawWidth)))
				idx++
			}
			continue
		}

		for i := 0; i < n; i++ {
			q, err := br.ReadUnary()
			if err != nil {
				return err
			}
			r, err := br.ReadBits(uint(param))
			if err != nil {
				return err
			}
			u := q<<param | r
			if u > 0xFFFFFFFF {
				return ferror.Newf("rice-coded residual magnitude exceeds 32 bits")
			}
			out[idx] = bits.DecodeZigZag(uint32(u))
			idx++
		}
	}
	return nil
}
