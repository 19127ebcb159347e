package bits_test

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"
	"github.com/mewkiz/flac/internal/bits"
)

// writeUnary packs x as a unary code (x zero bits followed by a stop bit)
// into bw, using icza/bitio purely as a test fixture builder.
func writeUnary(bw bitio.Writer, x uint64) error {
	for ; x > 8; x -= 8 {
		if err := bw.WriteByte(0x0); err != nil {
			return err
		}
	}
	return bw.WriteBits(1, byte(x+1))
}

func TestUnary(t *testing.T) {
	// ReadUnary accepts runs of up to 64 zero bits (its maxUnary cap).
	for want := uint64(0); want <= 64; want++ {
		buf := new(bytes.Buffer)
		bw := bitio.NewWriter(buf)
		if err := writeUnary(bw, want); err != nil {
			t.Fatalf("error writing unary: %v", err)
		}
		if err := bw.Close(); err != nil {
			t.Fatalf("error closing the buffer: %v", err)
		}

		r := bits.NewReader(buf)
		got, err := r.ReadUnary()
		if err != nil {
			t.Fatalf("error reading unary: %v", err)
		}
		if got != want {
			t.Fatalf("the written and read unary doesn't match the original. got: %v, expected: %v", got, want)
		}
	}
}
