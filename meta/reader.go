package meta

import (
	"io"

	"github.com/mewkiz/flac/internal/ferror"
)

// readBuf is the local buffer used by readBytes.
var readBuf = make([]byte, 4096)

// checkFieldLength rejects a length-prefixed field whose declared size n
// exceeds budget, the number of bytes remaining in the enclosing metadata
// block, before the caller allocates anything sized by n. budget going
// negative (a field that already overran its block) is also rejected.
func checkFieldLength(n uint32, budget int) error {
	if budget < 0 || int64(n) > int64(budget) {
		return ferror.Newf("length-prefixed field declares %d bytes, exceeding the block's remaining %d byte budget", n, budget)
	}
	return nil
}

// readBytes reads and returns exactly n bytes from the provided io.Reader. The
// local buffer is reused in between calls to reduce generation of garbage. It
// is the callers responsibility to make a copy of the returned data.
//
// The local buffer is initially 4096 bytes and will grow automatically if so
// required.
func readBytes(r io.Reader, n int) ([]byte, error) {
	if n > len(readBuf) {
		readBuf = make([]byte, n)
	}
	_, err := io.ReadFull(r, readBuf[:n])
	if err != nil {
		return nil, err
	}
	return readBuf[:n], nil
}
