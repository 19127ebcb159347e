package meta

import (
	"io"
	"io/ioutil"

	"github.com/mewkiz/flac/internal/ferror"
)

// VerifyPadding verifies the body of a Padding metadata block, which must
// contain nothing but zero bytes.
func VerifyPadding(r io.Reader) error {
	_, err := io.Copy(ioutil.Discard, zeros{r: r})
	return err
}

// zeros is an io.Reader wrapper whose Read returns an error if any byte
// read isn't zero.
type zeros struct {
	r io.Reader
}

func (zr zeros) Read(p []byte) (n int, err error) {
	n, err = zr.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] != 0 {
			return n, ferror.Newf("non-zero byte in padding block")
		}
	}
	return n, err
}
