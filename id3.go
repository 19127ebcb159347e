package flac

import (
	"io"

	"github.com/mewkiz/flac/internal/ferror"
)

// peeker is satisfied by *bufio.Reader: it lets rejectID3v2 look at the next
// bytes without committing to having consumed them.
type peeker interface {
	Peek(n int) ([]byte, error)
}

// rejectID3v2 reports an error naming the ID3v2 tag when r starts with one,
// so that a stream carrying the tag some other FLAC-unaware tool left in
// place is rejected with a message that distinguishes it from a plain
// corrupt stream, rather than silently decoded or decoded from the wrong
// offset. It reports no error and consumes nothing when the stream does
// not start with "ID3". r must be either a peeker (the non-seekable path)
// or an io.Seeker (the seekable path); newStream always hands it one of
// the two.
func rejectID3v2(r io.Reader) error {
	if p, ok := r.(peeker); ok {
		prefix, err := p.Peek(3)
		if err != nil || string(prefix) != "ID3" {
			return nil
		}
		return id3v2Error()
	}
	if sk, ok := r.(io.Seeker); ok {
		var prefix [3]byte
		if _, err := io.ReadFull(r, prefix[:]); err != nil {
			return err
		}
		if _, err := sk.Seek(-int64(len(prefix)), io.SeekCurrent); err != nil {
			return err
		}
		if string(prefix[:]) != "ID3" {
			return nil
		}
		return id3v2Error()
	}
	return nil
}

func id3v2Error() error {
	return ferror.Newf("stream begins with an ID3v2 tag, not the FLAC signature")
}
