package frame

import "github.com/mewkiz/flac/internal/bits"

// maxResyncBits bounds how far FindNextSync searches before giving up,
// closing off unbounded scanning over a stream that has lost its frame
// boundaries entirely.
const maxResyncBits = 1 << 20 // 128 KiB

// syncMask isolates the low 14 bits of the rolling window FindNextSync
// matches against.
const syncMask = 1<<14 - 1

// FindNextSync advances br bit by bit, searching for the next occurrence of
// the 14-bit frame sync pattern. On success it reports true with br
// positioned immediately after the matched sync bits, ready for a caller to
// parse the remainder of a frame header the way Decode does after its own
// sync read. It reports false, having consumed maxResyncBits bits, if no
// match is found in that span.
//
// Decode itself never calls this: it requires the sync pattern at its
// current position and fails with a FormatError on a mismatch. FindNextSync
// is the recovery primitive for callers that need to relocate a frame
// boundary after losing sync, such as a seek-table scan that hit a corrupt
// frame.
func FindNextSync(br *bits.Reader) (bool, error) {
	var window uint64
	for i := 0; i < maxResyncBits; i++ {
		bit, err := br.ReadBits(1)
		if err != nil {
			return false, err
		}
		window = window<<1 | bit
		if i >= 13 && window&syncMask == syncCode {
			return true, nil
		}
	}
	return false, nil
}
