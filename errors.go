package flac

import "github.com/mewkiz/flac/internal/ferror"

// FormatError reports a structural violation of the FLAC bitstream: bad
// sync, an illegal field combination, a CRC mismatch, a non-minimal
// encoding, or similar. The stream does not attempt to resynchronize after
// one of these.
type FormatError = ferror.Format

// UnsupportedError reports a legal but deliberately rejected feature, such
// as a metadata block that exceeds the size cap.
type UnsupportedError = ferror.Unsupported
