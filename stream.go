// Package flac provides a streaming decoder for the Free Lossless Audio
// Codec (FLAC) bitstream format: parsing of the metadata block chain and
// pull-based decoding of audio frames into exact-integer PCM samples.
package flac

import (
	"bufio"
	"crypto/md5"
	"hash"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mewkiz/flac/internal/bits"
	"github.com/mewkiz/flac/internal/bufseekio"
	"github.com/mewkiz/flac/internal/ferror"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// magic is the four byte FLAC stream signature.
const magic = "fLaC"

// A Stream is a pull-based reader over a FLAC bitstream. Once NextBlock or
// Seek fails while reading or decoding, the Stream is poisoned: every
// subsequent NextBlock or Seek call returns the same error. A Seek target
// beyond the declared sample count is reported without poisoning.
type Stream struct {
	closer io.Closer // non-nil when Open opened the underlying file

	byteSrc io.Reader             // *bufio.Reader or *bufseekio.ReadSeeker
	seeker  *bufseekio.ReadSeeker // non-nil when byteSrc also supports Seek
	br      *bits.Reader          // created once metadata parsing completes

	// dataStart is the byte offset of the first frame, valid once seeker is
	// non-nil: every SeekPoint.Offset is relative to it.
	dataStart int64

	info      *meta.StreamInfo
	tags      *meta.VorbisComment
	seekTable *meta.SeekTable

	md5sum         hash.Hash // non-nil once EnableMD5 has been called
	samplesDecoded uint64

	block Block // reused across NextBlock calls; Samples buffer grows, never shrinks

	err error
}

// Open opens the named file and parses its full metadata block chain.
// Callers should Close the stream when done.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "flac: open")
	}
	s, err := Parse(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// Close releases any resources owned by the stream, closing the
// underlying file if the stream was created with Open.
func (s *Stream) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// OpenOptions controls how much of the metadata block chain NewExt parses
// beyond the mandatory StreamInfo block.
type OpenOptions struct {
	// ReadMetadata parses every metadata block, populating Tags() and the
	// seek table used by Seek. Equivalent to Parse.
	ReadMetadata bool
	// ReadVorbisComment parses only the VorbisComment block (if any) while
	// skipping every other non-mandatory block by length. Ignored when
	// ReadMetadata is set.
	ReadVorbisComment bool
}

// New opens r as a FLAC bitstream, parsing only the mandatory StreamInfo
// block and skipping every other metadata block by length. This is the
// fast path for callers that only want audio samples.
func New(r io.Reader) (*Stream, error) {
	return NewExt(r, OpenOptions{})
}

// Parse opens r as a FLAC bitstream and parses every metadata block,
// populating Tags() and the internal seek table used by Seek.
func Parse(r io.Reader) (*Stream, error) {
	return NewExt(r, OpenOptions{ReadMetadata: true})
}

// NewSeek is Parse for a source whose type already guarantees seeking, so
// Seek is always enabled. New, Parse and NewExt enable Seek in the same way
// whenever their source implements io.ReadSeeker.
func NewSeek(rs io.ReadSeeker) (*Stream, error) {
	return NewExt(rs, OpenOptions{ReadMetadata: true})
}

// NewExt opens r as a FLAC bitstream under the given options, the Go
// analogue of the original's open_ext: a single entry point that trades
// off metadata thoroughness against the cost of reading it.
func NewExt(r io.Reader, opts OpenOptions) (*Stream, error) {
	return newStream(r, opts)
}

func newStream(r io.Reader, opts OpenOptions) (*Stream, error) {
	s := &Stream{}
	if rs, ok := r.(io.ReadSeeker); ok {
		s.seeker = bufseekio.NewReadSeeker(rs)
		s.byteSrc = s.seeker
	} else {
		s.byteSrc = bufio.NewReader(r)
	}

	if err := rejectID3v2(s.byteSrc); err != nil {
		return nil, err
	}

	var sig [4]byte
	if _, err := io.ReadFull(s.byteSrc, sig[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, err
	}
	if string(sig[:]) != magic {
		return nil, ferror.Newf("invalid stream signature %q", sig)
	}

	if err := s.parseMetadata(opts); err != nil {
		return nil, err
	}

	if s.seeker != nil {
		pos, err := s.seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		s.dataStart = pos
	}

	s.br = bits.NewReader(s.byteSrc)
	return s, nil
}

// parseMetadata reads the StreamInfo block (mandatory, first) and then
// parses or skips every following metadata block according to opts.
func (s *Stream) parseMetadata(opts OpenOptions) error {
	first, err := meta.NewBlock(s.byteSrc)
	if err != nil {
		return err
	}
	if first.Header.BlockType != meta.TypeStreamInfo {
		return ferror.Newf("first metadata block has type %v, want stream info", first.Header.BlockType)
	}
	if err := first.Parse(); err != nil {
		return err
	}
	s.info = first.Body.(*meta.StreamInfo)

	isLast := first.Header.IsLast
	for !isLast {
		block, err := meta.NewBlock(s.byteSrc)
		if err != nil {
			return err
		}
		isLast = block.Header.IsLast

		switch block.Header.BlockType {
		case meta.TypeVorbisComment:
			if opts.ReadMetadata || opts.ReadVorbisComment {
				if err := block.Parse(); err != nil {
					return err
				}
				s.tags = block.Body.(*meta.VorbisComment)
				continue
			}
		case meta.TypeSeekTable:
			if opts.ReadMetadata {
				if err := block.Parse(); err != nil {
					return err
				}
				s.seekTable = block.Body.(*meta.SeekTable)
				continue
			}
		default:
			if opts.ReadMetadata {
				if err := block.Parse(); err != nil {
					return err
				}
				continue
			}
		}
		if err := block.Skip(); err != nil {
			return err
		}
	}
	return nil
}

// StreamInfo returns the stream's mandatory StreamInfo metadata block.
func (s *Stream) StreamInfo() *meta.StreamInfo {
	return s.info
}

// Tags returns the stream's Vorbis comment block, or nil if it has none or
// the stream was opened with New instead of Parse.
func (s *Stream) Tags() *meta.VorbisComment {
	return s.tags
}

// EnableMD5 starts accumulating an MD5 hash of every decoded sample, for
// comparison against StreamInfo().MD5sum. It has no effect on decoding
// itself; the core never rejects a stream on a mismatch.
func (s *Stream) EnableMD5() {
	s.md5sum = md5.New()
}

// MD5Sum returns the MD5 hash accumulated so far, or the zero value if
// EnableMD5 was never called.
func (s *Stream) MD5Sum() [16]byte {
	var sum [16]byte
	if s.md5sum == nil {
		return sum
	}
	copy(sum[:], s.md5sum.Sum(nil))
	return sum
}

// hasMoreBytes reports whether at least one more byte is available from
// byteSrc, without consuming it, distinguishing a clean end of stream from
// an error encountered while decoding a frame that was expected to be
// complete.
func (s *Stream) hasMoreBytes() (bool, error) {
	if p, ok := s.byteSrc.(peeker); ok {
		if _, err := p.Peek(1); err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
	if s.seeker != nil {
		var buf [1]byte
		n, err := s.seeker.Read(buf[:])
		if n == 1 {
			if _, serr := s.seeker.Seek(-1, io.SeekCurrent); serr != nil {
				return false, serr
			}
			return true, nil
		}
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// poison records err as the stream's sticky error and returns it.
func (s *Stream) poison(err error) error {
	if s.err == nil {
		s.err = err
	}
	return s.err
}

// NextBlock decodes and returns the next audio frame as a Block. It
// returns io.EOF at a clean end of stream.
func (s *Stream) NextBlock() (*Block, error) {
	if s.err != nil {
		return nil, s.err
	}

	more, err := s.hasMoreBytes()
	if err != nil {
		return nil, s.poison(err)
	}
	if !more {
		return nil, s.poison(io.EOF)
	}

	fr, err := frame.Decode(s.br, s.info)
	if err != nil {
		return nil, s.poison(err)
	}

	if s.info.SampleCount != 0 && s.samplesDecoded+uint64(fr.BlockSize) > s.info.SampleCount {
		return nil, s.poison(ferror.Newf("decoded sample count exceeds declared stream sample count %d", s.info.SampleCount))
	}

	s.fillBlock(fr)
	s.samplesDecoded += uint64(fr.BlockSize)

	if s.md5sum != nil {
		writeLittleEndianSamples(s.md5sum, &s.block)
	}

	return &s.block, nil
}

// fillBlock copies fr's decoded channel planes into s.block's recycled,
// zero-filled buffer.
func (s *Stream) fillBlock(fr *frame.Frame) {
	n := int(fr.BlockSize) * len(fr.Samples)
	if cap(s.block.Samples) < n {
		s.block.Samples = make([]int32, n)
	} else {
		s.block.Samples = s.block.Samples[:n]
		for i := range s.block.Samples {
			s.block.Samples[i] = 0
		}
	}
	for c, plane := range fr.Samples {
		copy(s.block.Samples[c*int(fr.BlockSize):], plane)
	}
	s.block.FirstSampleNum = frameFirstSample(fr, s)
	s.block.BlockSize = int(fr.BlockSize)
	s.block.ChannelCount = len(fr.Samples)
	s.block.BitsPerSample = int(s.info.BitsPerSample)
}

// frameFirstSample resolves the stream-relative first sample index of fr,
// accounting for the two blocking strategies: under a fixed block size the
// header carries a frame number, under a variable block size it carries
// the sample number directly.
func frameFirstSample(fr *frame.Frame, s *Stream) uint64 {
	if fr.HasFixedBlockSize {
		return fr.Num * uint64(s.info.BlockSizeMin)
	}
	return fr.Num
}
