package flac_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/mewkiz/flac"
)

// streamInfoBody packs a StreamInfo body: block size 192 (fixed), sample
// rate 44100, 1 channel, 8 bits per sample, 192 total samples (exactly one
// frame), zero MD5 (unchecked).
var streamInfoBody = []byte{
	0x00, 0xc0, 0x00, 0xc0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0a, 0xc4, 0x40, 0x70, 0x00, 0x00, 0x00, 0xc0, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// streamInfoHeaderLast is a metadata block header declaring StreamInfo (type 0)
// as the sole, last block, with streamInfoBody's 34 byte length.
var streamInfoHeaderLast = []byte{0x80, 0x00, 0x00, 0x22}

// constantFrameBytes is the same single-channel, 8-bit, 192-sample
// constant-value frame used by the frame package's own tests.
var constantFrameBytes = []byte{
	0xff, 0xf8, 0x10, 0x00, 0x00,
	0x28,
	0x00, 0x05,
	0x07, 0x8f,
}

func minimalStream() []byte {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	buf.Write(streamInfoHeaderLast)
	buf.Write(streamInfoBody)
	buf.Write(constantFrameBytes)
	return buf.Bytes()
}

func TestStreamDecodesOneFrame(t *testing.T) {
	s, err := flac.New(bytes.NewReader(minimalStream()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.StreamInfo().SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", s.StreamInfo().SampleRate)
	}

	block, err := s.NextBlock()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block.BlockSize != 192 || block.ChannelCount != 1 {
		t.Errorf("block = {%d, %d}, want {192, 1}", block.BlockSize, block.ChannelCount)
	}

	if _, err := s.NextBlock(); err != io.EOF {
		t.Fatalf("second NextBlock error = %v, want io.EOF", err)
	}
	// The stream stays poisoned with io.EOF rather than trying to read again.
	if _, err := s.NextBlock(); err != io.EOF {
		t.Fatalf("third NextBlock error = %v, want io.EOF", err)
	}
}

func TestStreamRejectsBadMagic(t *testing.T) {
	data := minimalStream()
	data[0] = 'x'
	if _, err := flac.New(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error for a bad stream signature, got nil")
	}
}

func TestStreamRejectsNonStreamInfoFirstBlock(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	// Padding (type 1) declared first and last, 4 zero bytes.
	buf.Write([]byte{0x81, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00})
	if _, err := flac.New(bytes.NewReader(buf.Bytes())); err == nil {
		t.Fatal("expected an error when StreamInfo is not the first block, got nil")
	}
}

func TestStreamRejectsID3v2Prefix(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ID3")
	buf.Write([]byte{0x03, 0x00, 0x00}) // version, flags
	buf.Write([]byte{0x00, 0x00, 0x00, 0x04}) // synchsafe size: 4 bytes
	buf.WriteString("tag!")
	buf.Write(minimalStream())

	_, err := flac.New(bytes.NewReader(buf.Bytes()))
	if err == nil {
		t.Fatal("expected an error for an ID3v2-prefixed stream, got nil")
	}
	if _, ok := err.(*flac.FormatError); !ok {
		t.Errorf("error = %T, want *flac.FormatError", err)
	}
}

func TestStreamTruncatedMidFrameIsUnexpectedEOF(t *testing.T) {
	data := minimalStream()
	data = data[:len(data)-3] // cut off inside the frame
	s, err := flac.New(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.NextBlock(); err != io.ErrUnexpectedEOF {
		t.Fatalf("NextBlock error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestStreamEnableMD5ProducesNonZeroHash(t *testing.T) {
	s, err := flac.New(bytes.NewReader(minimalStream()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.EnableMD5()
	if _, err := s.NextBlock(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := s.MD5Sum()
	var zero [16]byte
	if sum == zero {
		t.Error("MD5Sum() is all-zero after decoding a frame, want a real hash")
	}
}

func TestStreamSeek(t *testing.T) {
	s, err := flac.NewSeek(bytes.NewReader(minimalStream()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := s.Seek(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 0 {
		t.Errorf("Seek(100) = %d, want 0 (the only frame starts at sample 0)", first)
	}
	block, err := s.NextBlock()
	if err != nil {
		t.Fatalf("unexpected error decoding after seek: %v", err)
	}
	if block.BlockSize != 192 {
		t.Errorf("BlockSize = %d, want 192", block.BlockSize)
	}
}

func TestStreamSeekOnNonSeekableSourceFails(t *testing.T) {
	s, err := flac.New(onlyReader{bytes.NewReader(minimalStream())})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Seek(0); err != flac.ErrNoSeeker {
		t.Fatalf("Seek error = %v, want ErrNoSeeker", err)
	}
}

// onlyReader strips away any incidentally implemented io.Seeker so New sees
// a plain io.Reader.
type onlyReader struct {
	io.Reader
}

func TestStreamSamplesIteratesInterleavedOrder(t *testing.T) {
	s, err := flac.New(bytes.NewReader(minimalStream()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := s.Samples()
	for i := 0; i < 192; i++ {
		v, err := it.Next()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if v != 5 {
			t.Fatalf("sample %d = %d, want 5 (the constant subframe's value)", i, v)
		}
	}
	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("Next() past the last sample = %v, want io.EOF", err)
	}
}

func TestNewExtReadVorbisCommentOnly(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	// StreamInfo (not last).
	buf.Write([]byte{0x00, 0x00, 0x00, 0x22})
	buf.Write(streamInfoBody)
	// VorbisComment (last): vendor "" (4-byte length 0), 0 comments.
	buf.Write([]byte{0x84, 0x00, 0x00, 0x08})
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})

	s, err := flac.NewExt(bytes.NewReader(buf.Bytes()), flac.OpenOptions{ReadVorbisComment: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Tags() == nil {
		t.Fatal("Tags() = nil, want a parsed (empty) VorbisComment block")
	}
}
