package meta_test

import (
	"bytes"
	"testing"

	"github.com/mewkiz/flac/meta"
)

// blockHeaderBytes packs a metadata block header: 1-bit last flag, 7-bit
// type, 24-bit length.
func blockHeaderBytes(isLast bool, blockType meta.BlockType, length int) []byte {
	v := uint32(length) & 0x00FFFFFF
	if isLast {
		v |= 1 << 31
	}
	v |= uint32(blockType) << 24
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func TestBlockHeaderLengthCap(t *testing.T) {
	// Declared length one byte beyond the 10 MiB cap.
	buf := blockHeaderBytes(true, meta.TypePadding, meta.MaxBlockLength+1)
	if _, err := meta.NewBlockHeader(bytes.NewReader(buf)); err == nil {
		t.Fatal("expected an error for an oversized metadata block length, got nil")
	}
}

func TestBlockHeaderInvalidType(t *testing.T) {
	buf := blockHeaderBytes(true, 127, 0)
	if _, err := meta.NewBlockHeader(bytes.NewReader(buf)); err == nil {
		t.Fatal("expected an error for block type 127, got nil")
	}
}

func TestBlockHeaderReservedTypeIsSkippable(t *testing.T) {
	// Reserved types (7-126) are not rejected at the header level; the
	// caller is expected to Skip them.
	buf := blockHeaderBytes(false, 42, 4)
	h, err := meta.NewBlockHeader(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.IsLast {
		t.Errorf("IsLast = true, want false")
	}
	if h.Length != 4 {
		t.Errorf("Length = %d, want 4", h.Length)
	}
}

func streamInfoBody() []byte {
	// block_size_min=4096 block_size_max=4096 frame_size_min=0
	// frame_size_max=0 sample_rate=44100 channels=2(->1) bps=16(->15)
	// sample_count=0 md5=zero
	return []byte{
		0x10, 0x00, // block size min: 4096
		0x10, 0x00, // block size max: 4096
		0x00, 0x00, 0x00, // frame size min: 0
		0x00, 0x00, 0x00, // frame size max: 0
		// sample_rate(20) | channels-1(3) | bps-1(5) | sample_count(36) packed
		// sample_rate=44100, channels-1=1, bps-1=15, sample_count=0
		0x0A, 0xC4, 0x42, 0xF0, 0x00, 0x00, 0x00, 0x00,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // md5
	}
}

func TestNewStreamInfo(t *testing.T) {
	si, err := meta.NewStreamInfo(bytes.NewReader(streamInfoBody()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if si.BlockSizeMin != 4096 || si.BlockSizeMax != 4096 {
		t.Errorf("block size = [%d,%d], want [4096,4096]", si.BlockSizeMin, si.BlockSizeMax)
	}
	if si.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", si.SampleRate)
	}
	if si.ChannelCount != 2 {
		t.Errorf("ChannelCount = %d, want 2", si.ChannelCount)
	}
	if si.BitsPerSample != 16 {
		t.Errorf("BitsPerSample = %d, want 16", si.BitsPerSample)
	}
}

func TestVorbisCommentToleratesEmptyEntry(t *testing.T) {
	var buf bytes.Buffer
	writeU32le(&buf, 4)
	buf.WriteString("test")
	writeU32le(&buf, 2) // two comments
	writeU32le(&buf, 0) // empty entry
	writeU32le(&buf, uint32(len("TITLE=song")))
	buf.WriteString("TITLE=song")

	vc, err := meta.NewVorbisComment(&buf, buf.Len())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vc.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(vc.Entries))
	}
	if vc.Entries[0].Name != "" || vc.Entries[0].Value != "" {
		t.Errorf("empty entry decoded as %+v, want zero value", vc.Entries[0])
	}
	if vc.Entries[1].Name != "TITLE" || vc.Entries[1].Value != "song" {
		t.Errorf("entry = %+v, want {TITLE song}", vc.Entries[1])
	}
}

func TestVorbisCommentRejectsMalformedNonEmptyEntry(t *testing.T) {
	var buf bytes.Buffer
	writeU32le(&buf, 0)
	writeU32le(&buf, 1)
	writeU32le(&buf, uint32(len("no-equals-sign")))
	buf.WriteString("no-equals-sign")

	if _, err := meta.NewVorbisComment(&buf, buf.Len()); err == nil {
		t.Fatal("expected an error for a non-empty entry missing '=', got nil")
	}
}

func TestVorbisCommentRejectsOversizedCommentCount(t *testing.T) {
	// comment_count claims far more entries than 4 remaining bytes could
	// ever back, let alone allocate one VorbisEntry apiece for.
	var buf bytes.Buffer
	writeU32le(&buf, 0)          // vendor_length
	writeU32le(&buf, 0xFFFFFFFF) // comment_count
	if _, err := meta.NewVorbisComment(&buf, buf.Len()); err == nil {
		t.Fatal("expected an error for an oversized comment_count, got nil")
	}
}

func TestVerifyPaddingRejectsNonZero(t *testing.T) {
	if err := meta.VerifyPadding(bytes.NewReader([]byte{0, 0, 1, 0})); err == nil {
		t.Fatal("expected an error for non-zero padding, got nil")
	}
}

func TestVerifyPaddingAcceptsZero(t *testing.T) {
	if err := meta.VerifyPadding(bytes.NewReader([]byte{0, 0, 0, 0})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeU32le(buf *bytes.Buffer, x uint32) {
	buf.WriteByte(byte(x))
	buf.WriteByte(byte(x >> 8))
	buf.WriteByte(byte(x >> 16))
	buf.WriteByte(byte(x >> 24))
}
