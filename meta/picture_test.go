package meta_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/mewkiz/flac/meta"
)

func picturePayload(picType uint32, mime, desc string, data []byte) []byte {
	var buf bytes.Buffer
	writeU32be(&buf, picType)
	writeU32be(&buf, uint32(len(mime)))
	buf.WriteString(mime)
	writeU32be(&buf, uint32(len(desc)))
	buf.WriteString(desc)
	writeU32be(&buf, 0) // width
	writeU32be(&buf, 0) // height
	writeU32be(&buf, 0) // color depth
	writeU32be(&buf, 0) // color count
	writeU32be(&buf, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func writeU32be(buf *bytes.Buffer, x uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], x)
	buf.Write(b[:])
}

func TestNewPicture(t *testing.T) {
	raw := picturePayload(3, "image/png", "cover", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	pic, err := meta.NewPicture(bytes.NewReader(raw), len(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pic.Type != 3 {
		t.Errorf("Type = %d, want 3", pic.Type)
	}
	if pic.MIME != "image/png" {
		t.Errorf("MIME = %q, want %q", pic.MIME, "image/png")
	}
	if pic.Desc != "cover" {
		t.Errorf("Desc = %q, want %q", pic.Desc, "cover")
	}
	if !bytes.Equal(pic.Data, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("Data = %x, want deadbeef", pic.Data)
	}
}

func TestNewPictureRejectsReservedType(t *testing.T) {
	raw := picturePayload(21, "image/png", "", nil)
	if _, err := meta.NewPicture(bytes.NewReader(raw), len(raw)); err == nil {
		t.Fatal("expected an error for a reserved picture type, got nil")
	}
}

func TestNewPictureRejectsNonPrintableMIME(t *testing.T) {
	raw := picturePayload(0, "im\x01ge", "", nil)
	if _, err := meta.NewPicture(bytes.NewReader(raw), len(raw)); err == nil {
		t.Fatal("expected an error for a non-printable MIME type, got nil")
	}
}

func TestNewPictureRejectsTruncatedData(t *testing.T) {
	raw := picturePayload(0, "image/png", "", []byte{0x01, 0x02})
	raw = raw[:len(raw)-1] // drop the last data byte
	if _, err := meta.NewPicture(bytes.NewReader(raw), len(raw)); err == nil {
		t.Fatal("expected an error for truncated picture data, got nil")
	}
}

func TestNewPictureRejectsOversizedMIMELength(t *testing.T) {
	// mime_length claims far more than the enclosing block has room for.
	var buf bytes.Buffer
	writeU32be(&buf, 0)          // type
	writeU32be(&buf, 0xFFFFFFFF) // mime_length
	if _, err := meta.NewPicture(bytes.NewReader(buf.Bytes()), buf.Len()); err == nil {
		t.Fatal("expected an error for an oversized mime_length, got nil")
	}
}
