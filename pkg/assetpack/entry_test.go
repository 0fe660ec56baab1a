package assetpack

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// encodeRawEntry builds the on-disk form of a directory entry by hand so
// tests do not depend on the writer under test.
func encodeRawEntry(path string, offset, size int64, checksum byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(len(path)))
	buf.WriteString(path)
	binary.Write(&buf, binary.LittleEndian, offset)
	binary.Write(&buf, binary.LittleEndian, size)
	buf.Write(bytes.Repeat([]byte{checksum}, checksumSize))
	return buf.Bytes()
}

func TestReadFileEntry(t *testing.T) {
	raw := encodeRawEntry("res://X3DLFK/test/bla.txt", 12, 987, 0x0c)

	entry, err := readFileEntry(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("readFileEntry: %v", err)
	}

	if entry.path != "test/bla.txt" {
		t.Errorf("path = %q, want %q", entry.path, "test/bla.txt")
	}
	if entry.offset != 12 {
		t.Errorf("offset = %d, want 12", entry.offset)
	}
	if entry.size != 987 {
		t.Errorf("size = %d, want 987", entry.size)
	}
	for _, b := range entry.checksum {
		if b != 0x0c {
			t.Fatalf("checksum bytes should be preserved on read, got %v", entry.checksum)
		}
	}
}

func TestReadFileEntryInvalidUTF8(t *testing.T) {
	raw := encodeRawEntry("bad\xff\xfepath", 0, 0, 0)

	_, err := readFileEntry(bytes.NewReader(raw))
	if err == nil {
		t.Fatal("expected error for non-UTF-8 path")
	}
	if !errors.Is(err, errors.ErrCodeInvalidEncoding) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidEncoding)
	}
}

func TestReadFileEntryTruncated(t *testing.T) {
	raw := encodeRawEntry("res://packs/id/a.png", 64, 10, 0)

	// Cut the entry short at every possible point; all must fail cleanly.
	for cut := 1; cut < len(raw); cut++ {
		if _, err := readFileEntry(bytes.NewReader(raw[:cut])); err == nil {
			t.Errorf("expected error for entry truncated at byte %d", cut)
		}
	}
}

func TestFileEntryWriteRead(t *testing.T) {
	entry := newFileEntry("res://packs/id/textures/objects/rock.png", 42)
	entry.offset = 1234

	var buf bytes.Buffer
	if err := entry.writeTo(&buf); err != nil {
		t.Fatalf("writeTo: %v", err)
	}
	if buf.Len() != entry.encodedSize() {
		t.Errorf("encoded %d bytes, encodedSize() = %d", buf.Len(), entry.encodedSize())
	}

	got, err := readFileEntry(&buf)
	if err != nil {
		t.Fatalf("readFileEntry: %v", err)
	}
	if got.path != "textures/objects/rock.png" {
		t.Errorf("path = %q, want normalized relative path", got.path)
	}
	if got.offset != 1234 || got.size != 42 {
		t.Errorf("offset/size = %d/%d, want 1234/42", got.offset, got.size)
	}
	if got.checksum != [checksumSize]byte{} {
		t.Errorf("checksum slot should be written as zeros, got %v", got.checksum)
	}
}
