package assetpack

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// checksumSize is the width of the per-entry checksum slot. The slot is
// present for layout compatibility only: no producer is known to verify it
// and it is always written as zeros.
const checksumSize = 16

// fileEntry is one record of the archive directory. The path is stored
// normalized (relative, forward-slash, namespace segment stripped); offset
// and size describe the payload's location in the byte stream.
type fileEntry struct {
	path     string
	offset   int64
	size     int64
	checksum [checksumSize]byte
}

func newFileEntry(path string, size int) fileEntry {
	return fileEntry{path: path, size: int64(size)}
}

// readFileEntry decodes a single directory entry: an int32 length-prefixed
// UTF-8 path, int64 offset, int64 size, and the checksum slot. The path is
// normalized during decoding.
func readFileEntry(r io.Reader) (fileEntry, error) {
	pathLen, err := readInt32(r)
	if err != nil {
		return fileEntry{}, errors.Wrap(errors.ErrCodeTruncated, err, "read path length")
	}
	if pathLen < 0 {
		return fileEntry{}, errors.New(errors.ErrCodeCorruptDirectory, "negative path length %d", pathLen)
	}

	raw := make([]byte, pathLen)
	if _, err := io.ReadFull(r, raw); err != nil {
		return fileEntry{}, errors.Wrap(errors.ErrCodeTruncated, err, "read path (%d bytes)", pathLen)
	}
	if !utf8.Valid(raw) {
		return fileEntry{}, errors.New(errors.ErrCodeInvalidEncoding, "path is not valid UTF-8: %q", raw)
	}

	var e fileEntry
	e.path = normalizePath(string(raw))

	if e.offset, err = readInt64(r); err != nil {
		return fileEntry{}, errors.Wrap(errors.ErrCodeTruncated, err, "read offset")
	}
	if e.size, err = readInt64(r); err != nil {
		return fileEntry{}, errors.Wrap(errors.ErrCodeTruncated, err, "read size")
	}
	if e.size < 0 {
		return fileEntry{}, errors.New(errors.ErrCodeCorruptDirectory, "negative payload size %d for %s", e.size, e.path)
	}
	if _, err := io.ReadFull(r, e.checksum[:]); err != nil {
		return fileEntry{}, errors.Wrap(errors.ErrCodeTruncated, err, "read checksum slot")
	}

	return e, nil
}

// writeTo encodes the entry. The checksum slot is always emitted as zeros.
func (e fileEntry) writeTo(w io.Writer) error {
	if err := writeInt32(w, int32(len(e.path))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, e.path); err != nil {
		return err
	}
	if err := writeInt64(w, e.offset); err != nil {
		return err
	}
	if err := writeInt64(w, e.size); err != nil {
		return err
	}
	var zeros [checksumSize]byte
	if _, err := w.Write(zeros[:]); err != nil {
		return err
	}
	return nil
}

// encodedSize returns the entry's on-disk footprint: the path-length prefix,
// the path bytes, offset, size, and the checksum slot.
func (e fileEntry) encodedSize() int {
	return 4 + len(e.path) + 8 + 8 + checksumSize
}

func (e fileEntry) String() string {
	return fmt.Sprintf("%s (offset %d, %d bytes)", e.path, e.offset, e.size)
}
