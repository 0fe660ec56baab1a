package assetpack

import (
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// pendingFile pairs a directory entry with the payload it describes while
// offsets are being assigned.
type pendingFile struct {
	entry fileEntry
	data  []byte
}

// Write encodes the pack as a fresh archive. Offsets are recomputed from
// scratch, the metadata document is synthesized twice (namespace root plus
// in-namespace pack.json, identical payloads, as the format demands), and
// the tag document is regenerated from the in-memory index. Entries are
// emitted in ascending offset order; object and other files are sorted by
// path so output is deterministic.
func (p *Pack) Write(w io.Writer) error {
	metaDoc, err := json.Marshal(p.Meta)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode pack metadata document")
	}
	tagsDoc, err := json.Marshal(p.Tags)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode tag index document")
	}

	prefix := resourcePrefix + packsPrefix + p.Meta.ID

	files := []pendingFile{
		{entry: newFileEntry(prefix+".json", len(metaDoc)), data: metaDoc},
		{entry: newFileEntry(prefix+"/"+packFileName, len(metaDoc)), data: metaDoc},
		{entry: newFileEntry(prefix+"/"+tagsFileName, len(tagsDoc)), data: tagsDoc},
	}
	for _, path := range slices.Sorted(maps.Keys(p.ObjectFiles)) {
		data := p.ObjectFiles[path]
		files = append(files, pendingFile{entry: newFileEntry(prefix+"/"+path, len(data)), data: data})
	}
	for _, path := range slices.Sorted(maps.Keys(p.OtherFiles)) {
		data := p.OtherFiles[path]
		files = append(files, pendingFile{entry: newFileEntry(prefix+"/"+path, len(data)), data: data})
	}

	// Payloads start right after the header and directory.
	offset := int64(headerSize)
	for i := range files {
		offset += int64(files[i].entry.encodedSize())
	}
	for i := range files {
		files[i].entry.offset = offset
		offset += files[i].entry.size
	}

	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := p.Version.writeTo(w); err != nil {
		return err
	}
	var reserved [reservedSize]byte
	if _, err := w.Write(reserved[:]); err != nil {
		return err
	}
	if err := writeInt32(w, int32(len(files))); err != nil {
		return err
	}

	for _, f := range files {
		if err := f.entry.writeTo(w); err != nil {
			return err
		}
	}
	for _, f := range files {
		if _, err := w.Write(f.data); err != nil {
			return err
		}
	}

	return nil
}
