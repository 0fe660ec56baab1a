package assetpack

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// rawFile is an absolute-path payload used to synthesize archives by hand.
type rawFile struct {
	path string
	data []byte
}

// buildRawArchive assembles archive bytes directly, bypassing Pack.Write,
// so reader tests do not depend on the writer.
func buildRawArchive(t *testing.T, version GodotVersion, files []rawFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(Magic[:])
	binary.Write(&buf, binary.LittleEndian, version.Version)
	binary.Write(&buf, binary.LittleEndian, version.Major)
	binary.Write(&buf, binary.LittleEndian, version.Minor)
	binary.Write(&buf, binary.LittleEndian, version.Revision)
	buf.Write(make([]byte, reservedSize))
	binary.Write(&buf, binary.LittleEndian, int32(len(files)))

	offset := int64(headerSize)
	for _, f := range files {
		offset += int64(4 + len(f.path) + 8 + 8 + checksumSize)
	}
	for _, f := range files {
		buf.Write(encodeRawEntry(f.path, offset, int64(len(f.data)), 0))
		offset += int64(len(f.data))
	}
	for _, f := range files {
		buf.Write(f.data)
	}
	return buf.Bytes()
}

func samplePack() *Pack {
	pack := New()
	pack.Version = GodotVersion{Version: 1, Major: 3, Minor: 2, Revision: 1}
	pack.Meta = PackMeta{
		Name:    "example_pack",
		ID:      "8UWKyQPf",
		Version: "0.2",
		Author:  "megasploot",
		CustomColorOverrides: &ColorOverrides{
			Enabled:    true,
			MinRedness: 0.1, MinSaturation: 0.2, RedTolerance: 0.05,
		},
	}
	pack.ObjectFiles["textures/objects/sample_barrel.png"] = []byte("barrel-bytes")
	pack.ObjectFiles["textures/objects/sample_cauldron.png"] = []byte("cauldron-bytes")
	pack.OtherFiles["textures/walls/sample_wall.png"] = []byte("wall-bytes")
	pack.OtherFiles["data/walls/sample_wall.dungeondraft_wall"] = []byte(`{"color":"ffffff"}`)
	pack.Tags.Tags["Containers"] = NewStringSet(
		"textures/objects/sample_barrel.png",
		"textures/objects/sample_cauldron.png",
	)
	pack.Tags.Sets["Props"] = NewStringSet("Containers")
	return pack
}

func TestWriteReadRoundTrip(t *testing.T) {
	pack := samplePack()

	var buf bytes.Buffer
	if err := pack.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(bytes.NewReader(buf.Bytes()), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Version != pack.Version {
		t.Errorf("Version = %v, want %v", got.Version, pack.Version)
	}
	if !reflect.DeepEqual(got.Meta, pack.Meta) {
		t.Errorf("Meta = %+v, want %+v", got.Meta, pack.Meta)
	}
	if !reflect.DeepEqual(got.Tags, pack.Tags) {
		t.Errorf("Tags = %+v, want %+v", got.Tags, pack.Tags)
	}
	if !reflect.DeepEqual(got.ObjectFiles, pack.ObjectFiles) {
		t.Errorf("ObjectFiles = %v, want %v", keys(got.ObjectFiles), keys(pack.ObjectFiles))
	}
	if !reflect.DeepEqual(got.OtherFiles, pack.OtherFiles) {
		t.Errorf("OtherFiles = %v, want %v", keys(got.OtherFiles), keys(pack.OtherFiles))
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := samplePack().Write(&first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := samplePack().Write(&second); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("two writes of the same pack produced different bytes")
	}
}

func TestReadClassification(t *testing.T) {
	pack := samplePack()
	var buf bytes.Buffer
	if err := pack.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Neither metadata document nor its duplicate may leak into the maps.
	for path := range got.OtherFiles {
		if isPackFile(path) || isRootMetaFile(path) || isTagsFile(path) {
			t.Errorf("document %q leaked into OtherFiles", path)
		}
	}
	for path := range got.ObjectFiles {
		if !isObjectFile(path) {
			t.Errorf("non-object %q landed in ObjectFiles", path)
		}
		if _, dup := got.OtherFiles[path]; dup {
			t.Errorf("%q present in both ObjectFiles and OtherFiles", path)
		}
	}
}

func TestReadMissingTagDocument(t *testing.T) {
	// Archives with no object textures omit the tag document entirely.
	raw := buildRawArchive(t, GodotVersion{1, 3, 2, 1}, []rawFile{
		{path: "res://packs/abc.json", data: []byte(`{"name":"p","id":"abc","version":"1","author":"a"}`)},
		{path: "res://packs/abc/textures/walls/w.png", data: []byte("wall")},
	})

	pack, err := Read(bytes.NewReader(raw), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(pack.Tags.Tags) != 0 || len(pack.Tags.Sets) != 0 {
		t.Errorf("Tags = %+v, want empty index", pack.Tags)
	}
	if pack.Tags.Tags == nil || pack.Tags.Sets == nil {
		t.Error("tag index maps must be allocated even when the document is absent")
	}
}

func TestReadUnsortedDirectory(t *testing.T) {
	// Directory entries may arrive in any order; payloads are located by
	// offset. Swap the directory order and verify contents still match.
	meta := []byte(`{"name":"p","id":"abc","version":"1","author":"a"}`)
	blob := []byte("payload-bytes")

	var buf bytes.Buffer
	buf.Write(Magic[:])
	(GodotVersion{1, 0, 0, 0}).writeTo(&buf)
	buf.Write(make([]byte, reservedSize))
	writeInt32(&buf, 2)

	entryA := encodeRawEntry("res://packs/abc.json", 0, int64(len(meta)), 0)
	entryB := encodeRawEntry("res://packs/abc/other.bin", 0, int64(len(blob)), 0)
	start := int64(headerSize + len(entryA) + len(entryB))

	// Emit the blob's entry first, but place its payload after the metadata.
	buf.Write(encodeRawEntry("res://packs/abc/other.bin", start+int64(len(meta)), int64(len(blob)), 0))
	buf.Write(encodeRawEntry("res://packs/abc.json", start, int64(len(meta)), 0))
	buf.Write(meta)
	buf.Write(blob)

	pack, err := Read(bytes.NewReader(buf.Bytes()), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pack.Meta.ID != "abc" {
		t.Errorf("Meta.ID = %q, want abc", pack.Meta.ID)
	}
	if string(pack.OtherFiles["other.bin"]) != string(blob) {
		t.Errorf("other.bin = %q, want %q", pack.OtherFiles["other.bin"], blob)
	}
}

func TestReadBadMagicWarnsAndContinues(t *testing.T) {
	raw := buildRawArchive(t, GodotVersion{1, 3, 2, 1}, []rawFile{
		{path: "res://packs/abc.json", data: []byte(`{"name":"p","id":"abc","version":"1","author":"a"}`)},
	})
	copy(raw[:4], "XXXX")

	var logBuf bytes.Buffer
	pack, err := Read(bytes.NewReader(raw), Options{Logger: log.New(&logBuf)})
	if err != nil {
		t.Fatalf("Read should tolerate a bad magic marker, got %v", err)
	}
	if pack.Meta.ID != "abc" {
		t.Errorf("Meta.ID = %q, want abc", pack.Meta.ID)
	}
	if !strings.Contains(logBuf.String(), "attempting to decode anyway") {
		t.Errorf("expected a warning about the magic marker, log was: %s", logBuf.String())
	}
}

func TestReadMalformedMetadata(t *testing.T) {
	const doc = `{"name": "broken", "id": `
	raw := buildRawArchive(t, GodotVersion{1, 0, 0, 0}, []rawFile{
		{path: "res://packs/abc.json", data: []byte(doc)},
	})

	var logBuf bytes.Buffer
	_, err := Read(bytes.NewReader(raw), Options{Logger: log.New(&logBuf)})
	if err == nil {
		t.Fatal("expected error for malformed metadata")
	}
	if !errors.Is(err, errors.ErrCodeMalformedMetadata) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeMalformedMetadata)
	}
	if !strings.Contains(logBuf.String(), doc) {
		t.Error("raw document text should be dumped to the logger before the error returns")
	}
}

func TestReadTolerantJSONDocuments(t *testing.T) {
	// Hand-edited documents with comments and trailing commas must decode.
	meta := []byte(`{
		// edited by hand
		"name": "p",
		"id": "abc",
		"version": "1",
		"author": "a",
	}`)
	raw := buildRawArchive(t, GodotVersion{1, 0, 0, 0}, []rawFile{
		{path: "res://packs/abc.json", data: meta},
	})

	pack, err := Read(bytes.NewReader(raw), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if pack.Meta.Name != "p" || pack.Meta.ID != "abc" {
		t.Errorf("Meta = %+v", pack.Meta)
	}
}

func TestReadMissingMetadata(t *testing.T) {
	raw := buildRawArchive(t, GodotVersion{1, 0, 0, 0}, []rawFile{
		{path: "res://packs/abc/textures/walls/w.png", data: []byte("wall")},
	})

	_, err := Read(bytes.NewReader(raw), Options{})
	if err == nil {
		t.Fatal("expected error for archive without a metadata document")
	}
	if !errors.Is(err, errors.ErrCodeMissingMetadata) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeMissingMetadata)
	}
}

func TestReadTruncatedArchive(t *testing.T) {
	raw := buildRawArchive(t, GodotVersion{1, 0, 0, 0}, []rawFile{
		{path: "res://packs/abc.json", data: []byte(`{"name":"p","id":"abc","version":"1","author":"a"}`)},
	})

	// Chop inside the directory region.
	_, err := Read(bytes.NewReader(raw[:headerSize+5]), Options{})
	if err == nil {
		t.Fatal("expected error for truncated archive")
	}
	if !errors.Is(err, errors.ErrCodeTruncated) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeTruncated)
	}
}

func TestSniffMagic(t *testing.T) {
	ok, err := SniffMagic(bytes.NewReader(append(Magic[:], 0, 1, 2)))
	if err != nil || !ok {
		t.Errorf("SniffMagic(valid) = %v, %v", ok, err)
	}

	ok, err = SniffMagic(bytes.NewReader([]byte("not a pack at all")))
	if err != nil || ok {
		t.Errorf("SniffMagic(invalid) = %v, %v", ok, err)
	}
}

func TestVersionString(t *testing.T) {
	v := GodotVersion{Version: 1, Major: 3, Minor: 2, Revision: 1}
	if v.String() != "1.3.2.1" {
		t.Errorf("String() = %q, want 1.3.2.1", v.String())
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
