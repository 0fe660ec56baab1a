package assetpack

import (
	"io"

	"github.com/charmbracelet/log"
)

// Pack is the in-memory representation of one archive. A Pack is built
// fresh by every [Read] and owned exclusively by the caller for the
// duration of a read-modify-write cycle; the codec keeps no state between
// invocations.
type Pack struct {
	// Version is the engine version record from the archive header.
	Version GodotVersion

	// Meta is the pack metadata document.
	Meta PackMeta

	// Tags is the tag index. Empty (not nil) when the archive carries no
	// tag document.
	Tags TagIndex

	// ObjectFiles holds payloads under the textures/objects/ namespace,
	// keyed by normalized relative path.
	ObjectFiles map[string][]byte

	// OtherFiles holds every remaining payload except the metadata and
	// tag documents, keyed by normalized relative path.
	OtherFiles map[string][]byte
}

// New returns an empty Pack with all maps allocated.
func New() *Pack {
	return &Pack{
		Tags:        NewTagIndex(),
		ObjectFiles: make(map[string][]byte),
		OtherFiles:  make(map[string][]byte),
	}
}

// FileCount returns the number of asset payloads (object plus other files),
// excluding the synthesized metadata and tag documents.
func (p *Pack) FileCount() int {
	return len(p.ObjectFiles) + len(p.OtherFiles)
}

// AddFile stores data under the given archive-relative path, classifying it
// as an object file or other file by its prefix.
func (p *Pack) AddFile(path string, data []byte) {
	if isObjectFile(path) {
		p.ObjectFiles[path] = data
		return
	}
	p.OtherFiles[path] = data
}

// Options configures decoding.
type Options struct {
	// Logger receives decode diagnostics: the magic-mismatch warning and
	// raw document dumps when embedded JSON fails to parse. Nil discards
	// them.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// Magic is the 4-byte marker at the start of every archive ("GDPC").
var Magic = [4]byte{0x47, 0x44, 0x50, 0x43}

// reservedSize is the unspecified region between the version record and the
// file count. Its content must never be interpreted.
const reservedSize = 16 * 4

// headerSize is the fixed portion of the archive before the directory.
const headerSize = len(Magic) + versionSize + reservedSize + 4

// SniffMagic reports whether r starts with the archive magic marker.
// It consumes the first four bytes of r.
func SniffMagic(r io.Reader) (bool, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return false, err
	}
	return m == Magic, nil
}
