package assetpack

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tidwall/jsonc"

	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// Read decodes a complete archive from r into a Pack.
//
// The decode order follows the on-disk layout: magic marker, version
// record, reserved region, file count, directory, payloads. A missing or
// wrong magic marker is tolerated with a warning because some producers
// emit archives without it; every other structural problem is fatal.
// Payloads are consumed in ascending offset order regardless of the order
// the directory listed them in.
func Read(r io.ReadSeeker, opts Options) (*Pack, error) {
	logger := opts.logger()

	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncated, err, "read magic marker")
	}
	if m != Magic {
		logger.Warn("first bytes do not indicate an asset pack; attempting to decode anyway")
	}
	// Decoding resumes at the fixed post-marker offset either way.
	if _, err := r.Seek(int64(len(Magic)), io.SeekStart); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncated, err, "seek past magic marker")
	}

	version, err := readVersion(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncated, err, "read engine version")
	}

	if _, err := io.CopyN(io.Discard, r, reservedSize); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncated, err, "skip reserved region")
	}

	count, err := readInt32(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncated, err, "read file count")
	}
	if count < 0 {
		return nil, errors.New(errors.ErrCodeCorruptDirectory, "negative file count %d", count)
	}

	entries := make([]fileEntry, 0, count)
	for i := int32(0); i < count; i++ {
		entry, err := readFileEntry(r)
		if err != nil {
			return nil, fmt.Errorf("read directory entry %d of %d: %w", i+1, count, err)
		}
		logger.Debug("directory entry", "path", entry.path, "offset", entry.offset, "size", entry.size)
		entries = append(entries, entry)
	}

	// Directory order is not guaranteed to match stream order.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].offset < entries[j].offset })

	pack := New()
	pack.Version = version
	metaFound := false

	for _, entry := range entries {
		if _, err := r.Seek(entry.offset, io.SeekStart); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTruncated, err, "seek to payload of %s", entry.path)
		}
		data := make([]byte, entry.size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTruncated, err, "read payload of %s (%d bytes)", entry.path, entry.size)
		}

		switch {
		case isRootMetaFile(entry.path):
			meta, err := decodeMeta(data, logger)
			if err != nil {
				return nil, err
			}
			pack.Meta = meta
			metaFound = true
		case isTagsFile(entry.path):
			tags, err := decodeTags(data, logger)
			if err != nil {
				return nil, err
			}
			pack.Tags = tags
		case isPackFile(entry.path):
			// In-namespace duplicate of the root metadata document;
			// decoded once via the root entry, discarded here.
		case isObjectFile(entry.path):
			pack.ObjectFiles[entry.path] = data
		default:
			pack.OtherFiles[entry.path] = data
		}
	}

	if !metaFound {
		return nil, errors.New(errors.ErrCodeMissingMetadata, "archive contains no pack metadata document")
	}

	return pack, nil
}

// decodeMeta parses the pack metadata document. The documents are routinely
// hand-edited, so parsing is tolerant of comments and trailing commas; on
// failure the raw text is dumped to the logger for human diagnosis before
// the error is returned.
func decodeMeta(data []byte, logger *log.Logger) (PackMeta, error) {
	var meta PackMeta
	if err := json.Unmarshal(jsonc.ToJSON(data), &meta); err != nil {
		dumpDocument(logger, data)
		return PackMeta{}, errors.Wrap(errors.ErrCodeMalformedMetadata, err, "parse pack metadata document")
	}
	return meta, nil
}

// decodeTags parses the tag index document, with the same tolerance and
// diagnostics as decodeMeta.
func decodeTags(data []byte, logger *log.Logger) (TagIndex, error) {
	var tags TagIndex
	if err := json.Unmarshal(jsonc.ToJSON(data), &tags); err != nil {
		dumpDocument(logger, data)
		return TagIndex{}, errors.Wrap(errors.ErrCodeMalformedTags, err, "parse tag index document")
	}
	tags.ensureMaps()
	return tags, nil
}

func dumpDocument(logger *log.Logger, data []byte) {
	logger.Infof("offending document:\n```\n%s\n```", data)
}
