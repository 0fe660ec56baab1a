package assetpack

import (
	"path"
	"strings"
)

// Fixed path conventions of the archive format. Every absolute path inside
// an archive has the shape res://packs/<pack-id>/<relative path>.
const (
	resourcePrefix = "res://"
	packsPrefix    = "packs/"

	// packFileName is the in-namespace duplicate of the root metadata
	// document. The format stores the metadata twice with identical
	// contents; the duplicate is dropped on read and regenerated on write.
	packFileName = "pack.json"

	// tagsFileName is the well-known location of the tag index document.
	tagsFileName = "data/default.dungeondraft_tags"

	// objectPrefix marks payloads that are paintable/taggable textures.
	objectPrefix = "textures/objects/"
)

// normalizePath converts an absolute archive path into the relative form
// used as map keys: the res:// and packs/ prefixes are stripped, then the
// leading pack-id segment is discarded. A path with no remaining separator
// has no namespace segment and is returned as-is.
func normalizePath(raw string) string {
	trimmed := strings.TrimPrefix(raw, resourcePrefix)
	trimmed = strings.TrimPrefix(trimmed, packsPrefix)
	if _, rest, ok := strings.Cut(trimmed, "/"); ok {
		return rest
	}
	return trimmed
}

// isRootMetaFile reports whether a normalized path is the pack metadata
// document: a .json file with no parent directory.
func isRootMetaFile(p string) bool {
	return !strings.Contains(p, "/") && path.Ext(p) == ".json"
}

// isPackFile reports whether a normalized path is the duplicate metadata
// document, regardless of its directory.
func isPackFile(p string) bool {
	return path.Base(p) == packFileName
}

// isTagsFile reports whether a normalized path is the tag index document.
func isTagsFile(p string) bool {
	return strings.HasSuffix(p, tagsFileName)
}

// isObjectFile reports whether a normalized path is an object texture.
func isObjectFile(p string) bool {
	return strings.HasPrefix(p, objectPrefix)
}
