// Package assetpack reads and writes Dungeondraft asset pack archives.
//
// An asset pack is a Godot resource-pack style binary: a fixed header with a
// magic marker and engine version, a directory of variable-length file
// entries (path, offset, size, checksum slot), and the concatenated payload
// bytes. Two JSON documents are embedded alongside the asset payloads: the
// pack metadata (name, id, version, author) and the tag index that maps tag
// names to object textures and set names to tags.
//
// # Reading
//
// [Read] decodes a complete archive from a seekable source into a [Pack]:
//
//	f, _ := os.Open("example.dungeondraft_pack")
//	pack, err := assetpack.Read(f, assetpack.Options{Logger: logger})
//
// Payloads are classified by their normalized path. The pack-id namespace
// segment and the res://packs/ prefix are stripped during decoding, so a
// directory entry for res://packs/8UWKyQPf/textures/objects/rock.png becomes
// the object file textures/objects/rock.png.
//
// # Writing
//
// [Pack.Write] regenerates a self-consistent archive. All offsets are
// recomputed and the metadata document is stored twice (once at the
// namespace root, once as pack.json inside the namespace) because the
// format requires the duplication. Checksum slots are written as zeros;
// no known producer validates them.
//
// # Cleaning
//
// [Pack.CleanTags] prunes dangling references from the tag index: files that
// no longer exist, tags left empty, set members pointing at removed tags,
// and sets left empty, in that order.
package assetpack
