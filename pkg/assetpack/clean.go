package assetpack

// CleanStats summarizes what CleanTags removed.
type CleanStats struct {
	FileRefs int // file references pruned from tags
	Tags     int // tags dropped for becoming empty
	TagRefs  int // tag references pruned from sets
	Sets     int // sets dropped for becoming empty
}

// Empty reports whether the clean pass removed nothing.
func (s CleanStats) Empty() bool {
	return s == CleanStats{}
}

// CleanTags prunes dangling references from the tag index so it only
// mentions objects and tags that exist. Object payloads are never touched.
//
// The pass runs four phases in a fixed order, each completing before the
// next starts:
//
//  1. Remove file references that have no matching object file.
//  2. Drop tags whose file set is now empty.
//  3. Remove set members that are no longer tags. A tag emptied in phase 2
//     counts as nonexistent here, which is why the phases must not be
//     merged or reordered.
//  4. Drop sets whose member set is now empty.
//
// CleanTags is idempotent: running it twice yields the same index as
// running it once.
func (p *Pack) CleanTags() CleanStats {
	var stats CleanStats
	stats.FileRefs = pruneFileRefs(p.Tags.Tags, p.ObjectFiles)
	stats.Tags = dropEmptySets(p.Tags.Tags)
	stats.TagRefs = pruneTagRefs(p.Tags.Sets, p.Tags.Tags)
	stats.Sets = dropEmptySets(p.Tags.Sets)
	return stats
}

// pruneFileRefs removes every file reference from tags that does not exist
// in objects. Returns the number of references removed.
func pruneFileRefs(tags map[string]StringSet, objects map[string][]byte) int {
	removed := 0
	for _, files := range tags {
		for file := range files {
			if _, ok := objects[file]; !ok {
				files.Remove(file)
				removed++
			}
		}
	}
	return removed
}

// pruneTagRefs removes every member from sets that is not a key of tags.
// Returns the number of members removed.
func pruneTagRefs(sets map[string]StringSet, tags map[string]StringSet) int {
	removed := 0
	for _, members := range sets {
		for tag := range members {
			if _, ok := tags[tag]; !ok {
				members.Remove(tag)
				removed++
			}
		}
	}
	return removed
}

// dropEmptySets deletes every key of m whose set is empty. Returns the
// number of keys deleted.
func dropEmptySets(m map[string]StringSet) int {
	removed := 0
	for key, set := range m {
		if len(set) == 0 {
			delete(m, key)
			removed++
		}
	}
	return removed
}
