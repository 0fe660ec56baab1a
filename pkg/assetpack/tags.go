package assetpack

import (
	"encoding/json"
	"maps"
	"slices"
)

// TagIndex is the two-level tag mapping stored in the archive's tag
// document: Tags maps a tag name to the object files carrying it, Sets
// groups tag names into named sets.
type TagIndex struct {
	Tags map[string]StringSet `json:"tags"`
	Sets map[string]StringSet `json:"sets"`
}

// NewTagIndex returns an empty tag index with both maps allocated.
func NewTagIndex() TagIndex {
	return TagIndex{
		Tags: make(map[string]StringSet),
		Sets: make(map[string]StringSet),
	}
}

// ensureMaps replaces nil maps with empty ones. JSON decoding of a document
// that omits "tags" or "sets" leaves the map nil; downstream code assumes
// both are usable.
func (t *TagIndex) ensureMaps() {
	if t.Tags == nil {
		t.Tags = make(map[string]StringSet)
	}
	if t.Sets == nil {
		t.Sets = make(map[string]StringSet)
	}
}

// StringSet is an unordered set of strings. It marshals to a sorted JSON
// array so encoded documents are deterministic.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given items.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item into the set.
func (s StringSet) Add(item string) {
	s[item] = struct{}{}
}

// Remove deletes item from the set.
func (s StringSet) Remove(item string) {
	delete(s, item)
}

// Has reports whether item is in the set.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Sorted returns the set's items in ascending order.
func (s StringSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewStringSet(items...)
	return nil
}
