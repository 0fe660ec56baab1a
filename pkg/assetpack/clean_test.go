package assetpack

import (
	"reflect"
	"testing"
)

func TestCleanTags(t *testing.T) {
	const rockFile = "textures/objects/rock.png"

	pack := New()
	pack.ObjectFiles[rockFile] = []byte{}

	pack.Tags.Tags["rocks"] = NewStringSet(rockFile, "does_not_exist.jpg")
	pack.Tags.Tags["empty"] = NewStringSet()

	pack.Tags.Sets["empty"] = NewStringSet()
	pack.Tags.Sets["will_be_empty"] = NewStringSet("empty")
	pack.Tags.Sets["loses_one_tag"] = NewStringSet("rocks", "empty")

	stats := pack.CleanTags()

	if _, ok := pack.Tags.Tags["empty"]; ok {
		t.Error("empty tag should be removed")
	}
	rocks, ok := pack.Tags.Tags["rocks"]
	if !ok {
		t.Fatal("rocks tag should survive")
	}
	if len(rocks) != 1 || !rocks.Has(rockFile) {
		t.Errorf("rocks = %v, want only %q", rocks.Sorted(), rockFile)
	}

	if len(pack.Tags.Sets) != 1 {
		t.Fatalf("sets = %v, want only loses_one_tag", pack.Tags.Sets)
	}
	members, ok := pack.Tags.Sets["loses_one_tag"]
	if !ok {
		t.Fatal("loses_one_tag set should survive")
	}
	if len(members) != 1 || !members.Has("rocks") {
		t.Errorf("loses_one_tag = %v, want only rocks", members.Sorted())
	}

	want := CleanStats{FileRefs: 1, Tags: 1, TagRefs: 2, Sets: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

// A tag emptied by pruning must already count as nonexistent when set
// members are checked, even though it was only removed one phase earlier.
func TestCleanTagsPhaseOrdering(t *testing.T) {
	pack := New()
	pack.Tags.Tags["ghosts"] = NewStringSet("textures/objects/ghost.png")
	pack.Tags.Sets["spooky"] = NewStringSet("ghosts")

	pack.CleanTags()

	if len(pack.Tags.Tags) != 0 {
		t.Errorf("tags = %v, want empty (ghost.png has no object file)", pack.Tags.Tags)
	}
	if len(pack.Tags.Sets) != 0 {
		t.Errorf("sets = %v, want empty (ghosts tag was dropped)", pack.Tags.Sets)
	}
}

func TestCleanTagsIdempotent(t *testing.T) {
	build := func() *Pack {
		pack := New()
		pack.ObjectFiles["textures/objects/rock.png"] = []byte("png")
		pack.Tags.Tags["rocks"] = NewStringSet("textures/objects/rock.png", "gone.png")
		pack.Tags.Tags["hollow"] = NewStringSet("also_gone.png")
		pack.Tags.Sets["stuff"] = NewStringSet("rocks", "hollow")
		return pack
	}

	once := build()
	once.CleanTags()

	twice := build()
	twice.CleanTags()
	again := twice.CleanTags()

	if !again.Empty() {
		t.Errorf("second clean removed something: %+v", again)
	}
	if !reflect.DeepEqual(once.Tags, twice.Tags) {
		t.Errorf("clean twice = %+v, clean once = %+v", twice.Tags, once.Tags)
	}
}

func TestCleanTagsLeavesObjectsAlone(t *testing.T) {
	pack := New()
	pack.ObjectFiles["textures/objects/rock.png"] = []byte("payload")
	pack.Tags.Tags["stale"] = NewStringSet("missing.png")

	pack.CleanTags()

	if string(pack.ObjectFiles["textures/objects/rock.png"]) != "payload" {
		t.Error("clean must never touch object payloads")
	}
}
