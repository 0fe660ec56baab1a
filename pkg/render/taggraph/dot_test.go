package taggraph

import (
	"strings"
	"testing"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
)

func sampleIndex() assetpack.TagIndex {
	tags := assetpack.NewTagIndex()
	tags.Tags["Containers"] = assetpack.NewStringSet(
		"textures/objects/barrel.png",
		"textures/objects/crate.png",
	)
	tags.Tags["Plants"] = assetpack.NewStringSet("textures/objects/fern.png")
	tags.Sets["Props"] = assetpack.NewStringSet("Containers", "Plants")
	return tags
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleIndex(), Options{})

	for _, want := range []string{
		`"set:Props" [shape=folder`,
		`"tag:Containers" [label="Containers"`,
		`"set:Props" -> "tag:Containers";`,
		`"set:Props" -> "tag:Plants";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}

	// Files are excluded unless requested.
	if strings.Contains(dot, "barrel.png") {
		t.Error("file nodes should be omitted by default")
	}
}

func TestToDOTWithFiles(t *testing.T) {
	dot := ToDOT(sampleIndex(), Options{ShowFiles: true})

	for _, want := range []string{
		`"file:textures/objects/barrel.png" [label="barrel.png"`,
		`"tag:Containers" -> "file:textures/objects/barrel.png";`,
		`"tag:Plants" -> "file:textures/objects/fern.png";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDeterministic(t *testing.T) {
	if ToDOT(sampleIndex(), Options{ShowFiles: true}) != ToDOT(sampleIndex(), Options{ShowFiles: true}) {
		t.Error("DOT output should be deterministic across runs")
	}
}

func TestSummary(t *testing.T) {
	got := Summary(sampleIndex())
	if got != "1 sets, 2 tags, 3 tagged files" {
		t.Errorf("Summary = %q", got)
	}
}
