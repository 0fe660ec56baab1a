package taggraph

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
)

// Options configures tag-graph rendering.
type Options struct {
	// ShowFiles includes a node per tagged object file. Large packs tag
	// hundreds of textures, so file nodes are off by default.
	ShowFiles bool
}

// ToDOT converts a tag index to Graphviz DOT format. Sets are drawn as
// folder-shaped nodes, tags as rounded boxes, and (optionally) files as
// plain notes. Output is deterministic: nodes and edges are emitted in
// sorted order.
func ToDOT(tags assetpack.TagIndex, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tags {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, set := range slices.Sorted(maps.Keys(tags.Sets)) {
		fmt.Fprintf(&buf, "  %q [shape=folder, style=filled, fillcolor=lightyellow];\n", setNode(set))
	}
	for _, tag := range slices.Sorted(maps.Keys(tags.Tags)) {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box, style=\"rounded,filled\", fillcolor=white];\n", tagNode(tag), tag)
	}
	if opts.ShowFiles {
		for _, tag := range slices.Sorted(maps.Keys(tags.Tags)) {
			for _, file := range tags.Tags[tag].Sorted() {
				fmt.Fprintf(&buf, "  %q [label=%q, shape=note, fontsize=10];\n", fileNode(file), path.Base(file))
			}
		}
	}

	buf.WriteString("\n")
	for _, set := range slices.Sorted(maps.Keys(tags.Sets)) {
		for _, tag := range tags.Sets[set].Sorted() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", setNode(set), tagNode(tag))
		}
	}
	if opts.ShowFiles {
		for _, tag := range slices.Sorted(maps.Keys(tags.Tags)) {
			for _, file := range tags.Tags[tag].Sorted() {
				fmt.Fprintf(&buf, "  %q -> %q;\n", tagNode(tag), fileNode(file))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Node IDs are prefixed per level so a set and a tag sharing a name stay
// distinct nodes.
func setNode(name string) string  { return "set:" + name }
func tagNode(name string) string  { return "tag:" + name }
func fileNode(name string) string { return "file:" + name }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Summary returns a one-line description of graph size, used in CLI output.
func Summary(tags assetpack.TagIndex) string {
	files := assetpack.NewStringSet()
	for _, set := range tags.Tags {
		for file := range set {
			files.Add(file)
		}
	}
	parts := []string{
		fmt.Sprintf("%d sets", len(tags.Sets)),
		fmt.Sprintf("%d tags", len(tags.Tags)),
		fmt.Sprintf("%d tagged files", len(files)),
	}
	return strings.Join(parts, ", ")
}
