// Package taggraph renders a pack's tag index as a graph.
//
// The tag index is a two-level mapping: sets point at tags, tags point at
// object files. [ToDOT] lays this out as a Graphviz digraph with one node
// rank per level; [RenderSVG] and [RenderPNG] rasterize the DOT source
// in-process using [github.com/goccy/go-graphviz].
package taggraph
