// Package pkg provides the core libraries for Packsmith.
//
// # Overview
//
// Packsmith reads, repairs, and rewrites Dungeondraft asset pack archives.
// The pkg directory is organized by concern:
//
//  1. [assetpack] - The archive codec: binary read/write, embedded JSON
//     documents, and the tag-graph cleaner.
//  2. [pipeline] - Orchestration of the read → clean → write cycle.
//  3. [render/taggraph] - Tag-index visualization via Graphviz.
//  4. [cache] - Artifact caching (file, Redis, null backends).
//  5. [errors] - Structured error codes shared by library and CLI.
//
// # Quick Start
//
// Read an archive, prune dangling tag references, and write it back:
//
//	f, _ := os.Open("example.dungeondraft_pack")
//	pack, err := assetpack.Read(f, assetpack.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pack.CleanTags()
//
//	out, _ := os.Create("example_clean.dungeondraft_pack")
//	err = pack.Write(out)
//
// [assetpack]: https://pkg.go.dev/github.com/packsmith-dev/packsmith/pkg/assetpack
// [pipeline]: https://pkg.go.dev/github.com/packsmith-dev/packsmith/pkg/pipeline
// [render/taggraph]: https://pkg.go.dev/github.com/packsmith-dev/packsmith/pkg/render/taggraph
// [cache]: https://pkg.go.dev/github.com/packsmith-dev/packsmith/pkg/cache
// [errors]: https://pkg.go.dev/github.com/packsmith-dev/packsmith/pkg/errors
package pkg
