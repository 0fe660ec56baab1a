// Package pipeline provides the core processing pipeline for Packsmith.
//
// This package implements the complete read → clean → write cycle that can
// be used by CLI and server components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Decode an asset pack archive into its in-memory model
//  2. Clean: Prune dangling references from the tag index
//  3. Write: Re-encode the model as a byte-exact archive
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Input:  "example.dungeondraft_pack",
//	    Output: "example_clean.dungeondraft_pack",
//	    Clean:  true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Cleaned.Tags, "empty tags removed")
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
)

// Options contains all configuration for the processing pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the path of the archive to read.
	Input string `json:"input"`

	// Output is the path the processed archive is written to. Empty means
	// the pipeline stops after the clean stage (dry run).
	Output string `json:"output,omitempty"`

	// Clean prunes dangling tag references before writing.
	Clean bool `json:"clean,omitempty"`

	// Overwrite allows Output to replace an existing file.
	Overwrite bool `json:"overwrite,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if o.Output != "" && o.Output == o.Input {
		return fmt.Errorf("output path must differ from input path")
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pack is the decoded archive model, after cleaning if requested.
	Pack *assetpack.Pack

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FileCount    int
	BytesRead    int64
	BytesWritten int64
	Cleaned      assetpack.CleanStats
	ReadTime     time.Duration
	CleanTime    time.Duration
	WriteTime    time.Duration
}
