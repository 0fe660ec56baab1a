package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, a discarding logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete read → clean → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{}

	// Stage 1: Read
	readStart := time.Now()
	pack, size, err := r.ReadFile(ctx, opts.Input, logger)
	if err != nil {
		return nil, err
	}
	result.Pack = pack
	result.Stats.ReadTime = time.Since(readStart)
	result.Stats.FileCount = pack.FileCount()
	result.Stats.BytesRead = size

	logger.Info("read archive",
		"path", opts.Input,
		"files", result.Stats.FileCount,
		"bytes", size,
		"duration", result.Stats.ReadTime)

	// Stage 2: Clean
	if opts.Clean {
		cleanStart := time.Now()
		result.Stats.Cleaned = pack.CleanTags()
		result.Stats.CleanTime = time.Since(cleanStart)

		logger.Info("cleaned tags",
			"file_refs", result.Stats.Cleaned.FileRefs,
			"tags", result.Stats.Cleaned.Tags,
			"tag_refs", result.Stats.Cleaned.TagRefs,
			"sets", result.Stats.Cleaned.Sets,
			"duration", result.Stats.CleanTime)
	}

	// Stage 3: Write
	if opts.Output != "" {
		writeStart := time.Now()
		written, err := r.WriteFile(ctx, pack, opts.Output, opts.Overwrite)
		if err != nil {
			return nil, err
		}
		result.Stats.WriteTime = time.Since(writeStart)
		result.Stats.BytesWritten = written

		logger.Info("wrote archive",
			"path", opts.Output,
			"bytes", written,
			"duration", result.Stats.WriteTime)
	}

	return result, nil
}

// ReadFile decodes the archive at path and returns the model and the number
// of bytes read.
func (r *Runner) ReadFile(ctx context.Context, path string, logger *log.Logger) (*assetpack.Pack, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "stat %s", path)
	}

	pack, err := assetpack.Read(f, assetpack.Options{Logger: logger})
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return pack, info.Size(), nil
}

// WriteFile encodes the pack to path and returns the number of bytes written.
// Unless overwrite is set, an existing file at path is an error.
func (r *Runner) WriteFile(ctx context.Context, pack *assetpack.Pack, path string, overwrite bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return 0, errors.New(errors.ErrCodeInvalidInput,
				"%s already exists (use overwrite to replace it)", path)
		}
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	counted := &countingWriter{w: w}
	if err := pack.Write(counted); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "flush %s", path)
	}
	return counted.n, f.Close()
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// countingWriter tracks how many bytes pass through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
