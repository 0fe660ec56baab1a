// Package cli implements the packsmith command-line interface.
//
// This package provides commands for inspecting, cleaning, unpacking, and
// rebuilding Dungeondraft asset pack archives, plus a small HTTP server for
// browsing a pack. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - info: Print archive metadata, version, and tag statistics
//   - clean: Prune dangling tag references and rewrite the archive
//   - unpack: Extract archive contents to a directory
//   - pack: Build an archive from a directory with a pack.toml manifest
//   - graph: Render the tag index as DOT, SVG, or PNG
//   - serve: Browse a pack over HTTP
//   - cache: Manage the rendered artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/packsmith-dev/packsmith/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packsmith-dev/packsmith/pkg/buildinfo"
	"github.com/packsmith-dev/packsmith/pkg/cache"
	"github.com/packsmith-dev/packsmith/pkg/pipeline"
)

const (
	// appName is the application name used for directories and display.
	appName = "packsmith"

	// packExtension is the archive file extension Dungeondraft expects.
	packExtension = ".dungeondraft_pack"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "packsmith",
		Short:        "Packsmith inspects and repairs Dungeondraft asset packs",
		Long:         `Packsmith is a CLI tool for working with Dungeondraft asset pack archives: inspect their contents, prune dangling tag references, unpack and rebuild them, and visualize the tag index.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.cleanCommand())
	root.AddCommand(c.unpackCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// newCache builds the artifact cache backend. With noCache set, or when no
// cache directory can be resolved, caching is disabled via the null backend.
func newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/packsmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
