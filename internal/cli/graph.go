package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/cache"
	"github.com/packsmith-dev/packsmith/pkg/errors"
	"github.com/packsmith-dev/packsmith/pkg/render/taggraph"
)

// Output formats for the graph command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// graphCommand creates the graph command for visualizing the tag index.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format    string
		output    string
		showFiles bool
		noCache   bool
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "graph [archive]",
		Short: "Render the tag index as DOT, SVG, or PNG",
		Long: `Render the tag index as DOT, SVG, or PNG.

Sets point at tags and tags point at object files; the graph makes
orphaned tags and unbalanced sets easy to spot. Rendered SVG and PNG
artifacts are cached by archive content hash, so re-rendering an
unchanged pack is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatDOT && format != formatSVG && format != formatPNG {
				return errors.New(errors.ErrCodeInvalidFormat,
					"invalid format: %q (must be one of: dot, svg, png)", format)
			}
			input, err := resolvePackPath(args[0])
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), input, format, output, showFiles, noCache, redisAddr)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: svg (default), png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: archive name with format extension; dot prints to stdout)")
	cmd.Flags().BoolVar(&showFiles, "show-files", false, "include a node per tagged object file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a Redis artifact cache at host:port")

	return cmd
}

// runGraph renders the tag graph, consulting the artifact cache for the
// rasterized formats.
func (c *CLI) runGraph(ctx context.Context, input, format, output string, showFiles, noCache bool, redisAddr string) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNotFound, err, "open %s", input)
	}

	pack, err := assetpack.Read(bytes.NewReader(raw), assetpack.Options{Logger: c.Logger})
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	dot := taggraph.ToDOT(pack.Tags, taggraph.Options{ShowFiles: showFiles})
	if format == formatDOT {
		if output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
			return err
		}
		printSuccess("Rendered tag graph (%s)", taggraph.Summary(pack.Tags))
		printFile(output)
		return nil
	}

	store, err := newCache(ctx, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	key := cache.ArtifactKey(cache.Hash(raw), cache.ArtifactKeyOpts{Format: format, ShowFiles: showFiles})

	var artifact []byte
	cached := false
	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		artifact = data
		cached = true
	}

	if artifact == nil {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
		spinner.Start()

		switch format {
		case formatSVG:
			artifact, err = taggraph.RenderSVG(dot)
		case formatPNG:
			artifact, err = taggraph.RenderPNG(dot)
		}
		if err != nil {
			spinner.StopWithError("Rendering failed")
			return err
		}
		spinner.Stop()

		if err := store.Set(ctx, key, artifact, cache.TTLArtifact); err != nil {
			c.Logger.Debug("cache artifact", "err", err)
		}
	}

	if output == "" {
		output = strings.TrimSuffix(input, packExtension) + "." + format
	}
	if err := os.WriteFile(output, artifact, 0o644); err != nil {
		return err
	}

	printSuccess("Rendered tag graph (%s)", taggraph.Summary(pack.Tags))
	printStats(pack.FileCount(), len(pack.Tags.Tags), cached)
	printFile(output)
	return nil
}
