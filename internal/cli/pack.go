package cli

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// packCommand creates the pack command for building an archive from a
// source directory.
func (c *CLI) packCommand() *cobra.Command {
	var (
		output    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "pack [directory]",
		Short: "Build an archive from a directory",
		Long: `Build an archive from a directory.

The directory must contain a pack.toml manifest naming the pack. Files
under textures/objects/ become taggable object files; a
data/default.dungeondraft_tags document (plain JSON, comments and
trailing commas tolerated) becomes the tag index. pack.json is generated
from the manifest, so an existing one in the directory is ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			manifest, err := loadManifest(filepath.Join(dir, manifestFileName))
			if err != nil {
				return err
			}
			if output == "" {
				output = manifest.Name + packExtension
			}

			prog := newProgress(c.Logger)
			pack, err := buildPack(dir, manifest)
			if err != nil {
				return err
			}

			written, err := c.newRunner().WriteFile(cmd.Context(), pack, output, overwrite)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Packed %d files", pack.FileCount()))

			printSuccess("Built %s", pack.Meta.Name)
			printDetail("%d bytes", written)
			printStats(pack.FileCount(), len(pack.Tags.Tags), false)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <name>"+packExtension+")")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace the output file if it exists")

	return cmd
}

// buildPack walks dir and assembles an in-memory pack from its contents.
func buildPack(dir string, manifest Manifest) (*assetpack.Pack, error) {
	pack := assetpack.New()
	pack.Meta = manifest.Meta()

	root := os.DirFS(dir)
	err := fs.WalkDir(root, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch rel {
		case manifestFileName, "pack.json":
			// Regenerated from the manifest on write.
			return nil
		}

		data, err := fs.ReadFile(root, rel)
		if err != nil {
			return err
		}

		if rel == "data/default.dungeondraft_tags" {
			tags, err := parseTagDocument(data)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			pack.Tags = tags
			return nil
		}

		pack.AddFile(rel, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pack, nil
}

// parseTagDocument decodes a tag index document from disk. Hand-edited
// documents often carry comments or trailing commas, so the bytes run
// through a JSONC pass before decoding.
func parseTagDocument(data []byte) (assetpack.TagIndex, error) {
	tags := assetpack.NewTagIndex()
	if err := json.Unmarshal(jsonc.ToJSON(data), &tags); err != nil {
		return tags, errors.Wrap(errors.ErrCodeMalformedTags, err, "decode tag index")
	}
	return tags, nil
}
