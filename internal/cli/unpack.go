package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/errors"
)

// unpackCommand creates the unpack command for extracting an archive.
func (c *CLI) unpackCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unpack [archive]",
		Short: "Extract archive contents to a directory",
		Long: `Extract archive contents to a directory.

Every file in the archive is written under the output directory using its
archive-relative path. The pack metadata is written both as pack.json and
as a pack.toml manifest, so the extracted tree can be rebuilt with the
pack command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolvePackPath(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(input), packExtension)
			}

			pack, _, err := c.newRunner().ReadFile(cmd.Context(), input, loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			count, err := extractPack(pack, output)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Extracted %d files", count))

			printSuccess("Unpacked %s", pack.Meta.Name)
			printFile(output)
			printNextStep("Rebuild the archive", fmt.Sprintf("packsmith pack %s", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: archive name without extension)")

	return cmd
}

// extractPack writes the pack's contents under dir and returns the number
// of files written.
func extractPack(pack *assetpack.Pack, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	count := 0
	write := func(rel string, data []byte) error {
		dest, err := safeJoin(dir, rel)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
		count++
		return nil
	}

	meta, err := json.MarshalIndent(pack.Meta, "", "\t")
	if err != nil {
		return count, err
	}
	if err := write("pack.json", meta); err != nil {
		return count, err
	}

	tags, err := json.MarshalIndent(pack.Tags, "", "\t")
	if err != nil {
		return count, err
	}
	if err := write("data/default.dungeondraft_tags", tags); err != nil {
		return count, err
	}

	for _, rel := range sortedKeys(pack.ObjectFiles) {
		if err := write(rel, pack.ObjectFiles[rel]); err != nil {
			return count, err
		}
	}
	for _, rel := range sortedKeys(pack.OtherFiles) {
		if err := write(rel, pack.OtherFiles[rel]); err != nil {
			return count, err
		}
	}

	manifestPath, err := safeJoin(dir, manifestFileName)
	if err != nil {
		return count, err
	}
	if err := writeManifest(manifestPath, manifestFromMeta(pack.Meta)); err != nil {
		return count, err
	}
	count++

	return count, nil
}

// safeJoin joins rel onto root and rejects paths that would escape it.
// Archive paths are untrusted input; a crafted "../" entry must not be able
// to write outside the output directory.
func safeJoin(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", errors.New(errors.ErrCodeInvalidInput, "absolute path in archive: %s", rel)
	}
	root = filepath.Clean(root)
	dest := filepath.Join(root, filepath.FromSlash(rel))
	if dest != root && !strings.HasPrefix(dest, root+string(filepath.Separator)) {
		return "", errors.New(errors.ErrCodeInvalidInput, "path escapes output directory: %s", rel)
	}
	return dest, nil
}
