package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/packsmith-dev/packsmith/pkg/assetpack"
	"github.com/packsmith-dev/packsmith/pkg/render/taggraph"
)

// infoCommand creates the info command for inspecting an archive.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		showFiles bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "info [archive]",
		Short: "Print archive metadata and tag statistics",
		Long: `Print archive metadata and tag statistics.

The info command decodes the archive directory and embedded JSON documents
without extracting any payloads. Pass a directory instead of a file to pick
an archive interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolvePackPath(args[0])
			if err != nil {
				return err
			}

			pack, _, err := c.newRunner().ReadFile(cmd.Context(), input, loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}

			if asJSON {
				return printInfoJSON(cmd.OutOrStdout(), pack)
			}

			printKeyValue("Name", pack.Meta.Name)
			printKeyValue("ID", pack.Meta.ID)
			printKeyValue("Version", pack.Meta.Version)
			printKeyValue("Author", pack.Meta.Author)
			printKeyValue("Godot", pack.Version.String())
			printKeyValue("Objects", fmt.Sprintf("%d", len(pack.ObjectFiles)))
			printKeyValue("Other files", fmt.Sprintf("%d", len(pack.OtherFiles)))
			printKeyValue("Tags", taggraph.Summary(pack.Tags))

			if showFiles {
				printNewline()
				for _, path := range sortedKeys(pack.ObjectFiles) {
					printFile(path)
				}
				for _, path := range sortedKeys(pack.OtherFiles) {
					printFile(path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFiles, "files", false, "list every file path in the archive")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON instead of styled output")

	return cmd
}

// infoView is the JSON shape emitted by "info --json".
type infoView struct {
	Meta     assetpack.PackMeta `json:"meta"`
	Godot    string             `json:"godot_version"`
	Files    int                `json:"file_count"`
	Objects  []string           `json:"object_files,omitempty"`
	Others   []string           `json:"other_files,omitempty"`
	TagCount int                `json:"tag_count"`
	SetCount int                `json:"set_count"`
}

func printInfoJSON(w io.Writer, pack *assetpack.Pack) error {
	view := infoView{
		Meta:     pack.Meta,
		Godot:    pack.Version.String(),
		Files:    pack.FileCount(),
		Objects:  sortedKeys(pack.ObjectFiles),
		Others:   sortedKeys(pack.OtherFiles),
		TagCount: len(pack.Tags.Tags),
		SetCount: len(pack.Tags.Sets),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// sortedKeys returns the keys of a payload map in sorted order.
func sortedKeys(m map[string][]byte) []string {
	return slices.Sorted(maps.Keys(m))
}
