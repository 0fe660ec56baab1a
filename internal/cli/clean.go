package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packsmith-dev/packsmith/pkg/pipeline"
)

// cleanCommand creates the clean command for pruning dangling tag references.
func (c *CLI) cleanCommand() *cobra.Command {
	var (
		output    string
		dryRun    bool
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "clean [archive]",
		Short: "Prune dangling tag references and rewrite the archive",
		Long: `Prune dangling tag references and rewrite the archive.

Tags referencing files that are not in the archive lose those references,
tags left without files are removed, sets referencing removed tags lose
those references, and sets left without tags are removed. The cleaned
archive is written next to the input with a "_clean" suffix unless
--output is given.

With --dry-run the archive is analyzed but nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolvePackPath(args[0])
			if err != nil {
				return err
			}
			if output == "" && !dryRun {
				output = defaultCleanOutput(input)
			}
			if dryRun {
				output = ""
			}

			result, err := c.newRunner().Execute(cmd.Context(), pipeline.Options{
				Input:     input,
				Output:    output,
				Clean:     true,
				Overwrite: overwrite,
				Logger:    c.Logger,
			})
			if err != nil {
				return err
			}

			stats := result.Stats.Cleaned
			if stats.Empty() {
				printSuccess("Tag index is already clean")
			} else {
				printSuccess("Cleaned tag index")
				printDetail("%d file references pruned", stats.FileRefs)
				printDetail("%d empty tags removed", stats.Tags)
				printDetail("%d tag references pruned", stats.TagRefs)
				printDetail("%d empty sets removed", stats.Sets)
			}
			printStats(result.Stats.FileCount, len(result.Pack.Tags.Tags), false)

			if dryRun {
				printInfo("Dry run, nothing written")
				return nil
			}
			printFile(output)
			printNextStep("Inspect the result", fmt.Sprintf("packsmith info %s", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: input with _clean suffix)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "analyze only, write nothing")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace the output file if it exists")

	return cmd
}

// defaultCleanOutput derives the output path from the input path.
// "pack.dungeondraft_pack" becomes "pack_clean.dungeondraft_pack".
func defaultCleanOutput(input string) string {
	if strings.HasSuffix(input, packExtension) {
		return strings.TrimSuffix(input, packExtension) + "_clean" + packExtension
	}
	return input + "_clean"
}
