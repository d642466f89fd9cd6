package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/tui"
	"github.com/xmazu/envq/internal/workspace"
)

var lsCmd = &cobra.Command{
	Use:   "ls [DIR]",
	Short: "Show the .env files of a workspace as a tree",
	Long: `Find .env and .env.* files and print them as a tree.

Without DIR the search starts at the workspace root (the nearest parent
holding go.work, pnpm-workspace.yaml, turbo.json, .git and similar).
Paths matched by the root .gitignore and dependency directories such as
node_modules are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	} else {
		wsRoot, err := workspace.FindRoot(root)
		if err != nil {
			return fmt.Errorf("detect workspace: %w", err)
		}
		root = wsRoot
	}

	paths, err := workspace.ListEnvFiles(root)
	if err != nil {
		return fmt.Errorf("list env files: %w", err)
	}
	logger.Debug("listed env files", slog.String("root", root), slog.Int("count", len(paths)))
	if len(paths) == 0 {
		return nil
	}

	out := cmd.OutOrStdout()
	label := root
	if marker := workspace.Marker(root); marker != "" {
		label += " " + tui.Muted("("+marker+")")
	}
	fmt.Fprintln(out, tui.Header(label))
	return workspace.PrintEnvTree(out, workspace.BuildEnvTree(paths))
}
