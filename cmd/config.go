package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/config"
	"github.com/xmazu/envq/internal/storage"
	"github.com/xmazu/envq/internal/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the envq config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printLine(cmd.OutOrStdout(), config.ConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Long: `Write config.yaml with default settings to the config directory
($ENVQ_CONFIG_DIR or ~/.config/envq). An existing file is left alone.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigPath()
	if storage.NewYAMLFile(path).Exists() {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Default().Save(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), tui.Changed("Created", path))
	return nil
}
