package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/audit"
	"github.com/xmazu/envq/internal/tui"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View and verify the edit log",
	Long: `View and verify the log of file edits.

When auditing is enabled (audit: true in config.yaml, or --audit) every
edit appends a line to .envq/audit.jsonl in the edited file's directory.
Lines record which key of which file changed, never values. Each line
carries the hash of the line before it, forming a tamper-evident chain.`,
}

var auditShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show recent log entries",
	Args:  cobra.NoArgs,
	RunE:  runAuditShow,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the log's hash chain",
	Long: `Check that each entry's prev_hash matches the hash of the entry before
it. Exits non-zero when the chain is broken.`,
	Args: cobra.NoArgs,
	RunE: runAuditVerify,
}

var (
	auditLastN   int
	auditWorkdir string
)

func init() {
	auditShowCmd.Flags().IntVarP(&auditLastN, "last", "n", 10, "Number of entries to show (0 for all)")
	auditCmd.PersistentFlags().StringVarP(&auditWorkdir, "workdir", "C", "", "Directory holding .envq/audit.jsonl (default: current)")

	auditCmd.AddCommand(auditShowCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	rootCmd.AddCommand(auditCmd)
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	entries, err := audit.Show(auditWorkdir, auditLastN)
	if err != nil {
		if errors.Is(err, audit.ErrNoAuditLog) {
			fmt.Fprintln(cmd.ErrOrStderr(), tui.Muted("No audit log found. Enable auditing with `audit: true` in config.yaml or --audit."))
			return nil
		}
		return fmt.Errorf("read audit log: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if entries == nil {
		entries = []audit.EntrySummary{}
	}
	return enc.Encode(entries)
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result, err := audit.Verify(auditWorkdir)
	if err != nil {
		if errors.Is(err, audit.ErrNoAuditLog) {
			fmt.Fprintln(cmd.ErrOrStderr(), tui.Muted("No audit log found."))
			return nil
		}
		return fmt.Errorf("verify audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Audit log: %d entries\n", result.TotalEntries)
	if len(result.Breaks) == 0 {
		fmt.Fprintln(out, tui.Success("✓")+" chain intact")
		return nil
	}
	return fmt.Errorf("chain broken at lines %v; the log may have been tampered with", result.Breaks)
}
