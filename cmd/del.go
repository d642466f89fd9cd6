package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/audit"
	"github.com/xmazu/envq/internal/envfile"
)

var delCmd = &cobra.Command{
	Use:   "del [key|comment|header] [KEY] [FILE]",
	Short: "Delete a key, an inline comment or the header",
	Long: `Delete the line assigning KEY, only the inline comment after it, or the
header comment block. Deleting a comment that does not exist is not an error.

Examples:
  envq del LEGACY_TOKEN .env
  envq del comment PORT .env
  envq del header .env`,
	Aliases: []string{"delete", "rm"},
	Args:    cobra.ArbitraryArgs,
	RunE:    runDel,
}

func init() {
	rootCmd.AddCommand(delCmd)
}

func runDel(cmd *cobra.Command, args []string) error {
	sel, file, err := parseSelectorArgs("del", args)
	if err != nil {
		return err
	}

	switch sel.target {
	case targetHeader:
		return mutate(cmd, file, audit.OpDelHeader, "", func(doc *envfile.Document) error {
			doc.DeleteHeader()
			return nil
		})
	case targetComment:
		return mutate(cmd, file, audit.OpDelComment, sel.key, func(doc *envfile.Document) error {
			return doc.DeleteComment(sel.key)
		})
	default:
		return mutate(cmd, file, audit.OpDelKey, sel.key, func(doc *envfile.Document) error {
			return doc.Delete(sel.key)
		})
	}
}
