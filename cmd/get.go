package cmd

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [key|comment|header] [KEY] [FILE]",
	Short: "Print a value, an inline comment or the header",
	Long: `Print the value of KEY, the inline comment after it, or the header
comment block at the top of the file.

A bare first argument is a key name: "envq get PORT" equals "envq get key PORT".
Values are printed decoded, without quotes or escapes. A key without a
comment prints nothing.

Examples:
  envq get DATABASE_URL .env
  envq get comment PORT .env
  envq get header .env
  cat .env | envq get PORT`,
	Args: cobra.ArbitraryArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	sel, file, err := parseSelectorArgs("get", args)
	if err != nil {
		return err
	}
	doc, err := readDocument(cmd, file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch sel.target {
	case targetHeader:
		if header := doc.Header(); header != "" {
			return printLine(out, header)
		}
		return nil
	case targetComment:
		comment, ok, err := doc.Comment(sel.key)
		if err != nil || !ok {
			return err
		}
		return printLine(out, comment)
	default:
		value, err := doc.Get(sel.key)
		if err != nil {
			return err
		}
		return printLine(out, value)
	}
}
