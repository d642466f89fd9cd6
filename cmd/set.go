package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/audit"
	"github.com/xmazu/envq/internal/envfile"
	"github.com/xmazu/envq/internal/tui"
)

var setCmd = &cobra.Command{
	Use:   "set [key|comment|header] [KEY] VALUE [FILE]",
	Short: "Set a value, an inline comment or the header",
	Long: `Set the value of KEY, the inline comment after it, or the header comment
block. Existing keys keep their position, comment and quote style; new keys
are appended at the end. A multi-line header becomes one comment line per line.

With --prompt VALUE is read interactively instead of from the arguments, so
secrets stay out of shell history.

Examples:
  envq set PORT 9090 .env
  envq set comment PORT "http listener" .env
  envq set header "Local development settings" .env
  envq set --prompt API_TOKEN .env`,
	Args: cobra.ArbitraryArgs,
	RunE: runSet,
}

var setPrompt bool

func init() {
	setCmd.Flags().BoolVarP(&setPrompt, "prompt", "p", false, "Read VALUE from an interactive prompt (hidden for key values)")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	var (
		sel   selector
		value string
		file  string
		err   error
	)
	if setPrompt {
		sel, file, err = parseSelectorArgs("set", args)
		if err == nil && file == "" {
			// stdin cannot carry both the document and the answer
			err = fmt.Errorf("--prompt needs a FILE argument")
		}
		if err == nil {
			value, err = promptValue(sel)
		}
	} else {
		sel, value, file, err = parseSetArgs(args)
	}
	if err != nil {
		return err
	}

	switch sel.target {
	case targetHeader:
		return mutate(cmd, file, audit.OpSetHeader, "", func(doc *envfile.Document) error {
			doc.SetHeader(value)
			return nil
		})
	case targetComment:
		return mutate(cmd, file, audit.OpSetComment, sel.key, func(doc *envfile.Document) error {
			return doc.SetComment(sel.key, value)
		})
	default:
		return mutate(cmd, file, audit.OpSetKey, sel.key, func(doc *envfile.Document) error {
			return doc.Set(sel.key, value)
		})
	}
}

func promptValue(sel selector) (string, error) {
	switch sel.target {
	case targetHeader:
		return tui.PlaintextInput("Header")
	case targetComment:
		return tui.PlaintextInput(fmt.Sprintf("Comment for %s", sel.key))
	default:
		return tui.HiddenInput(fmt.Sprintf("Value for %s", sel.key))
	}
}
