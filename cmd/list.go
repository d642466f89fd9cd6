package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/envfile"
	"github.com/xmazu/envq/internal/tui"
	"github.com/xmazu/envq/internal/watch"
)

var listCmd = &cobra.Command{
	Use:   "list [keys|values] [FILE]",
	Short: "List keys or KEY=value pairs",
	Long: `List every assignment in file order. "values" (the default) prints
KEY=value with the value decoded; "keys" prints key names only.

With --watch the list is printed again each time FILE changes, until
interrupted.

Examples:
  envq list .env
  envq list keys .env
  envq list values --json .env
  envq list keys --watch .env.local`,
	Args: cobra.ArbitraryArgs,
	RunE: runList,
}

var (
	listJSON  bool
	listWatch bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print a JSON array")
	listCmd.Flags().BoolVarP(&listWatch, "watch", "w", false, "Print again whenever FILE changes")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	mode, file, err := parseListArgs(args)
	if err != nil {
		return err
	}

	if listWatch {
		if file == "" {
			return errors.New("--watch needs a FILE argument")
		}
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()
		return watchList(ctx, cmd, mode, file)
	}

	doc, err := readDocument(cmd, file)
	if err != nil {
		return err
	}
	return printList(cmd.OutOrStdout(), doc, mode)
}

type listedValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func printList(w io.Writer, doc *envfile.Document, mode listMode) error {
	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if mode == listKeys {
			return enc.Encode(doc.Keys())
		}
		values := make([]listedValue, 0)
		for _, kv := range doc.Values() {
			values = append(values, listedValue{Key: kv.Key, Value: kv.Value})
		}
		return enc.Encode(values)
	}

	if mode == listKeys {
		for _, key := range doc.Keys() {
			if err := printLine(w, key); err != nil {
				return err
			}
		}
		return nil
	}
	for _, kv := range doc.Values() {
		if err := printLine(w, kv.Key+"="+kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// watchList prints the list, then reprints it after every change to file.
// A change that leaves the file unparsable is reported and skipped.
func watchList(ctx context.Context, cmd *cobra.Command, mode listMode, file string) error {
	w, err := watch.NewFileWatcher(file, watch.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("watch %s: %w", file, err)
	}
	defer w.Close()
	logger.Debug("watching", slog.String("path", w.Path()))

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	show := func() error {
		doc, err := readDocument(cmd, file)
		if err != nil {
			logger.Warn("reload failed", slog.String("file", file), slog.Any("error", err))
			fmt.Fprintln(errOut, tui.Warning("!"), err)
			return nil
		}
		return printList(out, doc, mode)
	}

	if err := show(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-w.Changes():
			logger.Debug("file changed", slog.String("file", file))
			fmt.Fprintln(errOut, tui.Muted("--- "+time.Now().Format(time.TimeOnly)+" "+file))
			if err := show(); err != nil {
				return err
			}
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
