package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/audit"
	"github.com/xmazu/envq/internal/edit"
	"github.com/xmazu/envq/internal/envfile"
	"github.com/xmazu/envq/internal/tui"
)

var errNoInput = errors.New("missing file or stdin")

// readDocument parses file, or stdin when file is empty. An interactive
// stdin is refused rather than waited on.
func readDocument(cmd *cobra.Command, file string) (*envfile.Document, error) {
	if file != "" {
		return edit.Load(file)
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil, errNoInput
	}
	doc, err := envfile.ParseReader(in)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return doc, nil
}

// mutate applies fn to file in place, or to stdin with the result on stdout
// when file is empty.
func mutate(cmd *cobra.Command, file string, op audit.Op, key string, fn func(*envfile.Document) error) error {
	if file == "" {
		doc, err := readDocument(cmd, file)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		_, err = doc.WriteTo(cmd.OutOrStdout())
		return err
	}

	changed, err := edit.Apply(file, fn)
	if err != nil {
		return err
	}
	logger.Debug("applied", slog.String("op", string(op)), slog.String("file", file), slog.Bool("changed", changed))
	if !changed {
		return nil
	}

	recordChange(file, op, key)
	fmt.Fprintln(cmd.ErrOrStderr(), tui.Changed(describe(op, key), file))
	return nil
}

func recordChange(file string, op audit.Op, key string) {
	if !cfg.Audit {
		return
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		logger.Warn("audit log skipped", slog.String("file", file), slog.Any("error", err))
		return
	}
	opts := []audit.Option{audit.WithSource("cli"), audit.WithSessionID(sessionID)}
	if key != "" {
		opts = append(opts, audit.WithKey(key))
	}
	if err := audit.Log(filepath.Dir(abs), op, filepath.Base(abs), opts...); err != nil {
		logger.Warn("audit log failed", slog.String("file", file), slog.Any("error", err))
	}
}

func describe(op audit.Op, key string) string {
	key = tui.Key(key)
	switch op {
	case audit.OpSetKey:
		return "set " + key + " in"
	case audit.OpSetComment:
		return "set comment on " + key + " in"
	case audit.OpSetHeader:
		return "set header in"
	case audit.OpDelKey:
		return "deleted " + key + " from"
	case audit.OpDelComment:
		return "deleted comment on " + key + " from"
	case audit.OpDelHeader:
		return "deleted header from"
	}
	return string(op)
}

func printLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
