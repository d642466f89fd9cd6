package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/audit"
	"github.com/xmazu/envq/internal/config"
	"github.com/xmazu/envq/internal/logging"
	"github.com/xmazu/envq/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:           "envq",
	Short:         "Query and edit .env files",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `envq reads and edits .env files the way jq and yq handle JSON and YAML.

Edits touch only the line they change: comments, blank lines, quoting and
ordering everywhere else are written back exactly as they were.

Without a FILE argument the document is read from stdin and edits are
written to stdout, so envq works in pipelines. With FILE, edits replace the
file atomically.

EXAMPLES:

  envq list keys .env
  envq get DATABASE_URL .env
  envq set PORT 9090 .env
  envq set comment PORT "http listener" .env
  envq set header "Local development settings" .env
  envq del key LEGACY_TOKEN .env
  cat .env | envq set DEBUG true > .env.debug`,
	PersistentPreRunE: setup,
}

var (
	logLevel   string
	forceAudit bool
	cfg        = config.Default()
	logger     = logging.Discard()
	sessionID  = audit.NewSessionID()
)

func init() {
	rootCmd.SetVersionTemplate("envq version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&forceAudit, "audit", false, "Record file edits in .envq/audit.jsonl even if disabled in config")
}

// SetVersion sets the version string shown by --version (e.g. from ldflags).
func SetVersion(v string) { rootCmd.Version = v }

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	if forceAudit {
		loaded.Audit = true
	}
	cfg = loaded
	logger = logging.New(cfg.Log, cmd.ErrOrStderr())
	logger.Debug("config loaded", slog.String("path", config.ConfigPath()), slog.Bool("audit", cfg.Audit))
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.Error("error:"), err)
		os.Exit(1)
	}
}
