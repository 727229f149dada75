package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"household-ledger/internal/client"
	"household-ledger/internal/config"
	"household-ledger/internal/session"

	"github.com/spf13/cobra"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Household expense ledger",
		Long:          "Record household income and spending, browse history and print yearly reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log format (console, json)")

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.setupCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.tuiCmd(),
		a.txCmd(),
		a.memberCmd(),
		a.reportCmd(),
		versionCmd(),
	)

	return root
}

func (a *app) init(w io.Writer) error {
	a.cfg = config.LoadWithoutKeys()
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}

	logger, err := newLogger(w, a.logFormat, a.cfg.SlogLevel())
	if err != nil {
		return err
	}
	a.logger = logger
	slog.SetDefault(logger)

	return nil
}

func newLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "console", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

func (a *app) client() *client.Client {
	return client.New(a.cfg.Client.APIURL, a.cfg.Client.Timeout, a.logger)
}

func (a *app) sessions(api *client.Client) *session.Manager {
	return session.NewManager(api, session.NewFileStore(a.cfg.Client.StatePath), a.logger)
}

// signedIn restores the saved session and a client that sends its token.
func (a *app) signedIn() (*session.Session, *client.Client, error) {
	api := a.client()
	sess := a.sessions(api).Restore()
	if sess == nil {
		return nil, nil, errNotSignedIn
	}
	return sess, api.WithToken(sess.Token), nil
}

var errNotSignedIn = errors.New("not signed in; run 'ledger login' first")

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledger %s\n", version)
		},
	}
}
