package main

import (
	"log/slog"

	"household-ledger/internal/tui"

	"github.com/spf13/cobra"
)

func (a *app) tuiCmd() *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, api, err := a.signedIn()
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), api, sess, tui.Config{
				Timeout:        a.cfg.Client.Timeout,
				ExportDir:      exportDir,
				CurrencySymbol: a.cfg.Report.CurrencySymbol,
				// The alternate screen owns the terminal while the program runs.
				Logger: slog.New(slog.DiscardHandler),
			})
		},
	}

	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported reports")

	return cmd
}
