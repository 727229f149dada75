package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"household-ledger/internal/dto"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Printable reports",
	}
	cmd.AddCommand(a.reportExportCmd())
	return cmd
}

func (a *app) reportExportCmd() *cobra.Command {
	var (
		year   int
		member string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the yearly report as a printable HTML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, api, err := a.signedIn()
			if err != nil {
				return err
			}

			if year == 0 {
				year = time.Now().Year()
			}

			var buf bytes.Buffer
			name, err := api.ExportReport(cmd.Context(), dto.ReportQuery{Year: year, MemberID: member}, &buf)
			if err != nil {
				return err
			}
			if name == "" {
				name = fmt.Sprintf("household-ledger-%d.html", year)
			}

			path := filepath.Join(outDir, filepath.Base(name))
			if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s). Open it in a browser to print.\n",
				path, humanize.Bytes(uint64(buf.Len())))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "report year (default: current year)")
	cmd.Flags().StringVar(&member, "member", "", "member ID or \"all\" (admins only)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")

	return cmd
}
