package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"household-ledger/internal/dto"
	"household-ledger/internal/models"
	"household-ledger/internal/report"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record, list and delete transactions",
	}
	cmd.AddCommand(a.txListCmd(), a.txAddCmd(), a.txDeleteCmd())
	return cmd
}

func (a *app) txListCmd() *cobra.Command {
	var (
		member string
		year   int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, api, err := a.signedIn()
			if err != nil {
				return err
			}

			memberFilter := ""
			if sess.IsAdmin() && member != "" {
				if strings.EqualFold(member, "all") {
					memberFilter = "all"
				} else {
					members, err := api.Members(cmd.Context())
					if err != nil {
						return a.remoteErr(cmd, err)
					}
					target, err := findMember(members, member)
					if err != nil {
						return err
					}
					memberFilter = target.ID.String()
				}
			}

			resp, err := api.Transactions(cmd.Context(), dto.TransactionQuery{
				MemberID: memberFilter,
				Year:     year,
				Limit:    limit,
			})
			if err != nil {
				return a.remoteErr(cmd, err)
			}

			out := cmd.OutOrStdout()
			if resp.Count == 0 {
				fmt.Fprintln(out, "No transactions yet. Record one with 'ledger tx add'.")
				return nil
			}

			format := report.NewFormatter(a.cfg.Report.CurrencySymbol)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			if sess.IsAdmin() {
				fmt.Fprintln(w, "ID\tDATE\tMEMBER\tCATEGORY\tAMOUNT\tDESCRIPTION")
			} else {
				fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
			}
			for _, t := range resp.Transactions {
				amount := format.Signed(t.Type, t.Amount)
				if sess.IsAdmin() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.TransactionDate, t.MemberName, t.CategoryName, amount, t.Description)
				} else {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.TransactionDate, t.CategoryName, amount, t.Description)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "member name or ID, or \"all\" (admins only)")
	cmd.Flags().IntVar(&year, "year", 0, "only this calendar year")
	cmd.Flags().IntVar(&limit, "limit", dto.DefaultHistoryLimit, "maximum rows")

	return cmd
}

func (a *app) txAddCmd() *cobra.Command {
	var (
		txType      string
		amount      string
		category    string
		description string
		date        string
		member      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a credit or debit",
		Long: `Record a credit (money in) or debit (money out).

Only categories that apply to the chosen type are offered. Transactions filed
under "Other" need a description. Admins may record on behalf of another
member with --member.`,
		Example: `  ledger tx add --type debit --amount 300 --category Food --description groceries
  ledger tx add --type credit --amount 1000 --member Ravi`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, api, err := a.signedIn()
			if err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			txType = strings.ToLower(strings.TrimSpace(txType))
			if txType == "" {
				if txType, err = prompt(in, out, "Type (credit/debit): "); err != nil {
					return err
				}
				txType = strings.ToLower(strings.TrimSpace(txType))
			}
			if !models.IsValidTransactionType(txType) {
				return fmt.Errorf("type must be credit or debit, got %q", txType)
			}

			if amount == "" {
				if amount, err = prompt(in, out, "Amount: "); err != nil {
					return err
				}
			}
			value, err := decimal.NewFromString(strings.TrimSpace(amount))
			if err != nil {
				return fmt.Errorf("amount %q is not a number", amount)
			}

			req := dto.CreateTransactionRequest{
				Type:            txType,
				Amount:          value,
				TransactionDate: date,
			}

			if member != "" {
				if !sess.IsAdmin() {
					return errors.New("only admins can record transactions for other members")
				}
				members, err := api.Members(cmd.Context())
				if err != nil {
					return a.remoteErr(cmd, err)
				}
				target, err := findMember(members, member)
				if err != nil {
					return err
				}
				req.MemberID = &target.ID
			}

			categories, err := api.Categories(cmd.Context(), txType)
			if err != nil {
				return a.remoteErr(cmd, err)
			}
			chosen, err := pickCategory(in, out, categories, category)
			if err != nil {
				return err
			}
			req.CategoryID = &chosen.ID

			description = strings.TrimSpace(description)
			if chosen.Name == models.CategoryOther && description == "" {
				if description, err = prompt(in, out, "Description (required for Other): "); err != nil {
					return err
				}
				description = strings.TrimSpace(description)
				if description == "" {
					return errors.New("a description is required for the Other category")
				}
			}
			req.Description = description

			created, err := api.CreateTransaction(cmd.Context(), req)
			if err != nil {
				return a.remoteErr(cmd, err)
			}

			format := report.NewFormatter(a.cfg.Report.CurrencySymbol)
			fmt.Fprintf(out, "Recorded %s %s on %s (%s)\n",
				chosen.Name, format.Signed(created.Type, created.Amount), created.TransactionDate, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "credit or debit")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, up to two decimal places")
	cmd.Flags().StringVar(&category, "category", "", "category name (prompted when omitted)")
	cmd.Flags().StringVar(&description, "description", "", "description, up to 200 characters")
	cmd.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&member, "member", "", "record for this member name or ID (admins only)")

	return cmd
}

func (a *app) txDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction ID %q", args[0])
			}

			_, api, err := a.signedIn()
			if err != nil {
				return err
			}

			if !force {
				ok, err := confirm(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), "Delete this transaction?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := api.DeleteTransaction(cmd.Context(), id); err != nil {
				return a.remoteErr(cmd, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Transaction deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

// pickCategory matches name case-insensitively, or lists the choices and
// asks for a number when name is empty.
func pickCategory(in *bufio.Reader, out io.Writer, categories []dto.CategoryResponse, name string) (dto.CategoryResponse, error) {
	if len(categories) == 0 {
		return dto.CategoryResponse{}, errors.New("no categories are available for this type")
	}

	if name != "" {
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
				return c, nil
			}
			names = append(names, c.Name)
		}
		return dto.CategoryResponse{}, fmt.Errorf("unknown category %q; choose one of: %s", name, strings.Join(names, ", "))
	}

	for i, c := range categories {
		fmt.Fprintf(out, "  %d) %s\n", i+1, c.Name)
	}
	answer, err := prompt(in, out, fmt.Sprintf("Category [1-%d]: ", len(categories)))
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(categories) {
		return dto.CategoryResponse{}, fmt.Errorf("choose a number between 1 and %d", len(categories))
	}
	return categories[n-1], nil
}

func confirm(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	answer, err := prompt(in, out, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
