package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"household-ledger/internal/client"
	"household-ledger/internal/dto"
	"household-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *app) memberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Manage household members (admins only)",
	}
	cmd.AddCommand(a.memberListCmd(), a.memberAddCmd(), a.memberResetPasswordCmd(), a.memberDeleteCmd())
	return cmd
}

func (a *app) memberListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List household members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, api, err := a.signedIn()
			if err != nil {
				return err
			}

			members, err := api.Members(cmd.Context())
			if err != nil {
				return a.remoteErr(cmd, err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE\tSINCE")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Role, m.CreatedAt.Format(models.DateLayout))
			}
			return w.Flush()
		},
	}
}

func (a *app) memberAddCmd() *cobra.Command {
	var (
		name     string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, api, err := a.signedIn()
			if err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			if name == "" {
				if name, err = prompt(in, cmd.OutOrStdout(), "Name: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}

			created, err := api.CreateMember(cmd.Context(), dto.CreateMemberRequest{
				Name:     strings.TrimSpace(name),
				Password: password,
				Role:     role,
			})
			if err != nil {
				return a.remoteErr(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", created.Name, created.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "member name, up to 50 characters")
	cmd.Flags().StringVar(&password, "password", "", "initial password, at least 4 characters")
	cmd.Flags().StringVar(&role, "role", models.RoleMember, "member or admin")

	return cmd
}

func (a *app) memberResetPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <name-or-id>",
		Short: "Set a new password for a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := a.signedIn()
			if err != nil {
				return err
			}

			members, err := api.Members(cmd.Context())
			if err != nil {
				return a.remoteErr(cmd, err)
			}
			target, err := findMember(members, args[0])
			if err != nil {
				return err
			}

			if password == "" {
				if password, err = prompt(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), "New password: "); err != nil {
					return err
				}
			}

			if err := api.ResetPassword(cmd.Context(), target.ID, password); err != nil {
				return a.remoteErr(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", target.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password, at least 4 characters")

	return cmd
}

func (a *app) memberDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete a member and all of their transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := a.signedIn()
			if err != nil {
				return err
			}

			members, err := api.Members(cmd.Context())
			if err != nil {
				return a.remoteErr(cmd, err)
			}
			target, err := findMember(members, args[0])
			if err != nil {
				return err
			}

			if !force {
				question := fmt.Sprintf("Delete %s and all of their transactions?", target.Name)
				ok, err := confirm(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := api.DeleteMember(cmd.Context(), target.ID); err != nil {
				return a.remoteErr(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", target.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

// findMember resolves ref as a member ID or a case-insensitive name.
func findMember(members []dto.MemberResponse, ref string) (dto.MemberResponse, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		for _, m := range members {
			if m.ID == id {
				return m, nil
			}
		}
	}
	for _, m := range members {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}
	return dto.MemberResponse{}, fmt.Errorf("no member named %q", ref)
}

var errSessionEnded = errors.New("your session has ended; run 'ledger login' to sign in again")

// remoteErr clears the saved session when the server no longer accepts it,
// and explains admin-only failures.
func (a *app) remoteErr(cmd *cobra.Command, err error) error {
	switch {
	case client.IsUnauthorized(err):
		_ = a.sessions(a.client()).Logout(cmd.Context())
		return errSessionEnded
	case client.IsForbidden(err):
		return fmt.Errorf("not allowed: %w", err)
	default:
		return err
	}
}
