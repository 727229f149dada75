package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"household-ledger/internal/dto"

	"github.com/spf13/cobra"
)

func (a *app) setupCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the household admin on a fresh server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := a.client()

			needed, err := api.SetupStatus(cmd.Context())
			if err != nil {
				return err
			}
			if !needed {
				return fmt.Errorf("setup has already been completed; sign in with 'ledger login'")
			}

			in := bufio.NewReader(cmd.InOrStdin())
			if name == "" {
				if name, err = prompt(in, cmd.OutOrStdout(), "Admin name: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}
			confirm, err := prompt(in, cmd.OutOrStdout(), "Confirm password: ")
			if err != nil {
				return err
			}

			resp, err := api.Setup(cmd.Context(), dto.SetupRequest{
				Name:            name,
				Password:        password,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s. Run 'ledger login' to sign in.\n", resp.Member.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "admin name")
	cmd.Flags().StringVar(&password, "password", "", "admin password")

	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var (
		name     string
		password string
		remember bool
		forget   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := a.sessions(a.client())

			if forget {
				if err := manager.Forget(); err != nil {
					return err
				}
			} else if creds, ok := manager.Recall(); ok {
				if name == "" {
					name = creds.Name
				}
				if password == "" && strings.EqualFold(name, creds.Name) {
					password = creds.Password
				}
			}

			in := bufio.NewReader(cmd.InOrStdin())
			var err error
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

			sess, err := manager.Login(cmd.Context(), name, password)
			if err != nil {
				return err
			}

			if remember {
				if err := manager.Remember(name, password); err != nil {
					a.logger.Warn("Failed to remember credentials", "error", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", sess.Actor.Name, sess.Actor.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "member name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().BoolVar(&remember, "remember", false, "remember name and password for the next login")
	cmd.Flags().BoolVar(&forget, "forget", false, "discard remembered credentials")

	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.sessions(a.client()).Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, api, err := a.signedIn()
			if err != nil {
				return err
			}

			resp, err := api.Session(cmd.Context())
			if err != nil {
				return a.remoteErr(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", resp.Member.Name, sess.Actor.Role)
			return nil
		},
	}
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)

	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" && errors.Is(err, io.EOF) {
		return "", fmt.Errorf("no input for %q", strings.TrimSuffix(strings.TrimSpace(label), ":"))
	}
	return line, nil
}
