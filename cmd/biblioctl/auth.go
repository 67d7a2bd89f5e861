package main

import (
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/domain"
)

// readPassword securely reads a password with masking
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and store the session tokens",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				var err error
				password, err = readPassword("Password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			ctx, cancel := a.ctx()
			defer cancel()
			if err := a.session.Login(ctx, username, password); err != nil {
				return err
			}

			fmt.Printf("Signed in as %s\n", username)
			if expiry, ok := a.session.Expiry(); ok {
				fmt.Printf("Session valid until %s\n", expiry.Local().Format(time.RFC1123))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session tokens",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			a.session.Logout()
			fmt.Println("Signed out")
			return nil
		}),
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			ctx, cancel := a.ctx()
			defer cancel()
			if err := a.session.FetchCurrentUser(ctx); err != nil {
				return err
			}

			user := a.session.User()
			fmt.Printf("%s <%s> role=%s\n", user.Username, user.Email, user.Role)
			return nil
		}),
	}
}

func newRegisterCmd() *cobra.Command {
	var email, role, password string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a new account",
		Long:  "Create a new account. Registration never signs you in; run 'biblioctl login' afterwards.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = readPassword("Password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				confirm, err := readPassword("Confirm password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}

			reg := api.Registration{
				Username: args[0],
				Email:    email,
				Password: password,
				Role:     domain.Role(role),
			}

			ctx, cancel := a.ctx()
			defer cancel()
			if err := a.session.Register(ctx, reg); err != nil {
				return err
			}

			fmt.Printf("Account %s created; sign in with 'biblioctl login %s'\n", args[0], args[0])
			return nil
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&role, "role", "r", "member", "account role (member, librarian, admin)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}
