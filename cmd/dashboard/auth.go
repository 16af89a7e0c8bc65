package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				v, err := prompt("Email: ")
				if err != nil {
					return err
				}
				email = v
			}
			if password == "" {
				v, err := promptPassword("Password: ")
				if err != nil {
					return err
				}
				password = v
			}

			ctx, cancel := a.context()
			defer cancel()
			if err := a.session.Login(ctx, email, password); err != nil {
				return err
			}
			u := a.session.User()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n",
				successStyle.Render("Signed in as"), titleStyle.Render(u.DisplayName()), roleBadge(u.Role))
			a.log.Debug().Str("token_file", a.store.Path()).Msg("sesión guardada")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Signed out"))
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and visible tabs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context()
			defer cancel()
			d, err := a.loadDashboard(ctx)
			if d == nil {
				return err
			}
			defer d.Close()
			u := d.User()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s <%s>\n", titleStyle.Render(u.DisplayName()), u.Email)
			fmt.Fprintf(w, "Role: %s\n", roleBadge(u.Role))
			if tabs := d.Tabs(); len(tabs) > 0 {
				fmt.Fprintf(w, "Tabs: %s\n", tabsLine(tabs))
			}
			return err
		},
	}
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword no hace eco cuando stdin es una terminal.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
