// dashboard es el cliente de línea de comandos de Apex AM: inicia sesión contra la
// API y muestra negocios, contables y usuarios según el rol del usuario.
//
// Uso:
//
//	dashboard login --email admin@example.com
//	dashboard businesses --search tech
//	dashboard accountants add --business <id> <accountant-id>
//	dashboard users set-role <user-id> super_accountant
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/apex-am/internal/client"
	"github.com/jhoicas/apex-am/internal/dashboard"
	"github.com/jhoicas/apex-am/internal/session"
	"github.com/jhoicas/apex-am/pkg/config"
	"github.com/jhoicas/apex-am/pkg/logger"
)

var Version = "dev"

// app dependencias compartidas por los subcomandos.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *session.FileStore
	api     *client.Client
	session *session.Session
	toasts  *dashboard.Recorder
}

func main() {
	a := &app{toasts: &dashboard.Recorder{}}
	err := newRootCmd(a).Execute()
	printToasts(os.Stdout, a.toasts.Drain())
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(userMessage(err)))
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		apiURL    string
		tokenFile string
		verbose   bool
	)

	rootCmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Apex AM dashboard client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.Client.BaseURL = apiURL
			}
			if tokenFile != "" {
				cfg.Client.TokenFile = tokenFile
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			zl := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Component: "dashboard", Output: cmd.ErrOrStderr()}).Zerolog()

			a.cfg = cfg
			a.log = zl
			a.store = session.NewFileStore(cfg.Client.TokenFile)
			a.api = client.New(client.Config{
				BaseURL: cfg.Client.BaseURL,
				Timeout: cfg.Client.Timeout(),
				Tokens:  a.store,
				Logger:  &zl,
			})
			a.session = session.New(a.store, a.api, zl)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "session file (default TOKEN_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(loginCmd(a))
	rootCmd.AddCommand(logoutCmd(a))
	rootCmd.AddCommand(whoamiCmd(a))
	rootCmd.AddCommand(businessesCmd(a))
	rootCmd.AddCommand(accountantsCmd(a))
	rootCmd.AddCommand(usersCmd(a))
	return rootCmd
}

// context por comando; cada petición lleva además su propio timeout.
func (a *app) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

// requireUser restaura la sesión guardada; sin token no se hace ninguna petición.
func (a *app) requireUser(ctx context.Context) error {
	if err := a.session.Init(ctx); err != nil {
		return err
	}
	_, err := a.session.RequireUser()
	return err
}

// loadDashboard restaura la sesión y carga las vistas permitidas por el rol.
func (a *app) loadDashboard(ctx context.Context) (*dashboard.Dashboard, error) {
	if err := a.requireUser(ctx); err != nil {
		return nil, err
	}
	d := dashboard.New(a.session, a.api, a.toasts, a.log)
	if err := d.Load(ctx); err != nil {
		return d, err
	}
	return d, nil
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrLoginRequired):
		return "Not logged in. Run `dashboard login` first."
	default:
		return client.Message(err)
	}
}
