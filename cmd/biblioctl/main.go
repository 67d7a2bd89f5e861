// biblioctl is the scripting companion to the biblio TUI. It drives the
// same client and session vault from one-shot commands, so cron jobs and
// shell pipelines can hit the library server without a screen.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/config"
	"github.com/jtallard/biblio/internal/domain"
	"github.com/jtallard/biblio/internal/log"
	"github.com/jtallard/biblio/internal/session"
	"github.com/jtallard/biblio/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

const commandTimeout = 30 * time.Second

// app bundles everything a command needs. Built once per invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	vault   *store.Vault
	client  *api.Client
	session *session.Manager
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("no server configured; run biblio once or set server.url in the config file")
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		logger = log.NullLogger()
	}

	vault, err := store.Open(config.VaultPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open session vault: %w", err)
	}

	client := api.NewClient(cfg.Server.URL, vault, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		vault:   vault,
		client:  client,
		session: session.NewManager(client, vault, logger),
	}, nil
}

func (a *app) close() {
	a.vault.Close()
}

func (a *app) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// requireAuth fails fast before a command fires requests that would all
// come back 401 anyway.
func (a *app) requireAuth() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("%w; run 'biblioctl login' first", domain.ErrNotAuthenticated)
	}
	return nil
}

// withApp wraps a command body with app construction and teardown.
func withApp(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(a, cmd, args)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "biblioctl",
		Short:        "Command-line client for the library server",
		Version:      Version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newRegisterCmd(),
		newBookCmd(),
		newBorrowCmd(),
		newReturnCmd(),
		newCategoryCmd(),
		newUserCmd(),
		newFinesCmd(),
		newCheckDueCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
