package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jtallard/biblio/internal/api"
	"github.com/jtallard/biblio/internal/config"
	"github.com/jtallard/biblio/internal/log"
	"github.com/jtallard/biblio/internal/session"
	"github.com/jtallard/biblio/internal/state"
	"github.com/jtallard/biblio/internal/store"
	"github.com/jtallard/biblio/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("biblio %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting biblio", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	vault, err := store.Open(config.VaultPath())
	if err != nil {
		return fmt.Errorf("failed to open session vault: %w", err)
	}
	defer vault.Close()

	client := api.NewClient(cfg.Server.URL, vault, logger)
	sess := session.NewManager(client, vault, logger)

	books := state.NewBookStore(client, logger)
	borrows := state.NewBorrowStore(client, logger)
	categories := state.NewCategoryStore(client, logger)
	users := state.NewUserStore(client, logger)

	model := tui.NewModel(sess, books, borrows, categories, users, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the library server URL on first run
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to biblio!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your library server URL (e.g., http://localhost:8000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}
		if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
			fmt.Println("Server URL must start with http:// or https://. Please try again.")
			continue
		}
		cfg.Server.URL = serverURL
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}
