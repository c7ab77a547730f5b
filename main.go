package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/cucumber-basket/internal/app"
	"github.com/nhle/cucumber-basket/internal/model"
	"github.com/nhle/cucumber-basket/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := model.DefaultConfigPath()
	if custom := os.Getenv("CUCUMBERBASKET_CONFIG"); custom != "" {
		configPath = custom
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closeLog, err := newLogger(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening run history: %w", err)
	}
	defer s.Close()

	log.Info().Str("config", configPath).Msg("starting")

	p := tea.NewProgram(
		app.New(cfg, configPath, s, log),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// newLogger writes structured logs to a file next to the run history
// database. The TUI owns the terminal, so nothing logs to stderr.
func newLogger(databasePath string) (zerolog.Logger, func(), error) {
	dir := filepath.Dir(databasePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}

	logPath := filepath.Join(dir, "cucumberbasket.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}
