package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/jaskcontacts/internal/config"
	"github.com/jask/jaskcontacts/internal/database"
	"github.com/jask/jaskcontacts/internal/database/repository"
	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/remote"
)

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

var logFile *os.File

func newRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "jaskcontacts",
		Short:        "Terminal contacts manager",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			globalConfig = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				_ = logFile.Close()
			}
		},
		RunE: func(c *cobra.Command, _ []string) error { return runTUI(c.Context()) },
	}
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newDupesCmd())
	cmd.AddCommand(newResetCmd())
	return cmd
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// newLogger writes to log.file when set, otherwise to fallback.
func newLogger(cfg config.Config, fallback io.Writer) *slog.Logger {
	w := fallback
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "jaskcontacts")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warn: log file: %v\n", err)
		} else {
			logFile = f
			w = f
		}
	}
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))
}

// store is the selected people repository plus what must be closed with it.
type store struct {
	people domain.PeopleRepository
	local  *repository.PeopleRepo
	db     *sql.DB
}

func (s *store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// openLocal migrates and opens the sqlite database.
func openLocal(cfg config.Config) (*store, error) {
	db, err := database.Prepare(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	repo := repository.NewPeopleRepo(db)
	return &store{people: repo, local: repo, db: db}, nil
}

// openStore picks the remote repository when repository.url is set.
func openStore(cfg config.Config, logger *slog.Logger) (*store, error) {
	if cfg.Repository.URL == "" {
		return openLocal(cfg)
	}
	c := remote.New(cfg.Repository.URL,
		remote.WithPollInterval(cfg.Repository.PollInterval),
		remote.WithLogger(logger),
	)
	return &store{people: c}, nil
}

func requireLocal(s *store, action string) error {
	if s.local == nil {
		return fmt.Errorf("%s needs the local database; unset repository.url", action)
	}
	return nil
}

func withContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
