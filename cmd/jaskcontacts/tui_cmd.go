package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/jaskcontacts/internal/database"
	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/prefs"
	"github.com/jask/jaskcontacts/internal/tui"
	"github.com/jask/jaskcontacts/internal/viewmodel"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit contacts interactively (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
}

func runTUI(parent context.Context) error {
	cfg := globalConfig
	logger := newLogger(cfg, nil)

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(withContext(parent))
	defer cancel()

	var snapshots *prefs.Store
	if cfg.UI.Snapshot && st.local != nil {
		snapshots, err = prefs.DefaultStore()
		if err != nil {
			log.Printf("warn: snapshot disabled: %v", err)
		}
	}
	if snapshots != nil {
		people, err := snapshots.LoadPeople()
		if err != nil {
			log.Printf("warn: load snapshot: %v", err)
		}
		if n, err := database.RestoreIfEmpty(ctx, st.people, people); err != nil {
			log.Printf("warn: restore snapshot: %v", err)
		} else if n > 0 {
			logger.Info("restored people from snapshot", "count", n)
		}
	}

	vm := viewmodel.New(st.people,
		viewmodel.WithLogger(logger),
		viewmodel.WithTimeout(cfg.Repository.Timeout),
	)
	defer vm.Close()

	p := tea.NewProgram(tui.New(ctx, vm), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	if snapshots != nil {
		people, err := domain.Snapshot(ctx, st.people)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		if err := snapshots.SavePeople(people); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	return nil
}
