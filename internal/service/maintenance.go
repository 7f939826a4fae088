package service

import (
	"context"
	"database/sql"
	"fmt"
)

// Resetter wipes stored people.
type Resetter interface {
	Reset(ctx context.Context) error
}

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB     *sql.DB
	People Resetter
}

// Reset wipes all people. It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil || s.People == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := s.People.Reset(ctx); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
