package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/jaskcontacts/internal/api"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the people REST API from the local database",
		Long: `Serve exposes the local database under /api/v1.0 so that another
jaskcontacts can use it by setting repository.url.

Examples:
  jaskcontacts serve --addr 0.0.0.0:5000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			if addr == "" {
				addr = cfg.Server.Addr
			}
			logger := newLogger(cfg, os.Stderr)
			st, err := openLocal(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewRouter(&api.Server{People: st.people, Logger: logger}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(withContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			logger.Info("serving people api", "addr", addr, "prefix", api.Prefix)

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")
	return cmd
}
