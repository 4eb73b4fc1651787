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

	"github.com/HackrsValv/design-critic/internal/config"
	"github.com/HackrsValv/design-critic/internal/logging"
	"github.com/HackrsValv/design-critic/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the critique HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				settings.ListenAddr = addr
			}

			logger := logging.NewStdoutLogger("design-critic")

			srv, err := server.NewServer(server.Config{
				ListenAddr: settings.ListenAddr,
				AppConfig:  settings.AppConfig(),
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			defer srv.Close()

			httpSrv := srv.HTTPServer()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", logging.Field{Key: "addr", Value: settings.ListenAddr})
				errCh <- httpSrv.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case sig := <-sigCh:
				logger.Info("shutting down", logging.Field{Key: "signal", Value: sig.String()})
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpSrv.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	return cmd
}
