package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/labelscan/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for decode API and live scan sessions",
	Long: `Start an HTTP server exposing the scan core.

The server provides the following endpoints:
  POST /v1/decode - One-shot decode of an uploaded image
  GET  /v1/scan   - WebSocket live scan session (client pushes frames)
  GET  /healthz   - Health check endpoint
  GET  /metrics   - Prometheus metrics

Examples:
  labelscan serve
  labelscan serve --port 8080
  labelscan serve --host 0.0.0.0 --port 3000`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		scanCfg, err := cfg.ScanConfig()
		if err != nil {
			return err
		}
		srv, err := server.New(cfg.Server, scanCfg)
		if err != nil {
			return err
		}
		defer func() { _ = srv.Close() }()

		addr := fmt.Sprintf("%s:%d", host, port)
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Duration(cfg.Server.TimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(cfg.Server.TimeoutSec) * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server listening", "addr", addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			slog.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return httpSrv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "localhost", "host interface to bind")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
}
