package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"tailscale.com/tsnet"

	"github.com/claude/hevyplan/internal/builder"
	"github.com/claude/hevyplan/internal/server"
)

var serveTailscale bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local validation API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMatcher()
		if err != nil {
			return err
		}
		srv := server.New(m, builder.Options{
			TitlePrefix: cfg.Submit.TitlePrefix,
			Notes:       cfg.Submit.Notes,
		}, cfg.Server.APIKey, log)

		// Start server: tsnet or plain TCP
		var listener net.Listener
		if serveTailscale || cfg.Tailscale.Enabled {
			ts := &tsnet.Server{
				Hostname: cfg.Tailscale.Hostname,
				Dir:      cfg.Tailscale.StateDir,
			}
			if err := ts.Start(); err != nil {
				return fmt.Errorf("tsnet start failed: %w", err)
			}
			defer ts.Close()

			listener, err = ts.Listen("tcp", ":80")
			if err != nil {
				return fmt.Errorf("tsnet listen failed: %w", err)
			}
			log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
		} else {
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			listener, err = net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			log.Info("server starting", "addr", addr)
		}

		httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			errc <- httpSrv.Serve(listener)
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveTailscale, "tailscale", false, "listen on the tailnet via tsnet")
}
