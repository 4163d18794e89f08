package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/leadsegment/internal/api"
	"github.com/ajitpratap0/leadsegment/internal/dataset"
	"github.com/ajitpratap0/leadsegment/pkg/textnorm"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			eng, closeFn, err := newEngine(cmd.Context(), logger)
			defer closeFn()
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			srv := api.NewServer(eng, api.Defaults{
				Geo:        cfg.Geo,
				States:     textnorm.DefaultStateAliases(),
				Options:    cfg.Segment.Options(),
				Vocabulary: dataset.DefaultVocabulary,
			}, logger, cfg.API.AuthToken, cfg.API.MaxUploadBytes())

			if cfg.API.AuthToken == "" {
				logger.Warn("HTTP API: auth is DISABLED; set LEADSEGMENT_API_AUTH_TOKEN or api.auth_token for production use")
			}

			httpSrv := &http.Server{
				Addr:              cfg.API.ListenAddr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       2 * time.Minute,
				WriteTimeout:      5 * time.Minute,
				IdleTimeout:       120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP API server starting", "addr", cfg.API.ListenAddr, "cache", cfg.Cache.Backend)
				if listenErr := httpSrv.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
					errCh <- fmt.Errorf("serve: HTTP server: %w", listenErr)
				}
				close(errCh)
			}()

			select {
			case <-cmd.Context().Done():
				logger.Info("shutting down")
			case startErr := <-errCh:
				if startErr != nil {
					return startErr
				}
				return nil
			}

			const shutdownTimeout = 10 * time.Second
			if shutdownErr := api.Shutdown(httpSrv, shutdownTimeout); shutdownErr != nil {
				return fmt.Errorf("serve: graceful shutdown: %w", shutdownErr)
			}

			// Drain the errCh in case ListenAndServe returned after Shutdown.
			if startErr := <-errCh; startErr != nil {
				return startErr
			}

			return nil
		},
	}
	return cmd
}
