package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ledger/internal/backend"
	"ledger/internal/cli"
	apphttp "ledger/internal/http"
	"ledger/internal/log"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var trustedProxies []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Start the JSON/HTMX API over a fresh session store seeded from SEED_CATEGORIES_FILE.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg, log.ComponentApp)

			ctx, cancel := cli.GracefulShutdown(cmd.Context(), logger)
			defer cancel()

			bcfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
			if err != nil {
				return fmt.Errorf("create backend: %w", err)
			}
			defer func() {
				if err := res.Cleanup(); err != nil {
					logger.Error("Backend cleanup failed", log.FieldError, err)
				}
			}()

			srv := apphttp.NewServer(":"+cfg.Port, res.Service, apphttp.Options{
				Logger:             logger,
				RateLimitPerMinute: cfg.RateLimitPerMinute,
				TrustedProxies:     trustedProxies,
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("Starting ledger server", "port", cfg.Port, "backend", cfg.Backend)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, shutdownCancel := cli.ShutdownContext(shutdownTimeout)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("server shutdown: %w", err)
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info("Server stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&trustedProxies, "trusted-proxy", nil, "CIDR whose X-Forwarded-For header is trusted (repeatable)")
	return cmd
}
