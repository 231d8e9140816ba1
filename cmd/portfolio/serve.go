package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	portfolio "github.com/goliatone/go-portfolio"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if address != "" {
				cfg.HTTP.Address = address
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			module, err := moduleBuilder(ctx, cfg)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			defer module.Close()

			logger := logging.ModuleLogger(module.Container().LoggerProvider(), "portfolio.serve")

			initialSync(ctx, module, cfg.Markdown.ContentDir, logger)

			handler, err := module.Handler()
			if err != nil {
				return err
			}
			server := &http.Server{
				Addr:         cfg.HTTP.Address,
				Handler:      handler,
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}

			module.Scheduler().Start()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serve.listening", "address", cfg.HTTP.Address)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				_ = module.Scheduler().Stop(context.Background())
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("serve.shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return module.Scheduler().Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address, overrides http.address")
	return cmd
}

type contentSyncer interface {
	Sync(ctx context.Context, opts portfolio.SyncOptions) (*portfolio.SyncResult, error)
}

// initialSync imports the content directory before the listener opens. A
// failed sync is logged and the server still starts.
func initialSync(ctx context.Context, syncer contentSyncer, contentDir string, logger interfaces.Logger) bool {
	if strings.TrimSpace(contentDir) == "" {
		return false
	}
	result, err := syncer.Sync(ctx, portfolio.SyncOptions{})
	if err != nil {
		logger.Warn("serve.initial_sync.failed", "error", err, "content_dir", contentDir)
		return true
	}
	if result == nil {
		return true
	}
	logger.Info("serve.initial_sync.completed",
		"content_dir", contentDir,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return true
}
