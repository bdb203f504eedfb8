package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/username/month-grid/internal/api"
	"github.com/username/month-grid/internal/daemon"
	"github.com/username/month-grid/internal/grid"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve month grids over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cache := grid.NewCache(cfg.Server.CacheEntries)
			manager, reload, err := initializeManager(ctx, cache)
			if err != nil {
				return err
			}

			router := api.NewRouter(&api.Deps{
				Logger:          logger,
				ResponseHandler: api.NewResponseHandler(logger),
				Picker:          manager,
			})

			srv := &http.Server{
				Addr:         addr,
				Handler:      router,
				ReadTimeout:  cfg.Server.GetReadTimeout(),
				WriteTimeout: cfg.Server.GetWriteTimeout(),
			}

			refresher := daemon.NewDaemon(reload, manager, cfg.Calendar.GetRefreshInterval(), logger)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("HTTP server listening",
					zap.String("addr", addr),
					zap.String("calendar", cfg.Calendar.Type))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				return refresher.Start(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info("Server stopped", zap.Any("refresher", refresher.GetStatus()))
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")

	return cmd
}
