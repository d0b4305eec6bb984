package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindcanvas/internal/config"
	"mindcanvas/internal/handler"
	"mindcanvas/internal/hub"
	"mindcanvas/internal/layout"
	"mindcanvas/internal/service"
	"mindcanvas/internal/watcher"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for maps and interactive sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	logger := a.logger
	cfg := a.cfg
	logger.Info("starting mindcanvas",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("database", cfg.Database.Path),
		zap.String("generator", a.gen.Name()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// SSE hub fed from the event bus
	sseHub := hub.New(logger)
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	a.eventBus.Subscribe(eventChan)
	defer a.eventBus.Unsubscribe(eventChan)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-eventChan:
				if !ok {
					return
				}
				sseHub.Broadcast(event)
			}
		}
	}()

	sessions := service.NewSessionManager(service.SessionConfig{
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		BaseRadius: cfg.Canvas.BaseRadius,
		Params: layout.Params{
			ChildRadius: cfg.Canvas.ChildRadius,
			FanStep:     cfg.Canvas.FanStep,
		},
		MaxSessions: cfg.Server.MaxSessions,
		TTL:         cfg.Server.SessionTTL.Duration(),
	}, a.agents.Spawn, a.eventBus, a.metrics, logger)
	go sessions.Run(ctx)

	if cfg.Inbox.Enabled {
		startInbox(ctx, a)
	}

	h := handler.New(a.maps, sessions, a.agents, logger)
	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: h.Router(handler.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Metrics:        a.metrics,
			Events:         sseHub,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  2 * cfg.Server.ReadTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer shutdownCancel()

	// SSE streams only end when the hub stops
	cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}

// startInbox imports files already in the inbox and then watches it
func startInbox(ctx context.Context, a *app) {
	dir := a.cfg.Inbox.Dir
	if err := config.EnsureDir(dir); err != nil {
		a.logger.Warn("inbox disabled", zap.String("dir", dir), zap.Error(err))
		return
	}

	inbox := watcher.NewInbox(a.maps, a.metrics, a.logger)
	w := inbox.Watcher(dir)
	if err := w.Scan(); err != nil {
		a.logger.Warn("inbox scan failed", zap.String("dir", dir), zap.Error(err))
	}
	go func() {
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("inbox watcher stopped", zap.Error(err))
		}
	}()
}
