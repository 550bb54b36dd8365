package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/relayio/chatrelay/internal/config"
	"github.com/relayio/chatrelay/internal/factory"
	"github.com/relayio/chatrelay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	app, err := factory.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The directory must be authoritative before any traffic flows.
	// Hydration failure after retries is fatal.
	if err := app.Directory.Hydrate(ctx); err != nil {
		logger.Error("directory hydration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go app.Dispatcher.Run(ctx)

	router := server.NewRouter(server.RouterConfig{
		Dispatcher: app.Dispatcher,
		Logger:     logger,
	})

	serverConfig := server.DefaultConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	srv := server.NewServer(router, serverConfig, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("relay started",
		slog.String("addr", srv.Addr()),
		slog.String("storage", cfg.Storage),
		slog.Int("channels", app.Directory.ChannelCount()),
		slog.Int("players", app.Directory.PlayerCount()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Let in-flight persistence writes land before the process exits.
	app.Dispatcher.Flush()

	logger.Info("relay stopped")
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
