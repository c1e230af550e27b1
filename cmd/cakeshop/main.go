package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cakeshop/internal/actuator"
	"cakeshop/internal/app"
	"cakeshop/internal/config"
	"cakeshop/internal/database"
	"cakeshop/internal/handler"
	"cakeshop/internal/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if cfg.DevPassword {
		slog.Warn("DEBUG=1 and ADMIN_PASSWORD unset, using development admin password")
	}
	if cfg.JWTSecret == "" {
		if cfg.JWTSecret, err = service.GenerateToken(); err != nil {
			slog.Error("failed to generate session key", "error", err)
			os.Exit(1)
		}
		slog.Info("JWT_SECRET unset, staff sessions will not survive a restart")
	}

	authSvc, err := service.NewAuthService(cfg.AdminPassword)
	if err != nil {
		slog.Error("failed to set up admin auth", "error", err)
		os.Exit(1)
	}

	// Registry, with the optional journal attached
	var regOpts []service.RegistryOption
	var journal *database.Journal
	if cfg.JournalDatabaseURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := database.NewDB(ctx, cfg.JournalDatabaseURI)
		if err == nil {
			err = database.InitSchema(ctx, db)
		}
		cancel()
		if err != nil {
			slog.Error("failed to open order journal", "error", err)
			os.Exit(1)
		}
		defer database.CloseDB(db, logger)

		journal = database.NewJournal(db, logger)
		journal.Start()
		regOpts = append(regOpts, service.WithObserver(journal.Observe))
	}
	registry := service.NewOrderRegistry(regOpts...)

	act := actuator.New(cfg.Actuator)
	if act.StrategyName() == "none" {
		slog.Warn("no REMOTE_TRIGGER_URL or DEVICE_HOST configured, every order will fail")
	}
	shop := app.NewShop(registry, act, cfg.Worker, logger)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      handler.NewRouter(shop, authSvc, cfg.JWTSecret),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	if err := shop.Start(context.Background()); err != nil {
		slog.Error("failed to start shop", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress, "strategy", act.StrategyName())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down...")

	shop.Stop() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if journal != nil {
		journal.Close()
	}

	slog.Info("server stopped")
}
