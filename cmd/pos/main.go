package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"posterminal/internal/catalog"
	"posterminal/internal/checkout"
	"posterminal/internal/config"
	"posterminal/internal/httpserver"
	"posterminal/internal/pos"
	"posterminal/internal/stock"
	"posterminal/internal/upstream"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[pos] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.Username == "" || cfg.Password == "" {
		logger.Fatalf("POS_USERNAME and POS_PASSWORD must be set")
	}

	ctx := context.Background()
	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)

	session, err := client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		logger.Fatalf("login: %v", err)
	}
	logger.Printf("logged in as %s (user %d)", session.Username, session.UserID)

	catalogService := catalog.New(client, logger)
	gateway := checkout.New(client, cfg.ClientID, logger)
	stockService := stock.New(client, logger)
	terminal := pos.New(catalogService, gateway, session, logger)

	if err := terminal.Refresh(ctx); err != nil {
		// The operator can retry through the refresh endpoint.
		logger.Printf("initial catalog load failed: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Terminal: terminal,
		Orders:   gateway,
		Stock:    stockService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}

	if err := client.Logout(context.Background(), session); err != nil {
		logger.Printf("logout: %v", err)
	}
}
