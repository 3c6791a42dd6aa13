package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"n8nmcp/internal/logging"
	"n8nmcp/internal/n8n"
	"n8nmcp/pkg/mcp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "n8nmcp:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	client := n8n.New(n8n.Options{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		VerifySSL: cfg.VerifySSL,
		Logger:    logger,
	})

	srv := mcp.NewN8nServer(mcp.N8nServerDeps{
		Client: client,
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("n8n MCP bridge starting", "base_url", cfg.BaseURL)
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
