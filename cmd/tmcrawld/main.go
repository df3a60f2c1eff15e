package main

import (
	"os"

	"github.com/joho/godotenv"

	"tmcrawl/internal/app"
	"tmcrawl/internal/config"
	"tmcrawl/internal/logging"
	"tmcrawl/internal/server"
	"tmcrawl/internal/stocks"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	quotes := stocks.NewClient(cfg.Stocks.Endpoint, cfg.Stocks.APIKey, logger.With("component", "stocks"))
	srv := server.New(application, quotes, cfg.Stocks.SymbolMap, logger.With("component", "server"))

	logger.Info("listening", "addr", cfg.Server.Addr)
	if err := srv.Router().Run(cfg.Server.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
