package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/xylogen-go/internal/chat"
	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/logger"
	"github.com/comigor/xylogen-go/internal/news"
	"github.com/comigor/xylogen-go/pkg/tools"
)

var version = "dev"

func main() {
	// stdout carries the protocol
	logger.SetOutput(os.Stderr)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)

	aggregator, err := news.New(cfg.Providers, cfg.News)
	if err != nil {
		logger.L.Error("failed to load news catalog", "error", err)
		os.Exit(1)
	}

	manager := tools.NewToolManager(
		tools.NewAskTool(chat.New(cfg.Providers)),
		tools.NewNewsTool(aggregator, tools.DefaultFeedLimit),
		tools.NewImageTool(),
	)

	if err := server.ServeStdio(tools.NewMCPServer(manager, version)); err != nil {
		logger.L.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
