package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/comigor/xylogen-go/internal/api"
	"github.com/comigor/xylogen-go/internal/chat"
	"github.com/comigor/xylogen-go/internal/config"
	"github.com/comigor/xylogen-go/internal/history"
	"github.com/comigor/xylogen-go/internal/images"
	"github.com/comigor/xylogen-go/internal/logger"
	"github.com/comigor/xylogen-go/internal/news"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aggregator, err := news.New(cfg.Providers, cfg.News)
	if err != nil {
		logger.L.Error("failed to load news catalog", "error", err)
		os.Exit(1)
	}

	sessions := history.Open(ctx, cfg.History)
	defer sessions.Close()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Deps{
		Chat:           chat.New(cfg.Providers),
		News:           aggregator,
		Images:         images.NewDownloader(cfg.Images.DownloadTimeout),
		Sessions:       sessions,
		MaxUploadBytes: cfg.Images.MaxUploadBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("shutdown failed", "error", err)
		}
	}()

	logger.L.Info("starting server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	logger.L.Info("server stopped")
}
