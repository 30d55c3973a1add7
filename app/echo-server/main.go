package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sekaiDeckRecommend/app/echo-server/router"
	"sekaiDeckRecommend/business/recommend"
	"sekaiDeckRecommend/internal/middleware"
	"sekaiDeckRecommend/internal/repository/masterdata"
	"sekaiDeckRecommend/internal/repository/musicmeta"
	"sekaiDeckRecommend/internal/repository/playerdata"
	"sekaiDeckRecommend/internal/rest"
	"sekaiDeckRecommend/pkg/config"
	"sekaiDeckRecommend/pkg/logger"
	"sekaiDeckRecommend/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Sekai Deck Recommend", "version", cfg.App.Version)

	metrics.Init()
	recommend.InitMetrics()

	// Init validate
	validate := validator.New()

	// Init repo
	masterdataManager := masterdata.NewManager()
	musicmetaManager := musicmeta.NewManager(time.Duration(cfg.Recommend.MusicmetaRefreshSec) * time.Second)
	snapshotCache, err := playerdata.NewCache(cfg.Recommend.SnapshotCacheSize)
	if err != nil {
		logger.Fatal("Failed to init snapshot cache", "error", err)
	}

	// Init service
	recommendService := recommend.NewService(masterdataManager, musicmetaManager, snapshotCache, validate, cfg.Recommend)

	// Init handler
	recommendHandler := rest.NewRecommendHandler(recommendService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupRecommendRoutes(api, recommendHandler)

	e.GET("/health", recommendHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
