package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/appcontext"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/rs/zerolog/log"
)

// @title storefront
// @version 1.0
// @description 商品目錄, 購物車與訂單服務
// @BasePath  /api/v1

func main() {
	app, err := appcontext.NewApplicationContext(config.GetConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
		return
	}

	// 初始化 handler
	server := api.NewServer(
		handler.NewAuthHandler(app.AuthService, app.Cf.CookieSecure),
		handler.NewProductHandler(app.ProductService),
		handler.NewCartHandler(app.CartService),
		handler.NewOrderHandler(app.OrderService),
		handler.NewAdminHandler(app.ProductService, app.OrderService, app.DashboardService),
	)

	// 設置路由
	r := router.SetupRouter(server, app.TokenMaker, app.LoginLimiter, app.Cf.TrustProxyHeaders, app.Logger)

	// 設定服務器參數
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", app.Cf.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 設置訊號監聽
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutDownCompleted := make(chan struct{}, 1)
	// 監聽退出訊號
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}

		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Application shutdown error")
		}

		shutDownCompleted <- struct{}{}
	}()

	// 啟動服務
	log.Info().Str("addr", srv.Addr).Msg("Server starting")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped unexpectedly")
	}
	<-shutDownCompleted
	log.Info().Msg("closed completed")
}
