package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"microfeed/cmd/app"
	"microfeed/internal/config"
	handlers "microfeed/internal/handler"
	"microfeed/internal/logger"
	"microfeed/internal/middleware"
	"microfeed/internal/telemetry"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		zl.Fatal("ошибка инициализации трассировки", zap.Error(err))
	}

	application, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("ошибка запуска приложения", zap.Error(err))
	}
	defer application.Close()

	handler := handlers.NewHandlers(application.Services, application.Storage, application.DB, cfg, zl.Named("http"))

	// setting up routes
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	handler.RegisterRoutes(router)
	router.Use(middleware.MetricsMiddleware)

	handlerChain := middleware.Chain(
		router,
		middleware.AuthMiddleware(application.Services.Auth),
		middleware.LoggingMiddleware(zl.Named("access")),
		middleware.CORSMiddleware,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           otelhttp.NewHandler(handlerChain, "microfeed"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("сервер запущен", zap.String("addr", srv.Addr), zap.String("db", cfg.DB.DbNAME))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("ошибка при остановке сервера", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zl.Warn("ошибка при остановке трассировки", zap.Error(err))
	}
}
