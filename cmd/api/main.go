// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bulkminter/internal/infra/config"
	"bulkminter/internal/infra/logger"
	"bulkminter/internal/platform/di"
)

func main() {
	cfg := config.Load()
	cleanup := logger.Init(cfg, "api.log")
	defer cleanup()

	ctx := context.Background()
	c, err := di.New(ctx)
	if err != nil {
		logger.Log.Fatal("failed to build container", zap.Error(err))
	}
	defer c.Close()

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: c.Router,
	}

	go func() {
		waitForSignal(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Log.Error("failed to shutdown http server", zap.Error(err))
			}
		})
	}()

	logger.Log.Info("api server starting", zap.String("port", cfg.Port))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal("failed to run api server", zap.Error(err))
	}
}

func waitForSignal(onSignal func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	logger.Log.Info("signal received, shutting down", zap.String("signal", sig.String()))
	onSignal()
}
