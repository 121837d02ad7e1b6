package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/salmon-market/internal/adapter/handler"
	"github.com/rl1809/salmon-market/internal/adapter/storage"
	"github.com/rl1809/salmon-market/internal/core/domain"
	"github.com/rl1809/salmon-market/internal/core/service"
)

const (
	httpPort       = ":8080"
	mysqlDSN       = "root:root@tcp(localhost:3306)/salmonmarket?parseTime=true"
	redisAddr      = "localhost:6379"
	startingCredit = 100000
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		slog.Error("failed to open mysql", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to ping mysql", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to redis")

	// Initialize adapters
	stateStore := storage.NewMySQLAdapter(db)
	sessionStore := storage.NewRedisAdapter(rdb)

	if err := stateStore.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Initialize service
	orderService := service.NewOrderService(domain.DefaultCatalog(), stateStore, sessionStore)

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(orderService, startingCredit)
	httpServer := &http.Server{
		Addr:    httpPort,
		Handler: httpHandler.Router(),
	}

	go func() {
		slog.Info("HTTP server listening", "addr", httpPort)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	slog.Info("HTTP server stopped")

	rdb.Close()
	db.Close()
	slog.Info("connections closed")
}
