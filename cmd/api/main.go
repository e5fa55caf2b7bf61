// @title           Todo API
// @version         1.0
// @description     Minimal todo tracker: list, fetch, create and delete todos.
// @BasePath        /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
	"github.com/Tomlord1122/todo-tracker/internal/server"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

func gracefulShutdown(apiServer *http.Server, repo repository.TodoRepository, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	slog.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		slog.Error("server forced to shutdown", "err", err)
	}

	if err := repo.Close(); err != nil {
		slog.Error("closing store", "err", err)
	}

	slog.Info("server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	// 1. Store, seeded
	repo, err := repository.New(context.Background(), cfg.Store)
	if err != nil {
		slog.Error("init store", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	slog.Info("store ready", "driver", cfg.Store.Driver)

	// 2. Service
	todoService := service.NewTodoService(repo, logger)

	// 3. Router and HTTP server
	apiServer := server.New(cfg.HTTP, todoService, repo, logger).HTTPServer()

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, repo, done)

	slog.Info("starting server", "addr", apiServer.Addr, "origins", cfg.HTTP.AllowedOrigins)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server ListenAndServe", "err", err)
		os.Exit(1)
	}

	<-done
	slog.Info("graceful shutdown complete")
}
