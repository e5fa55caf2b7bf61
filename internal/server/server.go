package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

// HealthChecker reports store health as a flat stats map with a "status" key.
type HealthChecker interface {
	Health() map[string]string
}

type Server struct {
	cfg         config.HTTPConfig
	todoService service.TodoService
	health      HealthChecker
	log         *slog.Logger
}

func New(cfg config.HTTPConfig, todoService service.TodoService, health HealthChecker, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:         cfg,
		todoService: todoService,
		health:      health,
		log:         log,
	}
}

// HTTPServer wires the routes into an *http.Server using the configured port and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  s.cfg.IdleTimeout,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}
}
