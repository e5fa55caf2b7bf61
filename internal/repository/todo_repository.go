package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// ErrNotFound is returned by FindByID when no item has the requested id.
var ErrNotFound = errors.New("todo not found")

// TodoRepository is the authoritative holder of all todo items for a running
// backend process. It performs no validation of its inputs.
type TodoRepository interface {
	// GetAll returns a snapshot of the collection in insertion order.
	GetAll(ctx context.Context) ([]domain.Todo, error)
	// FindByID returns ErrNotFound for any id that is not present.
	FindByID(ctx context.Context, id int64) (*domain.Todo, error)
	// Create assigns the next id and appends a new, not completed item.
	Create(ctx context.Context, title string) (*domain.Todo, error)
	// Delete reports whether an item was removed.
	Delete(ctx context.Context, id int64) (bool, error)

	Health() map[string]string
	Close() error
}

// New builds the repository selected by cfg.Driver, seeded with domain.SeedTitles.
func New(ctx context.Context, cfg config.StoreConfig) (TodoRepository, error) {
	var repo TodoRepository
	switch cfg.Driver {
	case config.DriverMemory, "":
		repo = NewMemoryTodoRepository()
	case config.DriverSQLite:
		db, err := database.New(&domain.Todo{})
		if err != nil {
			return nil, err
		}
		repo = NewGormTodoRepository(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if err := Seed(ctx, repo); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

// Seed inserts domain.SeedTitles into repo.
func Seed(ctx context.Context, repo TodoRepository) error {
	for _, title := range domain.SeedTitles {
		if _, err := repo.Create(ctx, title); err != nil {
			return fmt.Errorf("seed %q: %w", title, err)
		}
	}
	return nil
}
