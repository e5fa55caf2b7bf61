package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-tracker/internal/database"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// gormTodoRepository implements TodoRepository on the in-memory sqlite
// database. The table is AUTOINCREMENT, so deleted ids are never handed out again.
type gormTodoRepository struct {
	dbService database.Service
	db        *gorm.DB
}

// NewGormTodoRepository creates a repository on an already migrated database.
func NewGormTodoRepository(dbService database.Service) TodoRepository {
	return &gormTodoRepository{dbService: dbService, db: dbService.GetDB()}
}

// GetAll retrieves all todos ordered by ID
func (r *gormTodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	todos := make([]domain.Todo, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// FindByID retrieves a todo by its ID
func (r *gormTodoRepository) FindByID(ctx context.Context, id int64) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Create inserts a new todo and lets the database assign its ID
func (r *gormTodoRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	todo := &domain.Todo{
		Title:       title,
		IsCompleted: false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete removes a todo by its ID and reports whether a row was removed
func (r *gormTodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	// domain.Todo has no DeletedAt, so this is a hard delete.
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Todo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Health reports the database connection stats
func (r *gormTodoRepository) Health() map[string]string {
	return r.dbService.Health()
}

// Close closes the database connection
func (r *gormTodoRepository) Close() error {
	return r.dbService.Close()
}
