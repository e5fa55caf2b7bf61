package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// memoryTodoRepository keeps the collection and the id counter together
// behind one mutex. nextID only ever grows, so ids are never reused.
type memoryTodoRepository struct {
	mu     sync.RWMutex
	todos  []domain.Todo
	nextID int64
	now    func() time.Time
}

// NewMemoryTodoRepository returns an empty, unseeded in-memory repository.
func NewMemoryTodoRepository() TodoRepository {
	return &memoryTodoRepository{
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetAll returns a copy of all todos in insertion order
func (r *memoryTodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Todo, len(r.todos))
	copy(out, r.todos)
	return out, nil
}

// FindByID retrieves a todo by its ID
func (r *memoryTodoRepository) FindByID(ctx context.Context, id int64) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	todo := r.todos[i]
	return &todo, nil
}

// Create appends a new todo with the next ID
func (r *memoryTodoRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo := domain.Todo{
		ID:          r.nextID,
		Title:       title,
		IsCompleted: false,
		CreatedAt:   r.now(),
	}
	r.nextID++
	r.todos = append(r.todos, todo)
	return &todo, nil
}

// Delete removes a todo by its ID and reports whether it existed
func (r *memoryTodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.todos = append(r.todos[:i], r.todos[i+1:]...)
	return true, nil
}

// Health reports the item count and the next ID to be assigned
func (r *memoryTodoRepository) Health() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return map[string]string{
		"status":  "up",
		"driver":  "memory",
		"items":   strconv.Itoa(len(r.todos)),
		"next_id": strconv.FormatInt(r.nextID, 10),
	}
}

// Close is a no-op
func (r *memoryTodoRepository) Close() error { return nil }

// indexOf must be called with mu held.
func (r *memoryTodoRepository) indexOf(id int64) int {
	for i := range r.todos {
		if r.todos[i].ID == id {
			return i
		}
	}
	return -1
}
