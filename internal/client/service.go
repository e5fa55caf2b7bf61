package client

import (
	"context"
	"errors"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/observable"
)

// TodoAPI is the slice of APIClient the cache needs.
type TodoAPI interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id int64) (domain.Todo, error)
	Create(ctx context.Context, title string) (domain.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// TodoService keeps a local, observable copy of the server's todo list.
// The server stays the source of truth: after a mutation the cache is patched
// from the response rather than re-fetched, so it can drift from the server
// until the next Load.
type TodoService struct {
	api   TodoAPI
	todos *observable.Value[[]domain.Todo]
}

func NewTodoService(api TodoAPI) *TodoService {
	return &TodoService{
		api:   api,
		todos: observable.New([]domain.Todo{}),
	}
}

// Load replaces the cache with the server's list. On failure the cache is
// untouched and nothing is emitted.
func (s *TodoService) Load(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.api.List(ctx)
	if err != nil {
		return nil, err
	}
	s.todos.Set(clone(todos))
	return todos, nil
}

// Create appends the created item to the cache on success.
func (s *TodoService) Create(ctx context.Context, title string) (domain.Todo, error) {
	todo, err := s.api.Create(ctx, title)
	if err != nil {
		return domain.Todo{}, err
	}
	s.todos.Update(func(cur []domain.Todo) []domain.Todo {
		next := make([]domain.Todo, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, todo)
	})
	return todo, nil
}

// Delete drops any cached item with id on success.
func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.todos.Update(func(cur []domain.Todo) []domain.Todo { return without(cur, id) })
	return nil
}

// Refresh re-reads one item from the server. A cached copy is replaced with
// the server's version; if the server no longer has it, it is dropped from
// the cache and the returned error matches ErrNotFound. Other failures leave
// the cache untouched.
func (s *TodoService) Refresh(ctx context.Context, id int64) (domain.Todo, error) {
	todo, err := s.api.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.todos.Update(func(cur []domain.Todo) []domain.Todo { return without(cur, id) })
		return domain.Todo{}, err
	}
	if err != nil {
		return domain.Todo{}, err
	}
	s.todos.Update(func(cur []domain.Todo) []domain.Todo {
		next := clone(cur)
		for i := range next {
			if next[i].ID == id {
				next[i] = todo
			}
		}
		return next
	})
	return todo, nil
}

// Current returns a copy of the latest cached list.
func (s *TodoService) Current() []domain.Todo {
	return clone(s.todos.Get())
}

// Subscribe calls fn with every new cache value until the returned function is called.
func (s *TodoService) Subscribe(fn func([]domain.Todo)) (unsubscribe func()) {
	return s.todos.Subscribe(func(todos []domain.Todo) {
		fn(clone(todos))
	})
}

func clone(todos []domain.Todo) []domain.Todo {
	out := make([]domain.Todo, len(todos))
	copy(out, todos)
	return out
}

func without(todos []domain.Todo, id int64) []domain.Todo {
	out := make([]domain.Todo, 0, len(todos))
	for _, t := range todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
