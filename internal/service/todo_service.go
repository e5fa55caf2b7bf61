package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// TitleRequiredMessage is the fixed message clients see for a rejected title.
const TitleRequiredMessage = "Title is required"

var (
	// ErrTitleRequired is returned for a missing, empty or whitespace-only title.
	ErrTitleRequired = errors.New("title is required")
	ErrNotFound      = errors.New("todo not found")
)

// CreateTodoRequest holds the data needed to create a new todo. A nil Title
// means the field was absent or null.
type CreateTodoRequest struct {
	Title *string `json:"title"`
}

// TodoResponse is the wire representation of a todo item.
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TodoService is the boundary the HTTP layer talks to.
type TodoService interface {
	// CreateTodo validates the title and stores the trimmed value.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)

	// GetTodoByID returns ErrNotFound when the id is absent.
	GetTodoByID(ctx context.Context, id int64) (*TodoResponse, error)

	// GetAllTodos never returns a nil slice on success.
	GetAllTodos(ctx context.Context) ([]TodoResponse, error)

	// DeleteTodo returns ErrNotFound when nothing was removed.
	DeleteTodo(ctx context.Context, id int64) error
}

type todoService struct {
	repo repository.TodoRepository
	log  *slog.Logger
}

// NewTodoService creates a TodoService over repo. A nil logger falls back to slog.Default().
func NewTodoService(repo repository.TodoRepository, log *slog.Logger) TodoService {
	if log == nil {
		log = slog.Default()
	}
	return &todoService{
		repo: repo,
		log:  log.With("component", "todo_service"),
	}
}

// ValidateTitle returns the trimmed title, or ErrTitleRequired when nothing
// but whitespace is left.
func ValidateTitle(title *string) (string, error) {
	if title == nil {
		return "", ErrTitleRequired
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	return trimmed, nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	title, err := ValidateTitle(req.Title)
	if err != nil {
		return nil, err
	}

	todo, err := s.repo.Create(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	s.log.Info("todo created", "id", todo.ID)

	resp := toResponse(*todo)
	return &resp, nil
}

func (s *todoService) GetTodoByID(ctx context.Context, id int64) (*TodoResponse, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("todo with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}

	resp := toResponse(*todo)
	return &resp, nil
}

func (s *todoService) GetAllTodos(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toResponse(todo))
	}
	return responses, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("todo with ID %d: %w", id, ErrNotFound)
	}
	s.log.Info("todo deleted", "id", id)
	return nil
}

func toResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		IsCompleted: todo.IsCompleted,
		CreatedAt:   todo.CreatedAt,
	}
}
