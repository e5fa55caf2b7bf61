package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// spyRepository wraps a real repository and counts Create calls.
type spyRepository struct {
	repository.TodoRepository
	creates int
	failAll error
}

func (s *spyRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	s.creates++
	if s.failAll != nil {
		return nil, s.failAll
	}
	return s.TodoRepository.Create(ctx, title)
}

func (s *spyRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	if s.failAll != nil {
		return nil, s.failAll
	}
	return s.TodoRepository.GetAll(ctx)
}

type testingT interface {
	require.TestingT
	Helper()
}

func newService(t testingT) (TodoService, *spyRepository) {
	t.Helper()
	repo := repository.NewMemoryTodoRepository()
	require.NoError(t, repository.Seed(context.Background(), repo))
	spy := &spyRepository{TodoRepository: repo}
	return NewTodoService(spy, slog.New(slog.NewTextHandler(io.Discard, nil))), spy
}

func ptr(s string) *string { return &s }

func TestCreateTodoRejectsBlankTitles(t *testing.T) {
	svc, spy := newService(t)
	tests := []struct {
		name  string
		title *string
	}{
		{"nil", nil},
		{"empty", ptr("")},
		{"spaces", ptr("   ")},
		{"tabs and newlines", ptr("\t\n\r ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTodo(context.Background(), CreateTodoRequest{Title: tt.title})
			assert.ErrorIs(t, err, ErrTitleRequired)
		})
	}
	assert.Zero(t, spy.creates)
}

func TestCreateTodoTrimsTitle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: ptr("  Buy milk \n")})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.IsCompleted)
	assert.Equal(t, int64(4), created.ID)
}

func TestWorkflowCreateFetchDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: ptr("Workflow Test Todo")})
	require.NoError(t, err)

	fetched, err := svc.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Workflow Test Todo", fetched.Title)
	assert.False(t, fetched.IsCompleted)

	require.NoError(t, svc.DeleteTodo(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteTodo(ctx, created.ID), ErrNotFound)

	_, err = svc.GetTodoByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllTodosReturnsSeed(t *testing.T) {
	svc, _ := newService(t)

	todos, err := svc.GetAllTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "Learn Angular", todos[0].Title)
}

func TestGetAllTodosEmptyIsNotNil(t *testing.T) {
	svc := NewTodoService(repository.NewMemoryTodoRepository(), nil)

	todos, err := svc.GetAllTodos(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestStoreFaultsPropagate(t *testing.T) {
	svc, spy := newService(t)
	boom := errors.New("boom")
	spy.failAll = boom

	_, err := svc.GetAllTodos(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = svc.CreateTodo(context.Background(), CreateTodoRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTitleRequired)
}

func TestAbsentIDsAreNotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, id := range []int64{0, -1, -42, 4, math.MaxInt64, math.MinInt64} {
		_, err := svc.GetTodoByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "get %d", id)
		assert.ErrorIs(t, svc.DeleteTodo(ctx, id), ErrNotFound, "delete %d", id)
	}
}

func TestBlankTitleProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, spy := newService(t)
		blank := rapid.StringMatching(`[ \t\n\r\v\f]{0,20}`).Draw(t, "blank")

		_, err := svc.CreateTodo(context.Background(), CreateTodoRequest{Title: &blank})
		if !errors.Is(err, ErrTitleRequired) {
			t.Fatalf("CreateTodo(%q) error = %v, want ErrTitleRequired", blank, err)
		}
		if spy.creates != 0 {
			t.Fatalf("store Create called %d times", spy.creates)
		}
	})
}

func TestValidTitleProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, _ := newService(t)
		ctx := context.Background()
		title := rapid.StringMatching(`[ \t]{0,3}[A-Za-z0-9][A-Za-z0-9 .,!?]{0,40}[ \n]{0,3}`).Draw(t, "title")

		before, err := svc.GetAllTodos(ctx)
		if err != nil {
			t.Fatalf("GetAllTodos: %v", err)
		}
		created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: &title})
		if err != nil {
			t.Fatalf("CreateTodo(%q): %v", title, err)
		}
		after, _ := svc.GetAllTodos(ctx)

		if len(after) != len(before)+1 {
			t.Fatalf("list grew from %d to %d", len(before), len(after))
		}
		if created.Title != strings.TrimSpace(title) {
			t.Fatalf("title = %q, want %q", created.Title, strings.TrimSpace(title))
		}
		if created.IsCompleted {
			t.Fatal("new todo is completed")
		}
		for _, todo := range before {
			if created.ID <= todo.ID {
				t.Fatalf("id %d not greater than existing %d", created.ID, todo.ID)
			}
		}
	})
}
