package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/config"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

var testHTTPConfig = config.HTTPConfig{
	Port:           8080,
	AllowedOrigins: []string{"https://localhost:5173"},
}

// fakeTodoService stands in for the real service so handler tests do not
// touch a store.
type fakeTodoService struct {
	todos     []service.TodoResponse
	err       error
	panicWith any
	creates   int
	deletes   []int64
}

func (f *fakeTodoService) CreateTodo(ctx context.Context, req service.CreateTodoRequest) (*service.TodoResponse, error) {
	title, err := service.ValidateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	todo := service.TodoResponse{ID: int64(len(f.todos) + 1), Title: title, CreatedAt: time.Now().UTC()}
	f.todos = append(f.todos, todo)
	return &todo, nil
}

func (f *fakeTodoService) GetTodoByID(ctx context.Context, id int64) (*service.TodoResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, todo := range f.todos {
		if todo.ID == id {
			return &todo, nil
		}
	}
	return nil, service.ErrNotFound
}

func (f *fakeTodoService) GetAllTodos(ctx context.Context) ([]service.TodoResponse, error) {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.todos, f.err
}

func (f *fakeTodoService) DeleteTodo(ctx context.Context, id int64) error {
	f.deletes = append(f.deletes, id)
	if f.err != nil {
		return f.err
	}
	for i, todo := range f.todos {
		if todo.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

type staticHealth map[string]string

func (h staticHealth) Health() map[string]string { return h }

func newTestHandler(svc service.TodoService) http.Handler {
	return New(testHTTPConfig, svc, staticHealth{"status": "up"}, quietLog).RegisterRoutes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetAllTodos(t *testing.T) {
	svc := &fakeTodoService{todos: []service.TodoResponse{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}}
	rec := do(t, newTestHandler(svc), http.MethodGet, "/api/todos", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestGetAllTodosEmptyIsArray(t *testing.T) {
	rec := do(t, newTestHandler(&fakeTodoService{}), http.MethodGet, "/api/todos", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetAllTodosStoreFault(t *testing.T) {
	rec := do(t, newTestHandler(&fakeTodoService{err: errors.New("boom")}), http.MethodGet, "/api/todos", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnhandledPanicBecomesServerError(t *testing.T) {
	rec := do(t, newTestHandler(&fakeTodoService{panicWith: "store exploded"}), http.MethodGet, "/api/todos", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetTodoByID(t *testing.T) {
	svc := &fakeTodoService{todos: []service.TodoResponse{{ID: 1, Title: "a"}}}
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodGet, "/api/todos/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "a", got.Title)

	for _, path := range []string{"/api/todos/999", "/api/todos/0", "/api/todos/-1", "/api/todos/9223372036854775807"} {
		rec = do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec = do(t, h, http.MethodGet, "/api/todos/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTodoRejectsMissingTitle(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"title":null}`,
		`{"title":""}`,
		`{"title":"   "}`,
		`{"title":"\t\n"}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			svc := &fakeTodoService{}
			rec := do(t, newTestHandler(svc), http.MethodPost, "/api/todos", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `"Title is required"`, rec.Body.String())
			assert.Zero(t, svc.creates)
		})
	}
}

func TestCreateTodoEmptyBody(t *testing.T) {
	svc := &fakeTodoService{}
	req := httptest.NewRequest(http.MethodPost, "/api/todos", http.NoBody)
	rec := httptest.NewRecorder()
	newTestHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `"Title is required"`, rec.Body.String())
	assert.Zero(t, svc.creates)
}

func TestCreateTodoMalformedJSON(t *testing.T) {
	for _, body := range []string{`{"title":`, `{"title": 42}`, `not json`} {
		rec := do(t, newTestHandler(&fakeTodoService{}), http.MethodPost, "/api/todos", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"error"`, body)
	}
}

func TestCreateTodo(t *testing.T) {
	svc := &fakeTodoService{}
	rec := do(t, newTestHandler(svc), http.MethodPost, "/api/todos", `{"title":"  New todo "}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "New todo", got.Title)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, "/api/todos/1", rec.Header().Get("Location"))
}

func TestCreateTodoStoreFault(t *testing.T) {
	svc := &fakeTodoService{err: errors.New("boom")}
	rec := do(t, newTestHandler(svc), http.MethodPost, "/api/todos", `{"title":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeleteTodo(t *testing.T) {
	svc := &fakeTodoService{todos: []service.TodoResponse{{ID: 1, Title: "a"}}}
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodDelete, "/api/todos/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/todos/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/todos/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []int64{1, 1}, svc.deletes)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestHandler(&fakeTodoService{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	down := New(testHTTPConfig, &fakeTodoService{}, staticHealth{"status": "down"}, quietLog).RegisterRoutes()
	rec = do(t, down, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSwaggerDocs(t *testing.T) {
	h := newTestHandler(&fakeTodoService{})

	rec := do(t, h, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Info  struct{ Title string } `json:"info"`
		Paths map[string]map[string]json.RawMessage
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Todo API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/api/todos"], "post")
	assert.Contains(t, doc.Paths["/api/todos/{id}"], "delete")

	rec = do(t, h, http.MethodGet, "/swagger", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/swagger/index.html", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(&fakeTodoService{})

	req := httptest.NewRequest(http.MethodOptions, "/api/todos", nil)
	req.Header.Set("Origin", "https://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	req.Header.Set("Access-Control-Request-Headers", "X-Custom-Header")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// The full stack against the real seeded store.
func TestEndToEndWithMemoryStore(t *testing.T) {
	repo, err := repository.New(context.Background(), config.StoreConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	h := New(testHTTPConfig, service.NewTodoService(repo, quietLog), repo, quietLog).RegisterRoutes()

	rec := do(t, h, http.MethodGet, "/api/todos", "")
	var seeded []service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seeded))
	require.Len(t, seeded, 3)

	rec = do(t, h, http.MethodPost, "/api/todos", `{"title":"Workflow Test Todo"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(4), created.ID)

	rec = do(t, h, http.MethodGet, rec.Header().Get("Location"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Workflow Test Todo", fetched["title"])
	assert.Equal(t, false, fetched["isCompleted"])
	assert.Contains(t, fetched, "createdAt")

	rec = do(t, h, http.MethodDelete, "/api/todos/4", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/todos/4", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
