package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// ErrNotFound matches an *APIError carrying a 404.
var ErrNotFound = errors.New("not found")

// APIError is any non-2xx answer from the todo API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("todo api: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// APIClient talks to /api/todos under a base URL.
type APIClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewAPIClient parses apiBaseURL; a nil httpClient means http.DefaultClient.
func NewAPIClient(apiBaseURL string, httpClient *http.Client) (*APIClient, error) {
	u, err := url.Parse(strings.TrimSpace(apiBaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", apiBaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{baseURL: u, http: httpClient}, nil
}

func (c *APIClient) todosURL(elem ...string) string {
	return c.baseURL.JoinPath(append([]string{"api", "todos"}, elem...)...).String()
}

func (c *APIClient) List(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, c.todosURL(), nil, &todos); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

// Get fetches one todo; a missing id yields an error matching ErrNotFound.
func (c *APIClient) Get(ctx context.Context, id int64) (domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, http.MethodGet, c.todosURL(strconv.FormatInt(id, 10)), nil, &todo); err != nil {
		return domain.Todo{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return todo, nil
}

func (c *APIClient) Create(ctx context.Context, title string) (domain.Todo, error) {
	var todo domain.Todo
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, c.todosURL(), body, &todo); err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (c *APIClient) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, c.todosURL(strconv.FormatInt(id, 10)), nil, nil); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}

func (c *APIClient) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage understands both a bare JSON string and {"error": "..."}.
func errorMessage(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Error != "" {
		return obj.Error
	}
	return strings.TrimSpace(string(raw))
}
