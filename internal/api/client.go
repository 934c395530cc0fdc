package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nhle/todoapp/internal/model"
)

// Client is a thin HTTP client for the todo REST API. It handles JSON
// marshaling and attaches a request id to every call. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new API client rooted at baseURL
// (e.g., https://mate.academy/students-api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ TodoAPI = (*Client)(nil)

// List fetches every todo belonging to userID.
func (c *Client) List(ctx context.Context, userID int) ([]model.Todo, error) {
	q := url.Values{}
	q.Set("userId", strconv.Itoa(userID))

	var todos []model.Todo
	if err := c.do(ctx, http.MethodGet, "/todos?"+q.Encode(), nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Create posts a new todo.
func (c *Client) Create(ctx context.Context, req CreateRequest) (model.Todo, error) {
	var todo model.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", req, &todo); err != nil {
		return model.Todo{}, err
	}
	return todo, nil
}

// Update sends the full todo to replace the stored one.
func (c *Client) Update(ctx context.Context, id int, todo model.Todo) (model.Todo, error) {
	var updated model.Todo
	if err := c.do(ctx, http.MethodPatch, todoPath(id), todo, &updated); err != nil {
		return model.Todo{}, err
	}
	return updated, nil
}

// Delete removes a todo.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, todoPath(id), nil, nil)
}

func todoPath(id int) string {
	return "/todos/" + strconv.Itoa(id)
}

// do builds the request, sends it once, and decodes a JSON response into
// result when result is non-nil.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	// No content to parse (e.g. 204 on delete).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
