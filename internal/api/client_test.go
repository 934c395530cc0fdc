package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todoapp/internal/model"
)

// recorded captures the request a test server saw.
type recorded struct {
	method    string
	path      string
	query     string
	body      string
	requestID string
	ctype     string
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.body = string(body)
		rec.requestID = r.Header.Get("X-Request-ID")
		rec.ctype = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestList(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK,
		`[{"id":1,"userId":962,"title":"A","completed":false},{"id":2,"userId":962,"title":"B","completed":true}]`)

	todos, err := NewClient(srv.URL+"/").List(context.Background(), 962)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/todos", rec.path)
	assert.Equal(t, "userId=962", rec.query)
	assert.NotEmpty(t, rec.requestID)
	assert.Equal(t, []model.Todo{
		{ID: 1, UserID: 962, Title: "A"},
		{ID: 2, UserID: 962, Title: "B", Completed: true},
	}, todos)
}

func TestListEmptyBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "")

	todos, err := NewClient(srv.URL).List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestCreate(t *testing.T) {
	srv, rec := newServer(t, http.StatusCreated,
		`{"id":7,"userId":962,"title":"Buy milk","completed":false}`)

	todo, err := NewClient(srv.URL).Create(context.Background(), CreateRequest{
		UserID: 962,
		Title:  "Buy milk",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/todos", rec.path)
	assert.Contains(t, rec.ctype, "application/json")

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(rec.body), &sent))
	assert.Equal(t, map[string]interface{}{
		"userId":    float64(962),
		"title":     "Buy milk",
		"completed": false,
	}, sent)

	assert.Equal(t, model.Todo{ID: 7, UserID: 962, Title: "Buy milk"}, todo)
}

func TestUpdateSendsFullItem(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK,
		`{"id":3,"userId":962,"title":"A","completed":true}`)

	in := model.Todo{ID: 3, UserID: 962, Title: "A", Completed: true}
	out, err := NewClient(srv.URL).Update(context.Background(), 3, in)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, "/todos/3", rec.path)

	var sent model.Todo
	require.NoError(t, json.Unmarshal([]byte(rec.body), &sent))
	assert.Equal(t, in, sent)
	assert.Equal(t, in, out)
}

func TestDelete(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, "1")

	err := NewClient(srv.URL).Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/todos/5", rec.path)
	assert.Empty(t, rec.body)
}

func TestNon2xxIsStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
	}{
		{"list", http.StatusInternalServerError, func(c *Client) error {
			_, err := c.List(context.Background(), 1)
			return err
		}},
		{"create", http.StatusBadRequest, func(c *Client) error {
			_, err := c.Create(context.Background(), CreateRequest{Title: "x"})
			return err
		}},
		{"update", http.StatusNotFound, func(c *Client) error {
			_, err := c.Update(context.Background(), 9, model.Todo{ID: 9})
			return err
		}},
		{"delete", http.StatusNotFound, func(c *Client) error {
			return c.Delete(context.Background(), 9)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, `{"error":"nope"}`)

			err := tt.call(NewClient(srv.URL))
			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestTransportError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "[]")
	srv.Close()

	_, err := NewClient(srv.URL).List(context.Background(), 1)
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failures carry no status")
}

func TestMalformedResponse(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "{not json")

	_, err := NewClient(srv.URL).Create(context.Background(), CreateRequest{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshaling response")
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, "[]")
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, WithTimeout(20*time.Millisecond)).List(context.Background(), 1)
	require.Error(t, err)
}
