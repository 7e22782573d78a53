package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/may15-go/blogs"
	"github.com/user/may15-go/tags"
	"github.com/user/may15-go/users"
)

const defaultTimeout = 10 * time.Second

// APIError is an {"error": "..."} answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	Tags  *Resource[tags.Tag, tags.CreateTagRequest, tags.UpdateTagRequest]
	Users *Resource[users.User, User, users.UpdateUserRequest]
	Blogs *Resource[blogs.Blog, blogs.CreateBlogRequest, blogs.UpdateBlogRequest]
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Tags = &Resource[tags.Tag, tags.CreateTagRequest, tags.UpdateTagRequest]{c: c, path: "/api/tags"}
	c.Users = &Resource[users.User, User, users.UpdateUserRequest]{c: c, path: "/api/users"}
	c.Blogs = &Resource[blogs.Blog, blogs.CreateBlogRequest, blogs.UpdateBlogRequest]{c: c, path: "/api/blogs"}
	return c
}

// Resource is the typed view of one collection endpoint. T is the stored record,
// C the create body and U the update body.
type Resource[T, C, U any] struct {
	c    *Client
	path string
}

// envelope covers both response shapes: data for list/get/create, response for
// update/delete, error for failures.
type envelope[T any] struct {
	Message  string `json:"message"`
	Data     T      `json:"data"`
	Response T      `json:"response"`
	Error    string `json:"error"`
}

// List returns the records matching query (nil for no filter). An empty collection is
// an empty slice whichever way the server reports it.
func (r *Resource[T, C, U]) List(ctx context.Context, query url.Values) ([]T, error) {
	path := r.path
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	env, err := do[[]T](ctx, r.c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if env == nil || env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

// Get returns the record, or nil when the server has no content for id.
func (r *Resource[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	env, err := do[*T](ctx, r.c, http.MethodGet, r.path+"/"+url.PathEscape(id), nil)
	if err != nil || env == nil {
		return nil, err
	}
	return env.Data, nil
}

// Create posts body and returns the stored record.
func (r *Resource[T, C, U]) Create(ctx context.Context, body *C) (*T, error) {
	env, err := do[*T](ctx, r.c, http.MethodPost, r.path, body)
	if err != nil || env == nil {
		return nil, err
	}
	return env.Data, nil
}

// Update patches the record and returns it as it was before, or nil if id matched nothing.
func (r *Resource[T, C, U]) Update(ctx context.Context, id string, body *U) (*T, error) {
	env, err := do[*T](ctx, r.c, http.MethodPatch, r.path+"/"+url.PathEscape(id), body)
	if err != nil || env == nil {
		return nil, err
	}
	return env.Response, nil
}

// Delete removes the record and returns it, or nil if id matched nothing.
func (r *Resource[T, C, U]) Delete(ctx context.Context, id string) (*T, error) {
	env, err := do[*T](ctx, r.c, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil)
	if err != nil || env == nil {
		return nil, err
	}
	return env.Response, nil
}

// do sends one request. A 204 answer yields a nil envelope.
func do[T any](ctx context.Context, c *Client, method, path string, body any) (*envelope[T], error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s %s: decode response (status %s): %w", method, path, resp.Status, err)
	}
	if env.Error != "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	return &env, nil
}
