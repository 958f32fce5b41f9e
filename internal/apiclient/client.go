// Package apiclient talks to the StudyHub REST API.
package apiclient

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

	"study-booking/internal/data/entity"
	"study-booking/internal/dto/request"
)

// APIError is returned for any non-2xx response. Message is the response
// body, or the status text when the body is empty.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request and decodes the JSON response into out, which may
// be nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response %s %s: %w", method, path, err)
	}
	return nil
}

// Get fetches path and decodes the body as T. Its signature matches
// loader.FetchFunc once bound to a client.
func Get[T any](c *Client) func(ctx context.Context, path string) (T, error) {
	return func(ctx context.Context, path string) (T, error) {
		var out T
		err := c.Do(ctx, http.MethodGet, path, nil, &out)
		return out, err
	}
}

func RoomsPath(category entity.Category) string {
	return "/rooms?category=" + url.QueryEscape(string(category))
}

func ClassesPath(category entity.Category) string {
	return "/classes?category=" + url.QueryEscape(string(category))
}

const BlogsPath = "/blogs"

func (c *Client) Rooms(ctx context.Context, category entity.Category) ([]entity.Unit, error) {
	return Get[[]entity.Unit](c)(ctx, RoomsPath(category))
}

func (c *Client) Classes(ctx context.Context, category entity.Category) ([]entity.Unit, error) {
	return Get[[]entity.Unit](c)(ctx, ClassesPath(category))
}

func (c *Client) Blogs(ctx context.Context) ([]entity.Post, error) {
	return Get[[]entity.Post](c)(ctx, BlogsPath)
}

func (c *Client) CreateBlog(ctx context.Context, req request.CreatePostRequest) (*entity.Post, error) {
	var post entity.Post
	if err := c.Do(ctx, http.MethodPost, BlogsPath, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}
