// Package api talks to the todo REST endpoint.
//
// The client does one request per call: no retries, no caching and no
// timeout other than the caller's context.
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

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

var (
	_ store.Backend[model.Todo]     = (*Client[model.Todo])(nil)
	_ store.Backend[model.TodoItem] = (*Client[model.TodoItem])(nil)
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client is a typed client for one todo collection endpoint.
type Client[T model.Entity] struct {
	base   string
	http   *http.Client
	logger *log.Logger
}

type clientOptions struct {
	http   *http.Client
	token  string
	logger *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.http = c }
}

// WithToken sends token as a bearer token on every request.
func WithToken(token string) ClientOption {
	return func(o *clientOptions) { o.token = strings.TrimSpace(token) }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient returns a client for the collection at baseURL, e.g.
// "https://jsonplaceholder.typicode.com/todos".
func NewClient[T model.Entity](baseURL string, opts ...ClientOption) (*Client[T], error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api url %q: missing host", baseURL)
	}

	o := clientOptions{http: http.DefaultClient, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.http
	if o.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: o.token,
			TokenType:   "Bearer",
		}))
	}

	return &Client[T]{
		base:   strings.TrimRight(u.String(), "/"),
		http:   hc,
		logger: o.logger,
	}, nil
}

// BaseURL returns the collection URL requests are sent to.
func (c *Client[T]) BaseURL() string { return c.base }

// List fetches every todo in the collection.
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.do(ctx, http.MethodGet, c.base, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create posts a new, not completed todo and returns what the server stored.
func (c *Client[T]) Create(ctx context.Context, title string) (T, error) {
	var item T
	body := map[string]any{"title": title, "completed": false}
	if err := c.do(ctx, http.MethodPost, c.base, body, &item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Update replaces the todo on the server. The server's reply is not
// merged back: the submitted item is returned as is.
func (c *Client[T]) Update(ctx context.Context, item T) (T, error) {
	if err := c.do(ctx, http.MethodPut, c.itemURL(item.EntityID()), item, nil); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// Delete removes the todo with the given id.
func (c *Client[T]) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client[T]) itemURL(id int64) string {
	return c.base + "/" + strconv.FormatInt(id, 10)
}

func (c *Client[T]) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", method, "url", target, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method: method,
			URL:    target,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}
