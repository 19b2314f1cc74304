package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"Loadline/internal/store"
)

var (
	ErrNoAddress = errors.New("backend address is not configured")
	ErrNoToken   = errors.New("not logged in")
)

// StatusError is a non-200 answer from the backend.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: status %d", e.Op, e.Status)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == code
}

// Client talks to the calculation backend. The base address and the token are
// read from the store on every call, so a settings change applies to the next
// request. Requests have no timeout and are never retried.
type Client struct {
	Store      store.Store
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewClient(s store.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		Store:      s,
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

// Request builds and sends one request and returns the raw response. The
// caller owns the response body and interprets the status.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any, needsAuth bool) (*http.Response, error) {
	base, err := c.Store.Get(ctx, store.KeyAddress)
	if err != nil {
		return nil, fmt.Errorf("read backend address: %w", err)
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, ErrNoAddress
	}

	target := base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if needsAuth {
		token, err := c.Store.Get(ctx, store.KeyToken)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	c.Logger.Debug("backend request", "request_id", reqID, "method", method, "path", path)
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("backend response", "request_id", reqID, "path", path, "status", res.StatusCode)
	return res, nil
}

// call sends a request, requires 200 and decodes the JSON answer into out
// when out is non-nil.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body any, needsAuth bool, out any) error {
	res, err := c.Request(ctx, method, path, query, body, needsAuth)
	if err != nil {
		c.Logger.Error(op+" error", "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		se := &StatusError{Op: op, Status: res.StatusCode, Body: string(b)}
		c.Logger.Error(se.Error(), "status", res.StatusCode, "body", se.Body)
		return se
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		c.Logger.Error(op+" error", "error", err)
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
