// Package client talks to the NoteMaster REST API with the same method set
// the in-memory gateway offers, so a session can run against either.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/notemaster-api/internal/domain/apperror"
	"github.com/oksasatya/notemaster-api/internal/domain/entity"
)

// Options configures New.
type Options struct {
	// BaseURL points at the /api prefix, e.g. http://localhost:8080/api.
	BaseURL string
	Timeout time.Duration
	Retries int
	Logger  *logrus.Logger
}

type Client struct {
	http   *resty.Client
	logger *logrus.Logger

	mu    sync.RWMutex
	token string
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)
	return &Client{http: rc, logger: logger}
}

// only reads are retried; a replayed POST could create twice
func retryCondition(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || code == http.StatusBadGateway || code == http.StatusServiceUnavailable
}

type envelope[T any] struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type failure struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var (
		out  envelope[T]
		fail failure
		zero T
	)
	req := c.http.R().SetContext(ctx).SetResult(&out).SetError(&fail)
	if tok := c.Token(); tok != "" {
		req.SetAuthToken(tok)
	}
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode(),
		}).Debug("api call failed")
		return zero, statusError(resp.StatusCode(), fail)
	}
	return out.Data, nil
}

// statusError maps an HTTP failure back to the apperror kinds.
func statusError(status int, f failure) error {
	msg := f.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusBadRequest:
		fields := map[string]string{}
		if len(f.Error) > 0 {
			_ = json.Unmarshal(f.Error, &fields)
		}
		if len(fields) == 0 {
			fields["payload"] = msg
		}
		return &apperror.ValidationError{Fields: fields}
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, apperror.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, apperror.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", msg, apperror.ErrConflict)
	case http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, context.DeadlineExceeded)
	}
	return fmt.Errorf("api error: %s (status %d)", msg, status)
}

// Token returns the current access token, empty before Login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

type sessionPayload struct {
	User        *entity.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

func (c *Client) Login(ctx context.Context, cred entity.Credentials) (*entity.User, error) {
	p, err := call[sessionPayload](ctx, c, http.MethodPost, "/login", nil, cred)
	if err != nil {
		return nil, err
	}
	if p.User == nil {
		return nil, errors.New("login: empty user in response")
	}
	c.setToken(p.AccessToken)
	return p.User, nil
}

// Logout ends the server session. The local token is dropped even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.setToken("")
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, "/logout", nil, nil)
	return err
}

func (c *Client) Me(ctx context.Context) (*entity.User, error) {
	return call[*entity.User](ctx, c, http.MethodGet, "/me", nil, nil)
}

func idPath(prefix, id string, rest ...string) string {
	return prefix + "/" + strings.Join(append([]string{url.PathEscape(id)}, rest...), "/")
}
