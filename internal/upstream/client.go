package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"posterminal/internal/domain"
)

// Client talks to the upstream retail API. All requests except Login
// carry the session bearer token; transport failures trip a circuit
// breaker shared by every endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker[response]
	logger  *log.Logger
}

type response struct {
	status int
	body   []byte
}

func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
			Name:    "upstream",
			Timeout: 30 * time.Second,
		}),
		logger: logger,
	}
}

// Login exchanges operator credentials for a session. It is the only
// call issued without a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	payload := map[string]string{"username": username, "password": password}
	res, err := c.do(ctx, "", http.MethodPost, "/api/login", payload)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthFailed, serviceMessage(res.body, "invalid username or password"))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.Unmarshal(res.body, &out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response carried no token", domain.ErrAuthFailed)
	}
	return &domain.Session{
		Token:    out.AccessToken,
		UserID:   out.User.ID,
		Username: out.User.Username,
	}, nil
}

// Logout invalidates the session token upstream.
func (c *Client) Logout(ctx context.Context, sess *domain.Session) error {
	_, err := c.call(ctx, sess, http.MethodPost, "/api/logout", nil)
	return err
}

// do issues one request through the circuit breaker. Only transport
// errors count as breaker failures; HTTP status handling stays with the
// caller.
func (c *Client) do(ctx context.Context, token, method, path string, payload interface{}) (response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.breaker.Execute(func() (response, error) {
		httpRes, err := c.httpc.Do(req)
		if err != nil {
			return response{}, err
		}
		defer httpRes.Body.Close()
		raw, err := io.ReadAll(httpRes.Body)
		if err != nil {
			return response{}, err
		}
		return response{status: httpRes.StatusCode, body: raw}, nil
	})
	if err != nil {
		c.logger.Printf("upstream %s %s: %v", method, path, err)
		return response{}, err
	}
	return res, nil
}

// call wraps do for authenticated endpoints and maps the status line to
// the error taxonomy. A missing token fails before any network I/O.
func (c *Client) call(ctx context.Context, sess *domain.Session, method, path string, payload interface{}) ([]byte, error) {
	if !sess.Valid() {
		return nil, domain.ErrAuthMissing
	}
	res, err := c.do(ctx, sess.Token, method, path, payload)
	if err != nil {
		return nil, err
	}
	switch {
	case res.status == http.StatusUnauthorized || res.status == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", domain.ErrAuthFailed, res.status)
	case res.status < 200 || res.status > 299:
		return nil, fmt.Errorf("%s (status %d)", serviceMessage(res.body, "request failed"), res.status)
	}
	return res.body, nil
}

// serviceMessage pulls the verbatim failure reason out of an upstream
// error envelope, falling back to a generic message.
func serviceMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fallback
}

// unwrapList resolves the catalog response shapes the service is known
// to produce: a bare array, {"data":[...]} or {"products":[...]}. The
// union is resolved once here and never branched on deeper in.
func unwrapList(body []byte, keys ...string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}
	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if inner := bytes.TrimSpace(raw); len(inner) > 0 && inner[0] == '[' {
			return inner, nil
		}
	}
	return nil, fmt.Errorf("invalid response format: no list under %s", strings.Join(keys, "/"))
}
