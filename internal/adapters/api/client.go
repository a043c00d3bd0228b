package api

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

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/pkg/httpx"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/apierr"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

const (
	retryBase = 500 * time.Millisecond
	retryMax  = 10 * time.Second
)

type Config struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	UserAgent         string
}

// Client talks to the stageassets REST backend. It implements the event,
// requirement, submission and file transport ports.
type Client struct {
	log        *logger.Logger
	cfg        Config
	base       *url.URL
	httpClient *http.Client

	// downloads are bounded by the caller's context, not a fixed timeout
	downloadClient *http.Client
	limiter        *rate.Limiter
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing api base url")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "stageassets-cli"
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		log:            log.With("client", "StageAssetsAPI"),
		cfg:            cfg,
		base:           base,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		downloadClient: &http.Client{},
		limiter:        rate.NewLimiter(limit, burst),
	}, nil
}

// BaseURL returns the normalized backend URL
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// errorBody is the backend's error envelope; message is a string or a list
type errorBody struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
	Code       string          `json:"code"`
}

func (c *Client) endpoint(path string) string {
	return c.cfg.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// doJSON performs a JSON request with retries and decodes the response into
// out (nil to discard).
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = b
	}

	requestID := uuid.NewString()
	idempotencyKey := ""
	if method == http.MethodPost {
		idempotencyKey = uuid.NewString()
	}

	newReq := func() (*http.Request, error) {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rd)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}
		c.authorize(req)
		return req, nil
	}

	raw, err := c.send(ctx, method+" "+path, c.cfg.MaxRetries, newReq)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapData(raw), out); err != nil {
		return apierr.New(0, "decode_error", fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// send runs newReq until it succeeds, fails permanently or retries run out,
// and returns the response body of the successful attempt.
func (c *Client) send(ctx context.Context, op string, retries int, newReq func() (*http.Request, error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apierr.New(0, "rate_limited", err)
		}

		req, err := newReq()
		if err != nil {
			return nil, fmt.Errorf("build request %s: %w", op, err)
		}

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = apierr.New(0, apierr.CodeTransport, err)
			if !shouldRetry(ctx, attempt, retries, lastErr) {
				return nil, lastErr
			}
			c.log.Warn("request failed, retrying", "op", op, "attempt", attempt+1, "error", err)
			if err := httpx.Sleep(ctx, httpx.JitterSleep(httpx.Backoff(attempt, retryBase, retryMax))); err != nil {
				return nil, apierr.New(0, "canceled", err)
			}
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.log.Debug("api call", "op", op, "status", resp.StatusCode, "duration", time.Since(started).String())

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				return nil, apierr.New(resp.StatusCode, "read_error", readErr)
			}
			return raw, nil
		}

		lastErr = parseError(resp.StatusCode, raw)
		if !shouldRetry(ctx, attempt, retries, lastErr) {
			return nil, lastErr
		}
		wait := httpx.RetryAfterDuration(resp, httpx.Backoff(attempt, retryBase, retryMax), retryMax)
		c.log.Warn("backend returned retryable status", "op", op, "status", resp.StatusCode, "attempt", attempt+1, "wait", wait.String())
		if err := httpx.Sleep(ctx, httpx.JitterSleep(wait)); err != nil {
			return nil, apierr.New(0, "canceled", err)
		}
	}
	return nil, lastErr
}

func shouldRetry(ctx context.Context, attempt, retries int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return attempt < retries && httpx.IsRetryableError(err)
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
}

func parseError(status int, raw []byte) *apierr.Error {
	e := &apierr.Error{Status: status, Code: strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		e.Message = msg
		return e
	}
	if body.Code != "" {
		e.Code = body.Code
	}
	e.Message = decodeMessage(body.Message)
	if e.Message == "" {
		e.Message = body.Error
	}
	return e
}

func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(raw)
}

// unwrapData accepts both bare payloads and {"data": ...} envelopes
func unwrapData(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return raw
	}
	if data, ok := env["data"]; ok && len(data) > 0 {
		return data
	}
	return raw
}
