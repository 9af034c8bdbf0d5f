// Package httpclient provides the resilient call wrapper UI-facing code uses
// to reach the portal API. Every call terminates with either normalized data
// or a normalized, typed error, after bounded retry and a hard per-attempt
// timeout.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vidanova-church/portal/internal/platform/httpx"
)

// Config tunes the retry and timeout policy of an Executor.
type Config struct {
	// MaxRetries bounds retry attempts after the first try. Zero means the
	// default of 3; negative disables retries entirely.
	MaxRetries int
	// RetryDelay is the base backoff delay; attempt N waits RetryDelay * 2^N.
	RetryDelay time.Duration
	// Timeout is the hard deadline for each individual attempt.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = 3
	case c.MaxRetries < 0:
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// RequestOptions carry the outbound request parameters. Retries reuse them
// verbatim; only the attempt counter changes between attempts.
type RequestOptions struct {
	Method  string
	Headers http.Header
	Body    []byte
}

// CallError is the normalized failure of a call.
type CallError struct {
	Type      httpx.ErrorType
	Code      string
	Message   string
	Details   map[string]any
	Status    int
	RequestID string
	// Retries is the number of retries consumed before finalizing.
	Retries int
}

func (e *CallError) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Type, e.Message)
}

// State is the observable snapshot exposed to callers. Concurrent calls on
// one Executor share it last-writer-wins; callers needing isolation must use
// separate executors.
type State struct {
	Loading bool
	Data    json.RawMessage
	Err     *CallError
}

// Executor issues resilient HTTP calls.
type Executor struct {
	cfg       Config
	client    *http.Client
	logger    *slog.Logger
	retryHook func(target string, attempt int)

	state stateBox
}

// Option customizes an Executor.
type Option func(*Executor)

// WithHTTPClient substitutes the underlying transport.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) { e.client = client }
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithRetryHook registers a callback fired before each retry attempt.
func WithRetryHook(hook func(target string, attempt int)) Option {
	return func(e *Executor) { e.retryHook = hook }
}

// New constructs an Executor.
func New(cfg Config, opts ...Option) *Executor {
	e := &Executor{
		cfg:    cfg.withDefaults(),
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a snapshot of the shared observable state.
func (e *Executor) State() State {
	return e.state.snapshot()
}

// Reset clears loading, error and data. It is the only way state is cleared
// outside of a call finalizing.
func (e *Executor) Reset() {
	e.state.set(State{})
}

// Call issues the request against target, retrying transport failures,
// timeouts and 429/503 responses with exponential backoff. Exactly one of
// the returned values is non-nil.
func (e *Executor) Call(ctx context.Context, target string, opts RequestOptions) (json.RawMessage, *CallError) {
	e.state.set(State{Loading: true})

	for attempt := 0; ; attempt++ {
		data, callErr, retryable := e.attempt(ctx, target, opts)
		if callErr == nil {
			e.state.set(State{Data: data})
			return data, nil
		}

		if retryable && attempt < e.cfg.MaxRetries {
			delay := e.cfg.RetryDelay * (1 << attempt)
			if e.logger != nil {
				e.logger.Warn("retrying request",
					slog.String("target", target),
					slog.Int("attempt", attempt+1),
					slog.Duration("delay", delay),
					slog.String("type", string(callErr.Type)))
			}
			if e.retryHook != nil {
				e.retryHook(target, attempt+1)
			}
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				callErr = classifyTransport(ctx.Err(), false)
			}
		}

		callErr.Retries = attempt
		e.state.set(State{Err: callErr})
		return nil, callErr
	}
}

// attempt performs one request. The third return reports whether the failure
// qualifies for backoff-and-retry.
func (e *Executor) attempt(ctx context.Context, target string, opts RequestOptions) (json.RawMessage, *CallError, bool) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, target, body)
	if err != nil {
		return nil, &CallError{Type: httpx.TypeNetwork, Code: "NETWORK", Message: err.Error()}, false
	}
	for key, values := range opts.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if len(opts.Body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := e.client.Do(req)
	if err != nil {
		timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		return nil, classifyTransport(err, timedOut), true
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, classifyTransport(err, false), true
	}

	if res.StatusCode >= 400 {
		callErr := parseErrorBody(raw, res.StatusCode, res.Status)
		retryable := res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusServiceUnavailable
		return nil, callErr, retryable
	}

	// The envelope's own success flag is authoritative over the HTTP status:
	// a 2xx body carrying success:false is still an error.
	if declared, callErr := declaredFailure(raw, res.StatusCode); declared {
		return nil, callErr, false
	}

	return json.RawMessage(raw), nil, false
}

func classifyTransport(err error, timedOut bool) *CallError {
	if timedOut || errors.Is(err, context.DeadlineExceeded) {
		return &CallError{Type: httpx.TypeTimeout, Code: "TIMEOUT", Message: "request exceeded configured deadline"}
	}
	msg := "network failure before any response"
	if err != nil {
		msg = err.Error()
	}
	return &CallError{Type: httpx.TypeNetwork, Code: "NETWORK", Message: msg}
}

// bodyProbe sniffs the three error shapes routes have historically produced.
type bodyProbe struct {
	Success *bool           `json:"success"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// parseErrorBody normalizes a non-2xx body with a fixed priority: structured
// envelope first, then a generic error field, then the status text.
func parseErrorBody(raw []byte, status int, statusText string) *CallError {
	fallback := &CallError{
		Type:    typeForStatus(status),
		Code:    strings.ToUpper(string(typeForStatus(status))),
		Message: strings.TrimSpace(strings.TrimPrefix(statusText, fmt.Sprintf("%d", status))),
		Status:  status,
	}

	var probe bodyProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fallback
	}

	if len(probe.Error) > 0 {
		var structured httpx.ErrorBody
		if err := json.Unmarshal(probe.Error, &structured); err == nil && structured.Message != "" {
			typ := structured.Type
			if typ == "" {
				typ = typeForStatus(status)
			}
			code := structured.Code
			if code == "" {
				code = strings.ToUpper(string(typ))
			}
			return &CallError{
				Type:      typ,
				Code:      code,
				Message:   structured.Message,
				Details:   structured.Details,
				Status:    status,
				RequestID: structured.RequestID,
			}
		}
		var plain string
		if err := json.Unmarshal(probe.Error, &plain); err == nil && plain != "" {
			fallback.Message = plain
			return fallback
		}
	}

	if probe.Message != "" {
		fallback.Message = probe.Message
	}
	return fallback
}

// declaredFailure detects a 2xx body that marks itself as failed.
func declaredFailure(raw []byte, status int) (bool, *CallError) {
	var probe bodyProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false, nil
	}
	if probe.Success == nil || *probe.Success {
		return false, nil
	}
	callErr := parseErrorBody(raw, status, http.StatusText(status))
	if callErr.Type == "" {
		callErr.Type = httpx.TypeServerError
		callErr.Code = "SERVER_ERROR"
	}
	return true, callErr
}

func typeForStatus(status int) httpx.ErrorType {
	switch status {
	case http.StatusBadRequest:
		return httpx.TypeValidation
	case http.StatusUnauthorized:
		return httpx.TypeUnauthorized
	case http.StatusForbidden:
		return httpx.TypeForbidden
	case http.StatusNotFound:
		return httpx.TypeNotFound
	case http.StatusConflict:
		return httpx.TypeConflict
	case http.StatusMultiStatus:
		return httpx.TypePartialFailure
	default:
		return httpx.TypeServerError
	}
}
