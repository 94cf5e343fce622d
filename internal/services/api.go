package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/shared"
	"golang.org/x/time/rate"
)

// ErrorKind categorizes API failures so callers can branch on a
// structured value instead of matching message text.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindUnauthorized
	KindNotFound
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// kindForStatus maps an HTTP status code to an [ErrorKind].
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindUnknown
	}
}

// APIError is the single error type for task service failures. Status
// is zero when the response never arrived.
type APIError struct {
	Status  int
	Kind    ErrorKind
	Message string
	err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api error (%s): %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("api error (%s, status %d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap exposes the underlying transport error or the sentinel
// matching the error kind, so callers can use [errors.Is].
func (e *APIError) Unwrap() error {
	if e.err != nil {
		return e.err
	}
	switch e.Kind {
	case KindUnauthorized:
		return shared.ErrSessionExpired
	case KindNotFound:
		return shared.ErrTaskNotFound
	default:
		return shared.ErrAPIRequest
	}
}

// CredentialStore is the slice of the session store the API client
// needs: the current bearer token, and invalidation on 401.
type CredentialStore interface {
	Token() string
	Clear() error
}

// Client issues authenticated JSON requests to the task service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      CredentialStore
	limiter    *rate.Limiter
}

// NewClient creates a task service client. A nil store means requests
// go out unauthenticated; ratePerSec <= 0 disables throttling.
func NewClient(baseURL string, httpClient *http.Client, store CredentialStore, ratePerSec float64) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		store:      store,
		limiter:    limiter,
	}
}

// errorBody matches the task service's error shape: detail is either a
// string or a list of field validation errors.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type fieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Request sends a JSON request and decodes the response into result.
// The bearer token is attached when the store holds one, and any
// caller-supplied headers override the defaults. On 401 the store is
// cleared before the error returns; on 204 the body is not decoded
// and result is left untouched.
func (c *Client) Request(ctx context.Context, method, path string, body, result any, headers ...http.Header) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &APIError{Kind: KindTransport, Message: "rate limiter interrupted", err: err}
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())
	if c.store != nil {
		if token := c.store.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for _, h := range headers {
		for key, values := range h {
			req.Header.Del(key)
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: "request failed", err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: "failed to read response", err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.store != nil {
			if err := c.store.Clear(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}
		}
		return &APIError{
			Status:  http.StatusUnauthorized,
			Kind:    KindUnauthorized,
			Message: "Session expired. Please log in again.",
		}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:  resp.StatusCode,
			Kind:    kindForStatus(resp.StatusCode),
			Message: extractErrorMessage(respBody, resp.Status),
		}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// extractErrorMessage pulls a human-readable message from an error
// body, falling back through detail, message, and the HTTP status text.
func extractErrorMessage(body []byte, statusText string) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if len(parsed.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(parsed.Detail, &detail); err == nil && detail != "" {
				return detail
			}

			var fields []fieldError
			if err := json.Unmarshal(parsed.Detail, &fields); err == nil && len(fields) > 0 {
				msgs := make([]string, 0, len(fields))
				for _, fe := range fields {
					if fe.Msg != "" {
						msgs = append(msgs, fe.Msg)
					}
				}
				if len(msgs) > 0 {
					return joinMessages(msgs)
				}
			}
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}

	if statusText != "" {
		return statusText
	}
	return "An error occurred"
}

func joinMessages(msgs []string) string {
	out := msgs[0]
	for _, m := range msgs[1:] {
		out += "; " + m
	}
	return out
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Request(ctx, http.MethodGet, path, nil, result)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Request(ctx, http.MethodPost, path, body, result)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.Request(ctx, http.MethodPut, path, body, result)
}

// Patch issues a PATCH request; body may be nil.
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.Request(ctx, http.MethodPatch, path, body, result)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}
