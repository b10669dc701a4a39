// Package httpapi holds the JSON-over-HTTP plumbing shared by the platform
// adapters.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/crosspost/internal/domain"
)

const maxResponseBytes = 1 << 20

// StatusError is a non-2xx answer from a platform API.
type StatusError struct {
	StatusCode int
	Message    string
	RetryAfter string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("status %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RetryAfter != "" {
		msg += " (retry after " + e.RetryAfter + ")"
	}
	return msg
}

// Kind maps the status to a failure kind: 401/403 authentication, 429 rate
// limited, anything else rejected.
func (e *StatusError) Kind() domain.FailureKind {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.FailureAuthentication
	case http.StatusTooManyRequests:
		return domain.FailureRateLimited
	default:
		return domain.FailureRejected
	}
}

// Request is one JSON call. Body is encoded as JSON when non-nil and Out, when
// non-nil, receives the decoded 2xx response.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
	Out    any
}

type Client struct {
	HTTPClient *http.Client
	UserAgent  string
}

// Do sends req. Failures are *domain.PostError: network and cancellation
// problems carry their kinds, a non-2xx status wraps a *StatusError classified
// by StatusError.Kind, and an undecodable body is a malformed response.
func (c Client) Do(ctx context.Context, req Request) error {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for name, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return domain.NewPostError(domain.FailureCancelled, "", ctx.Err())
		}
		return domain.NewPostError(domain.FailureNetwork, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			Message:    decodeErrorMessage(resp.Body),
			RetryAfter: resp.Header.Get("Retry-After"),
		}
		return domain.NewPostError(statusErr.Kind(), "", statusErr)
	}

	if req.Out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(req.Out); err != nil {
		return domain.NewPostError(domain.FailureMalformedResponse, "decode response", err)
	}

	return nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// apiError covers the error bodies of the Mastodon, XRPC and Twitter v2 APIs.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var payload apiError
	if err := json.Unmarshal(raw, &payload); err != nil {
		return truncate(strings.TrimSpace(string(raw)))
	}

	var parts []string
	for _, candidate := range []string{payload.Error, payload.Message, payload.Title, payload.Detail} {
		if candidate != "" {
			parts = append(parts, candidate)
		}
	}
	for _, e := range payload.Errors {
		if e.Message != "" {
			parts = append(parts, e.Message)
		}
	}

	return truncate(strings.Join(parts, ": "))
}

func truncate(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// JoinURL resolves path against base, which must be an absolute http(s) URL.
func JoinURL(base string, path string) (string, error) {
	if base == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("api base url %q must use http or https", base)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("api base url %q has no host", base)
	}

	endpoint, err := parsed.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
