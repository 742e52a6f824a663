// Package xapi provides a thin client for the X (Twitter) API v2.
//
// The client issues a single GET per call, attaches the Bearer credential,
// and classifies every outcome into the error types in errors.go. It never
// retries: every operation served through it is a read, and the caller is
// expected to surface failures as-is.
package xapi

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the versioned X API root.
const DefaultBaseURL = "https://api.x.com/2/"

const defaultTimeout = 30 * time.Second

var tracer = otel.Tracer("xmcp/server/pkg/xapi")

// Client calls the X API v2 with a pre-issued Bearer token.
// The token is injected at construction; an empty token is not an error
// until a request is attempted, so a server without credentials still
// starts and reports the problem per call.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// NewClient creates a client with the given Bearer token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path joins path segments into a relative endpoint path, percent-encoding
// each segment. Identifiers coming from tool arguments must pass through
// here rather than being concatenated by the caller.
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// Get issues one GET against the given relative path and classifies the
// outcome. Evaluation order: missing credential, transport failure, non-2xx
// status, API-level errors embedded in a 2xx body, success.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Envelope, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	ctx, span := tracer.Start(ctx, "xapi.Get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("xapi.path", path)),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		terr := &TransportError{Err: err, Timeout: isTimeout(err)}
		span.RecordError(terr)
		return nil, terr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err, Timeout: isTimeout(err)}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	if len(env.Errors) > 0 {
		// The API can return 200 with partial, per-item errors.
		return nil, &APIError{Details: env.Errors}
	}
	return env, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
