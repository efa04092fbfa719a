package backend

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
	"github.com/riskibarqy/hockey-roster/internal/platform/resilience"
)

const (
	RESTPrefix = "/rest/v1/"
	AuthPrefix = "/auth/v1/"

	PreferReturnRepresentation = "return=representation"

	maxResponseBytes = 8 << 20
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	// Timeout of 0 leaves requests bounded only by the caller's context.
	Timeout        time.Duration
	Logger         *logging.Logger
	Clock          clockwork.Clock
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Request is one call against the backend. Path is relative to the base URL,
// e.g. "/rest/v1/teams". Query is an already encoded query string.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   any
	Prefer string
	// BearerToken overrides the API key in the Authorization header.
	BearerToken string
}

// Client sends JSON requests to the hosted backend with the project API key
// attached. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, crerr.New("backend base url is required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, crerr.New("backend api key is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger.Named("backend"),
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker, cfg.Clock),
	}, nil
}

// Do sends req and decodes a 2xx JSON body into out. An empty body leaves
// out untouched. out may be nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "backend circuit breaker rejected request", "path", req.Path, "state", c.breaker.State())
		return &NetworkError{Method: method, Path: req.Path, Err: err}
	}

	raw, err := c.execute(ctx, method, req)
	c.breaker.Record(err, isCircuitFailure)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return crerr.Wrapf(err, "decode backend response %s %s", method, req.Path)
	}
	return nil
}

func (c *Client) execute(ctx context.Context, method string, req Request) ([]byte, error) {
	fullURL := c.baseURL + req.Path
	if req.Query != "" {
		fullURL += "?" + req.Query
	}

	var body io.Reader
	if req.Body != nil {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		if err := sonic.ConfigDefault.NewEncoder(buf).Encode(req.Body); err != nil {
			return nil, crerr.Wrapf(err, "encode request body %s %s", method, req.Path)
		}
		// The transport may still be reading the body after the response
		// arrives, so it must not share the pooled slice.
		body = bytes.NewReader(append([]byte(nil), buf.B...))
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, crerr.Wrap(err, "build backend request")
	}

	token := c.apiKey
	if req.BearerToken != "" {
		token = req.BearerToken
	}
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.Prefer != "" {
		httpReq.Header.Set("Prefer", req.Prefer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed", "method", method, "path", req.Path, "error", err)
		return nil, &NetworkError{Method: method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Method: method, Path: req.Path, Err: crerr.Wrap(err, "read response body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.DebugContext(ctx, "backend non-2xx", "method", method, "path", req.Path, "status_code", resp.StatusCode)
		return nil, &TransportError{
			Method:     method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       raw,
		}
	}

	return raw, nil
}

func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}
