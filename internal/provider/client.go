package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout applies to specs that do not set their own.
	DefaultTimeout = 8 * time.Second

	maxBodyBytes    = 8 << 20
	maxSnippetBytes = 2 << 10
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=provider_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Spec is the static description of one upstream endpoint.
type Spec struct {
	// Name identifies the provider in logs and errors.
	Name string
	// Endpoint is a URL template; {key} placeholders are replaced with
	// query-escaped request parameters and {apikey} with Credential.
	Endpoint string
	// Credential is the API key for the endpoint, if any.
	Credential string
	// RequireCredential makes the call fail fast when Credential is empty.
	RequireCredential bool
	// Timeout bounds the whole call, body read included.
	Timeout time.Duration
	// BatchCap is the most symbols one call may carry.
	BatchCap int
	// Headers are set on every request to this endpoint.
	Headers map[string]string
	// Source is the tag stamped on records this endpoint produces.
	Source string
}

// URL interpolates params into the endpoint template.
func (s Spec) URL(params map[string]string) string {
	pairs := make([]string, 0, 2*len(params)+2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", url.QueryEscape(v))
	}
	pairs = append(pairs, "{apikey}", url.QueryEscape(s.Credential))
	return strings.NewReplacer(pairs...).Replace(s.Endpoint)
}

// Client issues single, bounded calls to upstream providers.
type Client struct {
	// httpClient is the HTTP client used for every call.
	httpClient HTTPClient
	// logger receives debug records for each call.
	logger *slog.Logger
}

// ClientOption is a configuration option for Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a provider client on top of httpClient.
func NewClient(httpClient HTTPClient, options ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	var c = &Client{
		httpClient: httpClient,
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Fetch performs exactly one GET against spec and returns the raw body.
// Every failure is returned as *Error.
func (c *Client) Fetch(ctx context.Context, spec Spec, params map[string]string) ([]byte, error) {
	if spec.RequireCredential && spec.Credential == "" {
		return nil, &Error{Provider: spec.Name, Reason: ReasonNoCredential, Err: ErrNoCredential}
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, spec.URL(params), http.NoBody)
	if err != nil {
		return nil, &Error{Provider: spec.Name, Reason: ReasonNetwork, Err: fmt.Errorf("creating request: %w", err)}
	}
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(spec.Name, callCtx, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxSnippetBytes))
		return nil, &Error{Provider: spec.Name, Reason: ReasonStatus, StatusCode: res.StatusCode, Body: string(snippet)}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(spec.Name, callCtx, fmt.Errorf("reading body: %w", err))
	}
	// A response that completed after the deadline fired is discarded.
	if callCtx.Err() != nil {
		return nil, classify(spec.Name, callCtx, callCtx.Err())
	}

	c.logger.Debug("provider call",
		"provider", spec.Name,
		"status", res.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(started),
	)
	return body, nil
}

// FetchJSON is Fetch followed by a JSON syntax check. The body is returned
// raw so the normalizer can decide which payload shape it holds.
func (c *Client) FetchJSON(ctx context.Context, spec Spec, params map[string]string) (json.RawMessage, error) {
	body, err := c.Fetch(ctx, spec, params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &Error{Provider: spec.Name, Reason: ReasonDecode, Err: fmt.Errorf("invalid JSON body (%d bytes)", len(body))}
	}
	return json.RawMessage(body), nil
}
