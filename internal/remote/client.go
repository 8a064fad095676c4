// Package remote talks to the portal's collaborators over HTTP: the supplier
// directory, the document catalog and the submission intake.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds lookups and catalog calls.
	Timeout time.Duration
	// SubmitTimeout bounds uploads to the intake.
	SubmitTimeout time.Duration
	Breaker       BreakerConfig
	// HTTPClient replaces the default transport, mostly for tests.
	HTTPClient *http.Client
}

// Client reaches the collaborators behind one base URL.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	submitTimeout time.Duration
	breaker       *Breaker
}

// NewClient creates a client for opts.BaseURL.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 60 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		httpClient:    hc,
		timeout:       opts.Timeout,
		submitTimeout: opts.SubmitTimeout,
		breaker:       NewBreaker(opts.Breaker),
	}
}

// BaseURL returns the collaborator root this client calls.
func (c *Client) BaseURL() string { return c.baseURL }

// BreakerState exposes the breaker for health reporting.
func (c *Client) BreakerState() BreakerState { return c.breaker.State() }

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends req through the breaker and decodes a JSON success body into out.
func (c *Client) do(service string, req *http.Request, out any) error {
	return c.breaker.Execute(func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s: unreachable: %w", service, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
			return &StatusError{Service: service, StatusCode: resp.StatusCode}
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &MalformedError{Service: service, Err: err}
		}
		return nil
	})
}

func (c *Client) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
