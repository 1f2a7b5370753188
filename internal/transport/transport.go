// Package transport executes single HTTP exchanges with bounded retry,
// optional throttling, and full request/response capture.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/venari/venari/internal/metrics"
	"github.com/venari/venari/pkg/types"
)

// retryBackoff is the fixed sleep between retry attempts
const retryBackoff = 1 * time.Second

// maxBodySize caps how much of a response body is read
const maxBodySize = 10 * 1024 * 1024 // 10MB

// sleeper waits for d. The blocking client sleeps unconditionally; the
// async client honors context cancellation.
type sleeper func(ctx context.Context, d time.Duration) error

// core holds the exchange algorithm shared by both client variants
type core struct {
	client   *http.Client
	retry    int
	delay    time.Duration
	throttle *Throttle
	debug    *debugWriter
	metrics  *metrics.Metrics
}

func newCore(cfg *types.Config, client *http.Client, m *metrics.Metrics) (*core, error) {
	debug, err := newDebugWriter(cfg)
	if err != nil {
		return nil, err
	}

	return &core{
		client:   client,
		retry:    cfg.Request.Retry,
		delay:    time.Duration(cfg.Request.Delay * float64(time.Second)),
		throttle: NewThrottle(cfg.Request.RateLimit),
		debug:    debug,
		metrics:  m,
	}, nil
}

// run executes one logical exchange: throttle, a single pre-send delay,
// then up to retry+1 attempts. Network failures become the 0-status
// sentinel; a received HTTP response of any status code is terminal.
func (c *core) run(ctx context.Context, spec *types.RequestSpec, sleep sleeper) *types.ExchangeResult {
	result := &types.ExchangeResult{
		Request: spec,
		Method:  spec.Method,
		URL:     spec.URL,
	}

	body, contentType, err := encodeBody(spec)
	if err != nil {
		// Malformed spec is a programmer error, not a transport failure
		result.Error = err.Error()
		result.RawRequest = buildRawRequest(spec, rawBodyString(spec))
		return result
	}

	targetURL, err := resolveURL(spec)
	if err != nil {
		result.Error = err.Error()
		result.RawRequest = buildRawRequest(spec, rawBodyString(spec))
		return result
	}

	result.RawRequest = buildRawRequest(spec, rawBodyString(spec))

	if err := c.throttle.Wait(ctx); err != nil {
		result.Error = err.Error()
		return result
	}

	// The configured delay applies exactly once per call, before the
	// attempt loop, not per attempt.
	if c.delay > 0 {
		if err := sleep(ctx, c.delay); err != nil {
			result.Error = err.Error()
			return result
		}
	}

	var resp *wireResponse
	var lastErr error
	start := time.Now()

	for attempt := 0; attempt <= c.retry; attempt++ {
		req, err := http.NewRequestWithContext(ctx, spec.Method, targetURL, bytes.NewReader(body))
		if err != nil {
			lastErr = err
			break
		}
		for key, value := range spec.Headers {
			req.Header.Set(key, value)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err = c.do(req)
		if err == nil {
			// Any received response, including 4xx/5xx, ends the loop
			break
		}

		lastErr = err
		resp = nil
		if attempt < c.retry {
			c.metrics.ObserveRetry()
			if serr := sleep(ctx, retryBackoff); serr != nil {
				lastErr = serr
				break
			}
		}
	}

	elapsed := time.Since(start)
	result.ResponseTime = elapsed.Seconds()

	if resp == nil {
		if lastErr != nil {
			result.Error = lastErr.Error()
		}
		result.ResponseHeaders = map[string]string{}
		result.ResponseBody = ""
		c.metrics.ObserveExchange(spec.Method, 0, elapsed)
		c.debug.capture(result)
		return result
	}

	result.StatusCode = resp.statusCode
	result.ResponseLength = len(resp.body)
	result.ResponseHeaders = resp.headers
	result.ResponseBody = parseBody(resp.headers, resp.body)
	result.Success = resp.statusCode < 400
	result.RawResponse = buildRawResponse(resp.statusCode, resp.headers, resp.body)

	c.metrics.ObserveExchange(spec.Method, resp.statusCode, elapsed)
	c.debug.capture(result)
	return result
}

// wireResponse is the fully read response of one attempt
type wireResponse struct {
	statusCode int
	headers    map[string]string
	body       []byte
}

func (c *core) do(req *http.Request) (*wireResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return &wireResponse{
		statusCode: resp.StatusCode,
		headers:    headers,
		body:       body,
	}, nil
}

// resolveURL merges the spec's query parameters into its URL
func resolveURL(spec *types.RequestSpec) (string, error) {
	u, err := url.Parse(spec.URL)
	if err != nil {
		return "", err
	}
	if len(spec.Params) > 0 {
		query := u.Query()
		for key, value := range spec.Params {
			query.Set(key, value)
		}
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// parseBody decodes JSON bodies to a structured value, anything else
// stays raw text
func parseBody(headers map[string]string, body []byte) any {
	if strings.Contains(headerValue(headers, "Content-Type"), "application/json") {
		var value any
		if err := json.Unmarshal(body, &value); err == nil {
			return value
		}
	}
	return string(body)
}

// headerValue does a case-insensitive header lookup
func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// newHTTPClient builds the pooled client shared by all exchanges
func newHTTPClient(cfg *types.Config, proxy func(*http.Request) (*url.URL, error), unboundedConns bool) *http.Client {
	transport := &http.Transport{
		Proxy:               proxy,
		MaxIdleConns:        cfg.Request.Threads * 2,
		MaxIdleConnsPerHost: cfg.Request.Threads,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			// Fuzzing targets are routinely self-signed; suppression
			// covers both certificate and hostname checks
			InsecureSkipVerify: !cfg.Target.VerifySSL,
		},
	}
	if unboundedConns {
		// Concurrency control belongs to the orchestrator
		transport.MaxConnsPerHost = 0
		transport.MaxIdleConnsPerHost = 100
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.Target.Timeout * float64(time.Second)),
	}
}
