package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/venari/venari/internal/metrics"
	"github.com/venari/venari/pkg/types"
)

// Client is the blocking transport: one call, one goroutine, parallelism
// bounded by the caller's worker pool. The underlying connection pool is
// safe for concurrent use.
type Client struct {
	core *core
}

// NewClient creates a blocking transport from the validated
// configuration. It fails only when the debug directory cannot be
// created.
func NewClient(cfg *types.Config, m *metrics.Metrics) (*Client, error) {
	client := newHTTPClient(cfg, schemeProxy(cfg.Proxy), false)

	core, err := newCore(cfg, client, m)
	if err != nil {
		return nil, err
	}
	return &Client{core: core}, nil
}

// Execute runs one exchange to completion. Ordinary network and HTTP
// failures never surface as errors; they are captured in the result.
func (c *Client) Execute(spec *types.RequestSpec) *types.ExchangeResult {
	return c.core.run(context.Background(), spec, blockingSleep)
}

func blockingSleep(_ context.Context, d time.Duration) error {
	time.Sleep(d)
	return nil
}

// schemeProxy selects a proxy by request scheme, honoring separate
// HTTP and HTTPS proxy URLs
func schemeProxy(cfg types.ProxySettings) func(*http.Request) (*url.URL, error) {
	if !cfg.Enabled {
		return nil
	}

	httpProxy := parseProxyURL(cfg.HTTP)
	httpsProxy := parseProxyURL(cfg.HTTPS)
	if httpProxy == nil && httpsProxy == nil {
		return nil
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != nil {
			return httpsProxy, nil
		}
		if httpProxy != nil {
			return httpProxy, nil
		}
		return httpsProxy, nil
	}
}

func parseProxyURL(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}
