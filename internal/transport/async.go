package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/venari/venari/internal/metrics"
	"github.com/venari/venari/pkg/types"
)

// AsyncClient is the non-blocking transport: many logical exchanges
// interleave on few goroutines, suspending at the pre-send delay, the
// retry backoff, and network I/O via the caller's context.
//
// Unlike the blocking Client it supports a single proxy URL: the HTTP
// proxy value is preferred, falling back to the HTTPS value when only
// that is configured. This asymmetry is a documented limitation, not
// an oversight to unify away.
type AsyncClient struct {
	core *core
}

// NewAsyncClient creates a non-blocking transport. The connection limit
// is left unbounded; concurrency control is entirely the orchestrator's
// responsibility.
func NewAsyncClient(cfg *types.Config, m *metrics.Metrics) (*AsyncClient, error) {
	client := newHTTPClient(cfg, singleProxy(cfg.Proxy), true)

	core, err := newCore(cfg, client, m)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{core: core}, nil
}

// Execute starts one exchange and returns a channel that yields the
// result and closes. Each call owns its own timing and buffers;
// concurrent calls are independent.
func (c *AsyncClient) Execute(ctx context.Context, spec *types.RequestSpec) <-chan *types.ExchangeResult {
	out := make(chan *types.ExchangeResult, 1)
	go func() {
		defer close(out)
		out <- c.core.run(ctx, spec, contextSleep)
	}()
	return out
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// singleProxy degrades the dual proxy configuration to one URL
func singleProxy(cfg types.ProxySettings) func(*http.Request) (*url.URL, error) {
	if !cfg.Enabled {
		return nil
	}

	proxy := parseProxyURL(cfg.HTTP)
	if proxy == nil {
		proxy = parseProxyURL(cfg.HTTPS)
	}
	if proxy == nil {
		return nil
	}
	return http.ProxyURL(proxy)
}
