package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle caps the request rate across all exchanges flowing through
// one transport instance
type Throttle struct {
	limiter *rate.Limiter
	enabled bool
}

// NewThrottle creates a throttle; zero or negative rates disable it
func NewThrottle(requestsPerSecond float64) *Throttle {
	if requestsPerSecond <= 0 {
		return &Throttle{enabled: false}
	}

	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		enabled: true,
	}
}

// Wait blocks until the next exchange may start
func (t *Throttle) Wait(ctx context.Context) error {
	if !t.enabled {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// Allow reports whether an exchange may start without waiting
func (t *Throttle) Allow() bool {
	if !t.enabled {
		return true
	}
	return t.limiter.Allow()
}
