// Package limiter provides admission control for outbound API
// connections. The client acquires a slot before every request, so at most
// the configured number of calls are in flight at any instant.
package limiter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for connection admission.
var (
	inflightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pageviews_inflight_requests",
		Help: "Requests currently admitted by the connection limiter",
	})

	limiterWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pageviews_limiter_waits_total",
		Help: "Total acquisitions that had to wait for a free connection slot",
	})
)

// Limiter is a counting semaphore over connection slots.
type Limiter struct {
	slots chan struct{}
}

// New creates a limiter admitting at most max concurrent requests.
func New(max int) *Limiter {
	if max <= 0 {
		max = 10
	}
	return &Limiter{slots: make(chan struct{}, max)}
}

// Acquire blocks until a connection slot is free or the context is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		inflightRequests.Inc()
		return nil
	default:
	}

	limiterWaitsTotal.Inc()
	select {
	case l.slots <- struct{}{}:
		inflightRequests.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a previously acquired slot.
func (l *Limiter) Release() {
	<-l.slots
	inflightRequests.Dec()
}

// Cap returns the maximum number of concurrently admitted requests.
func (l *Limiter) Cap() int {
	return cap(l.slots)
}
