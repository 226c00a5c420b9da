package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/five82/coinsearch/internal/metrics"
)

const maxBackoff = 30 * time.Second

// serveFunc matches metrics.Serve.
type serveFunc func(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) error

// Swapped in tests.
var (
	serveMetrics    serveFunc = metrics.Serve
	restartInterval           = 2 * time.Second
)

// StartMetrics launches the metrics endpoint in a background goroutine and
// returns a channel closed once it has stopped. A listener that fails (port
// in use, for example) is restarted with exponential backoff until ctx is
// cancelled. An empty addr disables the endpoint.
func StartMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer, log *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if addr == "" {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		failures := 0
		for {
			err := serveMetrics(ctx, addr, gatherer, log)
			if ctx.Err() != nil {
				return
			}
			if err == nil {
				failures = 0
			} else {
				failures++
				log.Warn("metrics endpoint failed", zap.Error(err), zap.Int("failures", failures))
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(calculateBackoff(failures, restartInterval)):
			}
		}
	}()
	return done
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
