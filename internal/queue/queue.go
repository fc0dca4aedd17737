package queue

import (
	"context"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/metrics"
)

const (
	KindMemory    = "memory"
	KindJetStream = "jetstream"

	maxBackoff = time.Hour
)

// HandlerFunc processes one dispatch request. A non-nil error asks for redelivery.
type HandlerFunc func(ctx context.Context, req common.DispatchNotificationMessage) error

type Publisher interface {
	Publish(ctx context.Context, req common.DispatchNotificationMessage) error
}

// Consumer runs handler over queued requests until ctx is cancelled.
type Consumer interface {
	Consume(ctx context.Context, handler HandlerFunc) error
}

type Options struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	Metrics    *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MaxRetries < 1 {
		o.MaxRetries = 1
	}
	return o
}

func (o Options) countRetry(queue string) {
	if o.Metrics != nil {
		o.Metrics.QueueRetries.WithLabelValues(queue).Inc()
	}
}

// Backoff returns base*2^(attempt-1), capped at one hour.
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
