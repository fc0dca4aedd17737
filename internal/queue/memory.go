package queue

import (
	"context"
	"sync"
	"time"

	"GoLoyalty/internal/common"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrQueueClosed = errors.New("queue closed")

// MemoryQueue is an in-process queue for development and single-binary setups.
// Requests are lost on restart.
type MemoryQueue struct {
	requests chan common.DispatchNotificationMessage
	opts     Options
	log      logrus.FieldLogger
	done     chan struct{}
	once     sync.Once
}

func NewMemoryQueue(bufferSize int, opts Options, log logrus.FieldLogger) *MemoryQueue {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &MemoryQueue{
		requests: make(chan common.DispatchNotificationMessage, bufferSize),
		opts:     opts.withDefaults(),
		log:      log.WithField("queue", KindMemory),
		done:     make(chan struct{}),
	}
}

// Publish blocks while the buffer is full.
func (q *MemoryQueue) Publish(ctx context.Context, req common.DispatchNotificationMessage) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.requests <- req:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "failed to enqueue dispatch request")
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, handler HandlerFunc) error {
	var wg sync.WaitGroup
	for i := 0; i < q.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-q.done:
					return
				case req := <-q.requests:
					q.process(ctx, req, handler)
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

func (q *MemoryQueue) process(ctx context.Context, req common.DispatchNotificationMessage, handler HandlerFunc) {
	log := q.log.WithField("notification_id", req.Notification.ID)

	for attempt := 1; ; attempt++ {
		err := handler(ctx, req)
		if err == nil {
			return
		}
		if attempt >= q.opts.MaxRetries {
			log.WithError(err).WithField("attempts", attempt).Error("dispatch request dropped after max retries")
			return
		}

		delay := Backoff(q.opts.RetryDelay, attempt)
		log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Warn("dispatch failed, retrying")
		q.opts.countRetry(KindMemory)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			log.Warn("shutdown during retry backoff, dispatch request dropped")
			return
		}
	}
}

// Close stops the consumers; pending requests are discarded.
func (q *MemoryQueue) Close() {
	q.once.Do(func() { close(q.done) })
}
