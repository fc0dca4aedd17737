package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/config"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	fetchBatch   = 10
	fetchWait    = 5 * time.Second
	ackWait      = time.Minute
	dedupeWindow = 2 * time.Minute
)

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string, log logrus.FieldLogger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("goloyalty-notifications"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.WithField("url", c.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to nats")
	}
	return nc, nil
}

// JetStreamQueue publishes dispatch requests to a work-queue stream and consumes
// them through a durable pull consumer with explicit acks.
type JetStreamQueue struct {
	js   nats.JetStreamContext
	cfg  config.NATSConfig
	opts Options
	log  logrus.FieldLogger
}

func NewJetStreamQueue(nc *nats.Conn, cfg config.NATSConfig, opts Options, log logrus.FieldLogger) (*JetStreamQueue, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open jetstream context")
	}
	return &JetStreamQueue{
		js:   js,
		cfg:  cfg,
		opts: opts.withDefaults(),
		log:  log.WithField("queue", KindJetStream),
	}, nil
}

// EnsureStream creates the stream on first use.
func (q *JetStreamQueue) EnsureStream() error {
	_, err := q.js.StreamInfo(q.cfg.Stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return errors.Wrapf(err, "failed to look up stream %s", q.cfg.Stream)
	}

	_, err = q.js.AddStream(&nats.StreamConfig{
		Name:       q.cfg.Stream,
		Subjects:   []string{q.cfg.Subject},
		Retention:  nats.WorkQueuePolicy,
		Storage:    nats.FileStorage,
		Duplicates: dedupeWindow,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create stream %s", q.cfg.Stream)
	}
	q.log.WithField("stream", q.cfg.Stream).Info("jetstream stream created")
	return nil
}

// Publish uses the notification id as the message id so retried publishes
// are deduplicated by the server.
func (q *JetStreamQueue) Publish(ctx context.Context, req common.DispatchNotificationMessage) error {
	data, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "failed to encode dispatch request")
	}

	if _, err := q.js.Publish(q.cfg.Subject, data, nats.MsgId(req.Notification.ID), nats.Context(ctx)); err != nil {
		return errors.Wrap(err, "failed to publish dispatch request")
	}
	return nil
}

func (q *JetStreamQueue) Consume(ctx context.Context, handler HandlerFunc) error {
	sub, err := q.js.PullSubscribe(q.cfg.Subject, q.cfg.Durable,
		nats.BindStream(q.cfg.Stream),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.AckWait(ackWait),
		nats.MaxDeliver(q.opts.MaxRetries),
	)
	if err != nil {
		return errors.Wrap(err, "failed to subscribe to dispatch subject")
	}

	var wg sync.WaitGroup
	for i := 0; i < q.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.fetchLoop(ctx, sub, handler)
		}()
	}
	wg.Wait()
	return nil
}

func (q *JetStreamQueue) fetchLoop(ctx context.Context, sub *nats.Subscription, handler HandlerFunc) {
	for ctx.Err() == nil {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchWait)
		msgs, err := sub.Fetch(fetchBatch, nats.Context(fetchCtx))
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			q.log.WithError(err).Warn("jetstream fetch failed")
			continue
		}

		for _, msg := range msgs {
			q.handle(ctx, msg, msg.Data, handler)
		}
	}
}

// delivery is the ack surface of *nats.Msg.
type delivery interface {
	Ack(opts ...nats.AckOpt) error
	NakWithDelay(delay time.Duration, opts ...nats.AckOpt) error
	Term(opts ...nats.AckOpt) error
	Metadata() (*nats.MsgMetadata, error)
}

func (q *JetStreamQueue) handle(ctx context.Context, msg delivery, data []byte, handler HandlerFunc) {
	var req common.DispatchNotificationMessage
	if err := json.Unmarshal(data, &req); err != nil {
		q.log.WithError(err).Error("undecodable dispatch request, terminating")
		q.settle(msg.Term())
		return
	}

	attempt := 1
	if meta, err := msg.Metadata(); err == nil && meta != nil {
		attempt = int(meta.NumDelivered)
	}

	log := q.log.WithFields(logrus.Fields{
		"notification_id": req.Notification.ID,
		"attempt":         attempt,
	})

	err := handler(ctx, req)
	if err == nil {
		q.settle(msg.Ack())
		return
	}

	if attempt >= q.opts.MaxRetries {
		log.WithError(err).Error("dispatch request dropped after max retries")
		q.settle(msg.Term())
		return
	}

	delay := Backoff(q.opts.RetryDelay, attempt)
	log.WithError(err).WithField("delay", delay).Warn("dispatch failed, redelivering")
	q.opts.countRetry(KindJetStream)
	q.settle(msg.NakWithDelay(delay))
}

func (q *JetStreamQueue) settle(err error) {
	if err != nil {
		q.log.WithError(err).Warn("failed to acknowledge jetstream message")
	}
}
