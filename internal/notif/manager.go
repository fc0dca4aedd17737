package notif

import (
	"context"
	"sync"

	"GoLoyalty/internal/common"

	"github.com/sirupsen/logrus"
)

// EventManager fans notification events out to subscribed observers, either
// inline (Publish) or through a bounded worker pool (PublishAsync).
type EventManager struct {
	observers    map[string]common.Observer
	eventChannel chan common.NotificationEvent
	workerPool   int
	log          logrus.FieldLogger
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	wg           sync.WaitGroup
	once         sync.Once
}

func NewEventManager(workerPoolSize, bufferSize int, log logrus.FieldLogger) *EventManager {
	if workerPoolSize < 1 {
		workerPoolSize = 1
	}
	if bufferSize < 1 {
		bufferSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	em := &EventManager{
		observers:    make(map[string]common.Observer),
		eventChannel: make(chan common.NotificationEvent, bufferSize),
		workerPool:   workerPoolSize,
		log:          log.WithField("component", "event_manager"),
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < workerPoolSize; i++ {
		em.wg.Add(1)
		go em.processEvents()
	}

	return em
}

func (em *EventManager) Subscribe(observer common.Observer) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.observers[observer.Name()] = observer
	em.log.WithField("observer", observer.Name()).Debug("observer subscribed")
}

func (em *EventManager) Unsubscribe(observer common.Observer) {
	em.mu.Lock()
	defer em.mu.Unlock()
	delete(em.observers, observer.Name())
	em.log.WithField("observer", observer.Name()).Debug("observer unsubscribed")
}

// Publish delivers event to every observer on the caller's goroutine. Observer
// errors and panics are logged with the observer name and never propagate.
func (em *EventManager) Publish(event common.NotificationEvent) {
	em.mu.RLock()
	observers := make([]common.Observer, 0, len(em.observers))
	for _, obs := range em.observers {
		observers = append(observers, obs)
	}
	em.mu.RUnlock()

	for _, observer := range observers {
		em.deliver(observer, event)
	}
}

// PublishAsync queues event for the worker pool and drops it when the buffer is full.
func (em *EventManager) PublishAsync(event common.NotificationEvent) {
	if em.ctx.Err() != nil {
		em.log.WithField("kind", event.Kind).Warn("event manager stopped, dropping event")
		return
	}

	select {
	case em.eventChannel <- event:
	case <-em.ctx.Done():
	default:
		em.log.WithFields(logrus.Fields{
			"kind":            event.Kind,
			"notification_id": event.NotificationID,
		}).Warn("event channel full, dropping event")
	}
}

func (em *EventManager) deliver(observer common.Observer, event common.NotificationEvent) {
	defer func() {
		if r := recover(); r != nil {
			em.log.WithFields(logrus.Fields{
				"observer": observer.Name(),
				"kind":     event.Kind,
				"panic":    r,
			}).Error("observer panicked")
		}
	}()

	if err := observer.Update(event); err != nil {
		em.log.WithError(err).WithFields(logrus.Fields{
			"observer":        observer.Name(),
			"kind":            event.Kind,
			"notification_id": event.NotificationID,
		}).Error("observer update failed")
	}
}

func (em *EventManager) processEvents() {
	defer em.wg.Done()

	for {
		select {
		case event := <-em.eventChannel:
			em.Publish(event)
		case <-em.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers and then delivers whatever is still buffered.
func (em *EventManager) Shutdown() {
	em.once.Do(func() {
		em.cancel()
		em.wg.Wait()

		for {
			select {
			case event := <-em.eventChannel:
				em.Publish(event)
			default:
				em.log.Info("event manager shutdown complete")
				return
			}
		}
	})
}
