package notif

import (
	"errors"
	"sync"
	"testing"
	"time"

	"GoLoyalty/internal/common"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	name  string
	err   error
	panic bool

	mu     sync.Mutex
	events []common.NotificationEvent
}

func (o *countingObserver) Name() string { return o.name }

func (o *countingObserver) Update(event common.NotificationEvent) error {
	o.mu.Lock()
	o.events = append(o.events, event)
	o.mu.Unlock()
	if o.panic {
		panic("observer exploded")
	}
	return o.err
}

func (o *countingObserver) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.events)
}

func TestEventManager_PublishReachesEveryObserver(t *testing.T) {
	logger, hook := test.NewNullLogger()
	em := NewEventManager(2, 10, logger)
	defer em.Shutdown()

	ok := &countingObserver{name: "ok"}
	failing := &countingObserver{name: "failing", err: errors.New("redis down")}
	panicking := &countingObserver{name: "panicking", panic: true}
	em.Subscribe(ok)
	em.Subscribe(failing)
	em.Subscribe(panicking)

	em.Publish(common.NotificationEvent{Kind: common.EventRead, NotificationID: "n-1"})

	assert.Equal(t, 1, ok.Count())
	assert.Equal(t, 1, failing.Count())
	assert.Equal(t, 1, panicking.Count())

	var observersLogged []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			observersLogged = append(observersLogged, e.Data["observer"].(string))
		}
	}
	assert.ElementsMatch(t, []string{"failing", "panicking"}, observersLogged)
}

func TestEventManager_Unsubscribe(t *testing.T) {
	logger, _ := test.NewNullLogger()
	em := NewEventManager(1, 10, logger)
	defer em.Shutdown()

	obs := &countingObserver{name: "obs"}
	em.Subscribe(obs)
	em.Unsubscribe(obs)

	em.Publish(common.NotificationEvent{Kind: common.EventSent})
	assert.Equal(t, 0, obs.Count())
}

func TestEventManager_PublishAsync(t *testing.T) {
	logger, _ := test.NewNullLogger()
	em := NewEventManager(2, 10, logger)
	defer em.Shutdown()

	obs := &countingObserver{name: "obs"}
	em.Subscribe(obs)

	for i := 0; i < 5; i++ {
		em.PublishAsync(common.NotificationEvent{Kind: common.EventDispatched})
	}

	require.Eventually(t, func() bool { return obs.Count() == 5 }, time.Second, 10*time.Millisecond)
}

func TestEventManager_ShutdownIsIdempotentAndDropsLateEvents(t *testing.T) {
	logger, hook := test.NewNullLogger()
	em := NewEventManager(1, 1, logger)

	obs := &countingObserver{name: "obs"}
	em.Subscribe(obs)

	em.Shutdown()
	em.Shutdown()

	em.PublishAsync(common.NotificationEvent{Kind: common.EventRead})
	assert.Equal(t, 0, obs.Count())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
