package wire

import (
	"context"
	"time"

	"GoLoyalty/internal/activity"
	"GoLoyalty/internal/common"
	"GoLoyalty/internal/config"
	"GoLoyalty/internal/dbmongo"
	"GoLoyalty/internal/dbmysql"
	"GoLoyalty/internal/metrics"
	"GoLoyalty/internal/notif"
	"GoLoyalty/internal/notif/channels"
	"GoLoyalty/internal/queue"

	"github.com/google/wire"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const connectTimeout = 10 * time.Second

// Queue is both ends of the dispatch queue.
type Queue interface {
	queue.Publisher
	queue.Consumer
}

// Observers is the set subscribed to the event manager at startup.
type Observers []common.Observer

type Application struct {
	Config        *config.Config
	Logger        *logrus.Logger
	DB            *gorm.DB
	Registry      *prometheus.Registry
	Metrics       *metrics.Metrics
	Events        *notif.EventManager
	Queue         Queue
	Dispatch      *notif.DispatchHandler
	Notifications *notif.HTTPHandler
	Activities    *activity.Handler
	Recorder      *activity.Recorder
	Tokens        *common.TokenManager
	Observers     Observers
}

// Migrator carries what the migrate command needs.
type Migrator struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *gorm.DB
}

var infraSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideFieldLogger,
	ProvideDatabase,
)

var notifSet = wire.NewSet(
	dbmysql.NewNotificationRepository,
	dbmysql.NewDeviceRepository,
	ProvideQueue,
	ProvidePublisher,
	ProvideEventManager,
	ProvideChannels,
	ProvideDispatcher,
	ProvideUnreadCounter,
	ProvideObservers,
	notif.NewDispatchHandler,
	notif.NewNotificationService,
	notif.NewHTTPHandler,
	wire.Bind(new(notif.NotificationDispatcher), new(*notif.Dispatcher)),
	wire.Bind(new(notif.NotificationRepository), new(*dbmysql.NotificationRepository)),
	wire.Bind(new(notif.DeviceRegistry), new(*dbmysql.DeviceRepository)),
	wire.Bind(new(common.Subject), new(*notif.EventManager)),
)

var activitySet = wire.NewSet(
	ProvideActivityStore,
	activity.NewRecorder,
	activity.NewService,
	activity.NewHandler,
	wire.Bind(new(common.ActivityRecorder), new(*activity.Recorder)),
)

func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

func ProvideLogger(cfg *config.Config) (*logrus.Logger, error) {
	return common.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
}

func ProvideFieldLogger(logger *logrus.Logger) logrus.FieldLogger {
	return logger
}

func ProvideDatabase(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := dbmysql.Close(db); err != nil {
			logger.WithError(err).Warn("failed to close database")
		}
	}
	return db, cleanup, nil
}

func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideTokenManager(cfg *config.Config) *common.TokenManager {
	return common.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func ProvideEventManager(cfg *config.Config, log logrus.FieldLogger) *notif.EventManager {
	return notif.NewEventManager(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize, log)
}

func ProvideQueue(cfg *config.Config, m *metrics.Metrics, log logrus.FieldLogger) (Queue, func(), error) {
	opts := queue.Options{
		Workers:    cfg.Notification.Workers,
		MaxRetries: cfg.Notification.MaxRetries,
		RetryDelay: cfg.RetryDelayDuration(),
		Metrics:    m,
	}

	switch cfg.Notification.Queue {
	case queue.KindMemory:
		q := queue.NewMemoryQueue(cfg.Notification.ChannelBufferSize, opts, log)
		return q, q.Close, nil
	case queue.KindJetStream:
		nc, err := queue.Connect(cfg.NATS.URL, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := nc.Drain(); err != nil {
				log.WithError(err).Warn("failed to drain nats connection")
			}
		}
		q, err := queue.NewJetStreamQueue(nc, cfg.NATS, opts, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if err := q.EnsureStream(); err != nil {
			cleanup()
			return nil, nil, err
		}
		return q, cleanup, nil
	}
	return nil, nil, errors.Errorf("unknown notification queue %q", cfg.Notification.Queue)
}

func ProvidePublisher(q Queue) common.DispatchPublisher {
	return q
}

// ProvideChannels registers in-app always and email/push when enabled.
// Requests for an unregistered channel fail with "channel not configured".
func ProvideChannels(
	ctx context.Context,
	cfg *config.Config,
	notifications *dbmysql.NotificationRepository,
	devices *dbmysql.DeviceRepository,
	log logrus.FieldLogger,
) ([]common.Channel, error) {
	registered := []common.Channel{channels.NewInAppChannel(notifications)}

	if cfg.Email.Enabled {
		smtpClient := channels.NewSMTPClient(cfg.Email)
		registered = append(registered, channels.NewEmailChannel(smtpClient, cfg.Email.RateLimit, cfg.Email.FromName))
	}

	if cfg.Firebase.Enabled {
		fcm, err := channels.NewMessagingClient(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		registered = append(registered, channels.NewPushChannel(fcm, devices, log))
	}

	kinds := make([]common.ChannelKind, 0, len(registered))
	for _, ch := range registered {
		kinds = append(kinds, ch.Kind())
	}
	log.WithField("channels", kinds).Info("notification channels registered")

	return registered, nil
}

func ProvideDispatcher(cfg *config.Config, registered []common.Channel, events *notif.EventManager, log logrus.FieldLogger) (*notif.Dispatcher, error) {
	defaults, err := common.ParseChannelKinds(cfg.Notification.DefaultChannels)
	if err != nil {
		return nil, errors.Wrap(err, "invalid NOTIFICATION_DEFAULT_CHANNELS")
	}
	return notif.NewDispatcher(registered, defaults, events, log), nil
}

// ProvideUnreadCounter returns a nil counter when Redis is disabled.
func ProvideUnreadCounter(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (notif.UnreadCounter, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("redis disabled, unread counts served from database")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, errors.Wrapf(err, "failed to connect to redis at %s", cfg.Redis.Addr)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis client")
		}
	}
	return notif.NewRedisUnreadCounter(client), cleanup, nil
}

func ProvideActivityStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (activity.Store, func(), error) {
	if cfg.Activity.Store != "mongo" {
		return dbmysql.NewActivityRepository(db), func() {}, nil
	}

	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		_ = mc.Close(closeCtx)
	}

	store := dbmongo.NewActivityStore(mc)
	if err := store.EnsureIndexes(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

// ProvideObservers subscribes the event listeners and returns them.
func ProvideObservers(
	cfg *config.Config,
	events *notif.EventManager,
	notifications notif.NotificationRepository,
	counter notif.UnreadCounter,
	m *metrics.Metrics,
	recorder common.ActivityRecorder,
	publisher common.DispatchPublisher,
	log logrus.FieldLogger,
) Observers {
	observers := Observers{
		notif.NewMarkSentObserver(notifications),
		notif.NewMetricsObserver(m),
		notif.NewActivityObserver(recorder),
		notif.NewContactEmailObserver(publisher, cfg.Notification.AdminRecipientID, cfg.Notification.AdminEmail, log),
	}
	if counter != nil {
		observers = append(observers, notif.NewUnreadCounterObserver(counter))
	}

	for _, obs := range observers {
		events.Subscribe(obs)
	}
	return observers
}
