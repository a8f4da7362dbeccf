package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	httpin "parcelflow/internal/adapters/in/http"
	"parcelflow/internal/adapters/out/broadcast"
	"parcelflow/internal/adapters/out/kafka"
	"parcelflow/internal/adapters/out/postgres"
	"parcelflow/internal/adapters/out/postgres/notificationrepo"
	"parcelflow/internal/adapters/out/rediscache"
	"parcelflow/internal/adapters/out/smtp"
	"parcelflow/internal/core/application/usecases/commands"
	"parcelflow/internal/core/application/usecases/queries"
	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/services"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/jobs"
	"parcelflow/internal/notifications"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	notifier          commands.Notifier
	trackingCache     ports.TrackingCache
	notificationStore *notificationrepo.GormNotificationStore
	hub               *broadcast.Hub
	systemActor       kernel.Actor
	logger            *slog.Logger
}

// NewCompositionRoot wires every adapter the configuration enables. Kafka,
// Redis and SMTP are optional: leaving their hosts empty disables the
// channel, and the dispatcher skips nil sinks.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	hub := broadcast.NewHub(logger)
	store := notificationrepo.NewGormNotificationStore(gormDB)

	var mailer notifications.Mailer
	if config.SMTPHost != "" {
		mailer = smtp.NewMailer(config.SMTPHost, config.SMTPPort, config.SMTPFrom,
			config.SMTPUser, config.SMTPPassword)
	}

	var publisher notifications.EventPublisher
	if config.KafkaHosts != "" {
		producer, err := kafka.NewSyncProducer(strings.Split(config.KafkaHosts, ","))
		if err != nil {
			return CompositionRoot{}, fmt.Errorf("connect to kafka: %w", err)
		}
		publisher = kafka.NewEventPublisher(producer, config.KafkaParcelEventTopic)
	}

	var trackingCache ports.TrackingCache
	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		})
		trackingCache = rediscache.NewTrackingCache(client)
	}

	dispatcher := notifications.NewDispatcher(mailer, store, hub, publisher, logger)

	systemActor, err := systemActorFromConfig(config)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier: &cacheInvalidatingNotifier{
			next:   dispatcher,
			cache:  trackingCache,
			logger: logger,
		},
		trackingCache:     trackingCache,
		notificationStore: store,
		hub:               hub,
		systemActor:       systemActor,
		logger:            logger,
	}, nil
}

// systemActorFromConfig builds the admin identity background jobs act under.
// A fixed id keeps ledger entries attributable across restarts.
func systemActorFromConfig(config Config) (kernel.Actor, error) {
	id, err := kernel.UUIDFromString(config.SystemActorID)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("SYSTEM_ACTOR_ID: %w", err)
	}

	return kernel.NewActor(id, kernel.RoleAdmin)
}

func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	var f commands.ParcelUoWFactory = FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateParcelCommandHandler(f, services.NewFeeCalculator(), c.notifier)
}

func (c *CompositionRoot) CreateUpdateStatusCommandHandler() commands.UpdateStatusCommandHandler {
	var f commands.ParcelUoWFactory = FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateStatusCommandHandler(f, services.NewTransitionEngine(), c.notifier)
}

func (c *CompositionRoot) CreateAssignParcelCommandHandler() commands.AssignParcelCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignParcelCommandHandler(f, services.NewTransitionEngine(), c.notifier)
}

func (c *CompositionRoot) CreateBulkAssignParcelsCommandHandler() commands.BulkAssignParcelsCommandHandler {
	return commands.NewBulkAssignParcelsCommandHandler(c.CreateAssignParcelCommandHandler())
}

func (c *CompositionRoot) CreateReassignParcelCommandHandler() commands.ReassignParcelCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReassignParcelCommandHandler(f, services.NewTransitionEngine(), c.notifier)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	var f commands.ParcelUoWFactory = FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmDeliveryCommandHandler(f, services.NewTransitionEngine(), c.notifier)
}

func (c *CompositionRoot) CreateMarkCompletedCommandHandler() commands.MarkCompletedCommandHandler {
	return commands.NewMarkCompletedCommandHandler(c.CreateUpdateStatusCommandHandler())
}

func (c *CompositionRoot) CreateCancelParcelCommandHandler() commands.CancelParcelCommandHandler {
	return commands.NewCancelParcelCommandHandler(c.CreateUpdateStatusCommandHandler())
}

func (c *CompositionRoot) CreateTrackParcelQueryHandler() queries.TrackParcelQueryHandler {
	return queries.NewTrackParcelQueryHandler(c.gormDB, c.trackingCache, c.logger)
}

func (c *CompositionRoot) CreateGetParcelHistoryQueryHandler() queries.GetParcelHistoryQueryHandler {
	return queries.NewGetParcelHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPendingParcelsQueryHandler() queries.ListPendingParcelsQueryHandler {
	return queries.NewListPendingParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListParcelsForActorQueryHandler() queries.ListParcelsForActorQueryHandler {
	return queries.NewListParcelsForActorQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateParcelCommandHandler(),
		c.CreateAssignParcelCommandHandler(),
		c.CreateBulkAssignParcelsCommandHandler(),
		c.CreateReassignParcelCommandHandler(),
		c.CreateUpdateStatusCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateMarkCompletedCommandHandler(),
		c.CreateCancelParcelCommandHandler(),
		c.CreateTrackParcelQueryHandler(),
		c.CreateGetParcelHistoryQueryHandler(),
		c.CreateListPendingParcelsQueryHandler(),
		c.CreateListParcelsForActorQueryHandler(),
		c.notificationStore,
		c.hub,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return jobs.NewJobManager(f, c.CreateBulkAssignParcelsCommandHandler(), c.systemActor, c.logger)
}

// Hub exposes the websocket hub so the entrypoint can close it on shutdown.
func (c *CompositionRoot) Hub() *broadcast.Hub {
	return c.hub
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// cacheInvalidatingTimeout bounds how long a cache invalidation may take.
// The drop is best-effort; the snapshot expires with its TTL anyway.
const cacheInvalidatingTimeout = 2 * time.Second

// cacheInvalidatingNotifier drops the tracking snapshot for the affected
// parcel while fanning the event out, so the public tracking page never
// serves a stale status for a full TTL after a change. The drop runs on
// its own goroutine; a slow or hung cache never delays the caller.
type cacheInvalidatingNotifier struct {
	next   *notifications.Dispatcher
	cache  ports.TrackingCache
	logger *slog.Logger
}

func (n *cacheInvalidatingNotifier) DispatchAsync(event notifications.ParcelEvent) {
	if n.cache != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), cacheInvalidatingTimeout)
			defer cancel()

			if err := n.cache.Invalidate(ctx, event.TrackingNumber); err != nil {
				n.logger.Error("Tracking cache invalidation failed",
					"trackingNumber", event.TrackingNumber, "error", err)
			}
		}()
	}

	n.next.DispatchAsync(event)
}
