package main

import (
	"cargo-tracking-service/internal/adapters/cache"
	"cargo-tracking-service/internal/adapters/lock"
	"cargo-tracking-service/internal/adapters/messaging"
	"cargo-tracking-service/internal/adapters/repositories"
	"cargo-tracking-service/internal/adapters/routing"
	"cargo-tracking-service/internal/api/handlers"
	"cargo-tracking-service/internal/config"
	"cargo-tracking-service/internal/platform/clock"
	"cargo-tracking-service/internal/platform/db"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/redis"
	"cargo-tracking-service/internal/platform/tx"
	"cargo-tracking-service/internal/ports"
	"cargo-tracking-service/internal/services"
	"context"
	"database/sql"
	"fmt"
)

type application struct {
	booking  *services.BookingService
	tracking *services.TrackingService
	reports  *services.HandlingReportService
	health   map[string]handlers.HealthCheck
	workers  []func(ctx context.Context) error
	closers  []func()

	storage   string
	messaging string
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type stores struct {
	cargos    ports.CargoRepository
	events    ports.HandlingEventRepository
	locations ports.LocationRepository
	voyages   ports.VoyageRepository
	runner    tx.Runner
}

func wire(ctx context.Context, cfg *config.Config) (_ *application, err error) {
	log := logger.FromContext(ctx)
	app := &application{health: map[string]handlers.HealthCheck{}}
	defer func() {
		if err != nil {
			app.close()
		}
	}()
	clk := clock.RealClock{}

	var (
		st     stores
		sqlDB  *sql.DB
		outbox *messaging.PostgresOutbox
	)
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = sqlDB.Close() })
		app.health["postgres"] = sqlDB.PingContext

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			return nil, err
		}
		data, err := repositories.LoadReferenceData(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		if err := repositories.SeedReferenceData(ctx, sqlDB, data); err != nil {
			return nil, err
		}

		st = stores{
			cargos:    repositories.NewPostgresCargoRepository(sqlDB),
			events:    repositories.NewPostgresHandlingEventRepository(sqlDB),
			locations: repositories.NewPostgresLocationRepository(sqlDB),
			voyages:   repositories.NewPostgresVoyageRepository(sqlDB),
			runner:    tx.NewSQLRunner(sqlDB),
		}
		outbox = messaging.NewPostgresOutbox(sqlDB)
		app.storage = "postgres"
	} else {
		data, err := repositories.LoadReferenceData(cfg.SeedPath)
		if err != nil {
			return nil, err
		}
		ref := repositories.NewMemoryReferenceRepository(data)
		st = stores{
			cargos:    repositories.NewMemoryCargoRepository(),
			events:    repositories.NewMemoryHandlingEventRepository(),
			locations: ref.Locations(),
			voyages:   ref.Voyages(),
			runner:    tx.NoopRunner{},
		}
		app.storage = "memory"
		log.Warn("DATABASE_URL not set, state is kept in memory")
	}

	rdb, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	var locker ports.CargoLocker = lock.NewKeyedMutex()
	if rdb != nil {
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		app.health["redis"] = rdb.Health
		locker = lock.NewRedisLocker(rdb.Client, cfg.LockTTL)
	}

	var provider ports.RoutingProvider = routing.NewScheduleProvider(st.voyages)
	if cfg.RoutingServiceURL != "" {
		provider, err = routing.NewGraphTraversalProvider(cfg.RoutingServiceURL)
		if err != nil {
			return nil, err
		}
	}
	if rdb != nil {
		provider = cache.NewRouteCache(rdb.Client, provider, cfg.RouteCacheTTL)
	}

	topics := messaging.NewTopics(cfg.KafkaTopicPrefix)

	// transport carries messages between services; pub is what services
	// write to, which is the outbox whenever Postgres is available.
	var (
		transport   messaging.Publisher
		deadLetters messaging.Publisher
		bus         *messaging.MemoryBus
		consumerFor func(d *messaging.Dispatcher) (func(ctx context.Context) error, error)
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := messaging.NewKafkaClient(cfg.KafkaBrokers, "", nil)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, producer.Close)
		app.health["kafka"] = producer.Ping

		if err := messaging.EnsureTopics(ctx, producer, 1, 1, topics.All()...); err != nil {
			return nil, err
		}
		kp := messaging.NewKafkaPublisher(producer)
		transport, deadLetters = kp, kp
		consumerFor = func(d *messaging.Dispatcher) (func(ctx context.Context) error, error) {
			client, err := messaging.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, d.Topics())
			if err != nil {
				return nil, err
			}
			app.closers = append(app.closers, client.Close)
			return messaging.NewKafkaConsumer(client, d, cfg.ConsumerConcurrency).Run, nil
		}
		app.messaging = "kafka"
	} else {
		bus = messaging.NewMemoryBus()
		transport, deadLetters = bus, bus.DeadLetters()
		consumerFor = func(d *messaging.Dispatcher) (func(ctx context.Context) error, error) {
			return func(ctx context.Context) error { return bus.Run(ctx, d, cfg.ConsumerConcurrency) }, nil
		}
		app.messaging = "memory"
	}

	pub := transport
	if outbox != nil {
		pub = messaging.NewOutboxWriter(outbox, clk)
		app.workers = append(app.workers, messaging.NewOutboxRelay(outbox, transport, clk, cfg.OutboxPollInterval).Run)
	}
	events := messaging.NewEventPublisher(pub, topics)

	factory := services.NewHandlingEventFactory(st.cargos, st.voyages, st.locations)
	handling := services.NewHandlingEventService(factory, st.events, events, st.runner)
	inspection := services.NewCargoInspectionService(st.cargos, st.events, events, locker, st.runner, clk)
	routingService := services.NewRoutingService(provider, st.voyages, st.locations)

	app.booking = services.NewBookingService(st.cargos, st.locations, st.voyages, routingService, locker, st.runner, clk)
	app.tracking = services.NewTrackingService(st.cargos, st.events)
	app.reports = services.NewHandlingReportService(events, clk)

	dispatcher := messaging.NewDispatcher(deadLetters, messaging.WithMaxReceives(cfg.ConsumerMaxReceives))
	messaging.Subscribe(dispatcher, topics, inspection, handling)

	consume, err := consumerFor(dispatcher)
	if err != nil {
		return nil, fmt.Errorf("wire consumer: %w", err)
	}
	app.workers = append(app.workers, consume)

	return app, nil
}
