package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-carrier-settlement/internal/config"
	"service-carrier-settlement/internal/http/handlers"
	"service-carrier-settlement/internal/http/pprofserver"
	"service-carrier-settlement/internal/http/router"
	"service-carrier-settlement/internal/logx"
	"service-carrier-settlement/internal/metrics"
	"service-carrier-settlement/internal/repository"
	"service-carrier-settlement/internal/service/coverage"
	"service-carrier-settlement/internal/service/events"
	"service-carrier-settlement/internal/service/ledger"
	"service-carrier-settlement/internal/service/payment"
	"service-carrier-settlement/internal/service/reporting"
	"service-carrier-settlement/internal/service/settlement"
	"service-carrier-settlement/internal/transport/kafka"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container for the HTTP service
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerHTTP)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds and returns a new dig container for the Kafka worker
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerWorker)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context, registerEdge func(*dig.Container) error) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerEdge(container); err != nil {
		return nil, fmt.Errorf("edge: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container for the HTTP service
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns a new dig container for the worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
		newMetrics,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type metricsOut struct {
	dig.Out

	RateLimit prometheus.Counter `name:"rate_limit_exceeded_total"`
	Created   prometheus.Counter `name:"settlements_created_total"`
	Written   prometheus.Counter `name:"movements_written_total"`
	LockBusy  prometheus.Counter `name:"payment_lock_busy_total"`
}

func newMetrics() metricsOut {
	out := metricsOut{
		RateLimit: metrics.NewRateLimitExceededTotal(),
		Created:   metrics.NewSettlementsCreatedTotal(),
		Written:   metrics.NewMovementsWrittenTotal(),
		LockBusy:  metrics.NewPaymentLockBusyTotal(),
	}
	prometheus.MustRegister(out.RateLimit, out.Created, out.Written, out.LockBusy)
	return out
}

type settlementIn struct {
	dig.In

	Store   *repository.Store
	Fees    *coverage.Resolver
	Logger  logx.Logger
	Created prometheus.Counter `name:"settlements_created_total"`
}

type ledgerIn struct {
	dig.In

	Store   *repository.Store
	Fees    *coverage.Resolver
	Logger  logx.Logger
	Written prometheus.Counter `name:"movements_written_total"`
}

type paymentIn struct {
	dig.In

	Store    *repository.Store
	Logger   logx.Logger
	LockBusy prometheus.Counter `name:"payment_lock_busy_total"`
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewStore,
		func(store *repository.Store, logger logx.Logger) *coverage.Resolver {
			return coverage.NewResolver(store, logger)
		},
		func(in ledgerIn) *ledger.Processor {
			return ledger.NewProcessor(in.Store, in.Fees, in.Logger, in.Written, 3*time.Second)
		},
		func(in settlementIn) *settlement.Service {
			return settlement.NewService(in.Store, in.Fees, in.Logger, in.Created, 10*time.Second)
		},
		func(in paymentIn) *payment.Registrar {
			return payment.NewRegistrar(in.Store, in.Logger, in.LockBusy, 5*time.Second)
		},
		func(store *repository.Store) *reporting.Service {
			return reporting.NewService(store, 3*time.Second)
		},
	)
}

type pprofServerOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	pprofProvider := func(cfg *config.Config) pprofServerOut {
		if !cfg.Pprof.Enabled {
			return pprofServerOut{}
		}
		return pprofServerOut{Server: &http.Server{
			Addr:              cfg.Pprof.Addr,
			Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}),
			ReadHeaderTimeout: 5 * time.Second,
		}}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewSettlementUsecase,
		handlers.NewSettlementHandler,
		handlers.NewPaymentUsecase,
		handlers.NewPaymentHandler,
		handlers.NewReportingUsecase,
		handlers.NewReportingHandler,
		router.New,
		serverProvider,
		pprofProvider,
	)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(p *ledger.Processor, logger logx.Logger) *events.Processor {
			return events.NewProcessor(p, logger)
		},
		makeDeliveryKafka,
		func(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, logger, h)
		},
	)
}
