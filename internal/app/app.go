package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-service/internal/cfg"
	v1Grpc "github.com/DRSN-tech/catalog-service/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/catalog-service/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-service/internal/infrastructure/kafka"
	"github.com/DRSN-tech/catalog-service/internal/repository/memory"
	"github.com/DRSN-tech/catalog-service/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-service/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-service/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-service/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-service/internal/usecase"
	"github.com/DRSN-tech/catalog-service/pkg/clients"
	"github.com/DRSN-tech/catalog-service/pkg/closer"
	"github.com/DRSN-tech/catalog-service/pkg/e"
	"github.com/DRSN-tech/catalog-service/pkg/logger"
	"github.com/DRSN-tech/catalog-service/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout        = 15 * time.Second
	ensureTopicTimeout = 10 * time.Second
	forcedCloseTimeout = 3 * time.Second
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer

	outboxWorker *kafka.OutboxWorker
}

// stores — набор хранилищ выбранного драйвера.
type stores struct {
	products   usecase.ProductRepository
	stats      usecase.ProductStatsRepository
	users      usecase.UserRepository
	outbox     usecase.OutboxRepository
	transactor usecase.Transactor
	// dsn пуст для памяти: воркер outbox тогда работает без LISTEN
	dsn string
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(forcedCloseTimeout),
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	st, err := a.initStores(ctx)
	if err != nil {
		a.closeOnInitFailure()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cacheRepo, err := a.initCache(ctx)
	if err != nil {
		a.closeOnInitFailure()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var productUC *usecase.ProductUseCase
	if producer := a.initProducer(); producer != nil {
		productUC = usecase.NewProductUC(st.products, st.outbox, st.transactor, cacheRepo, producer, logger)
		a.outboxWorker = kafka.NewOutboxWorker(st.outbox, producer, logger, cfg.Kafka.Outbox, st.dsn)
	} else {
		productUC = usecase.NewProductUC(st.products, nil, st.transactor, cacheRepo, nil, logger)
	}
	statsUC := usecase.NewStatisticsUC(st.stats, st.users, logger)

	r := chi.NewRouter()
	v1Http.NewRouter(r, logger).Init(productUC, statsUC, cfg.Http.SwaggerURL)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	if cfg.Grpc.Enabled {
		a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
		a.grpcSrv.RegisterServices(statsUC)
	}

	return a, nil
}

// Run запускает серверы и блокируется до сигнала остановки или фатальной ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 2)

	// Воркер регистрируется раньше серверов и останавливается после них
	if a.outboxWorker != nil {
		a.outboxWorker.Start(context.Background())
		a.closer.Add("outbox worker", a.outboxWorker.Stop)
	}

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	if a.grpcSrv != nil {
		go func() {
			a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
			if err := a.grpcSrv.Start(); err != nil {
				a.logger.Errorf(err, "gRPC server failed")
				errCh <- err
			}
		}()
		a.closer.Add("grpc server", a.grpcSrv.Stop)
	}

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("Received %s, stopping gracefully...", sig)
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Http.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) initStores(ctx context.Context) (*stores, error) {
	if a.cfg.Storage.Driver == config.StorageDriverMemory {
		a.logger.Warnf("Using in-memory storage: data will be lost on restart")
		products := memory.NewProductRepo()

		return &stores{
			products:   products,
			stats:      products,
			users:      memory.NewUserRepo(),
			outbox:     memory.NewOutboxRepo(),
			transactor: memory.NewTransactor(),
		}, nil
	}

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return nil, err
	}
	a.closer.Add("postgres", db.Close)

	products := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())

	return &stores{
		products:   products,
		stats:      products,
		users:      pgdb.NewUserRepo(db.Pool),
		outbox:     pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter()),
		transactor: pgdb.NewTransactor(db.Pool, a.logger),
		dsn:        db.Dsn,
	}, nil
}

// initCache возвращает nil, если кэш выключен.
func (a *App) initCache(ctx context.Context) (usecase.CacheRepository, error) {
	if !a.cfg.Redis.Enabled {
		a.logger.Infof("Product cache disabled")
		return nil, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", redisClient.Close)

	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, err
	}

	return redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), a.cfg.Redis, a.logger), nil
}

// initProducer возвращает nil, если Kafka не настроена. Недоступный брокер не мешает старту:
// события копятся в outbox, пока воркер не сможет их отправить.
func (a *App) initProducer() *kafka.Producer {
	if !a.cfg.Kafka.Enabled {
		a.logger.Infof("Kafka is not configured, product events are disabled")
		return nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", producer.Close)

	if err := producer.EnsureTopic(ensureTopicTimeout); err != nil {
		a.logger.Warnf("Failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	return producer
}

func (a *App) closeOnInitFailure() {
	ctx, cancel := context.WithTimeout(context.Background(), forcedCloseTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("cleanup after failed init: %v", err)
	}
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Pool.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
