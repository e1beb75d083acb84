package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	credentialHandler "kycmint/internal/credential/handler"
	credentialMetrics "kycmint/internal/credential/metrics"
	"kycmint/internal/credential/models"
	"kycmint/internal/credential/service"
	authorizationStore "kycmint/internal/credential/store/authorization"
	contractStore "kycmint/internal/credential/store/contract"
	statusStore "kycmint/internal/credential/store/status"
	jwttoken "kycmint/internal/jwt_token"
	"kycmint/internal/ownership"
	"kycmint/internal/platform/config"
	"kycmint/internal/platform/database"
	"kycmint/internal/platform/health"
	"kycmint/internal/platform/kafka/producer"
	"kycmint/internal/platform/logger"
	"kycmint/internal/platform/redis"
	"kycmint/internal/pricefeed"
	"kycmint/migrations"
	"kycmint/pkg/platform/audit/outbox"
	outboxMetrics "kycmint/pkg/platform/audit/outbox/metrics"
	outboxmemory "kycmint/pkg/platform/audit/outbox/store/memory"
	outboxpostgres "kycmint/pkg/platform/audit/outbox/store/postgres"
	"kycmint/pkg/platform/audit/outbox/worker"
	"kycmint/pkg/platform/circuit"
	"kycmint/pkg/platform/middleware/auth"
	"kycmint/pkg/platform/middleware/metadata"
	"kycmint/pkg/platform/middleware/ratelimit"
	"kycmint/pkg/platform/middleware/request"
	"kycmint/pkg/platform/validation"
)

const (
	requestTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
	redisStatsEvery = 15 * time.Second
	publishCooldown = 10 * time.Second
)

type publisher interface {
	worker.Publisher
	Ping(ctx context.Context) error
	Close() error
}

// infra holds the optional backing services. Nil fields mean the process
// runs on in-memory state.
type infra struct {
	pool      *database.Pool
	redis     *redis.Client
	publisher publisher
}

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("kycmint stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing kycmint",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"contract_id", cfg.Contract.ID,
	)

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(log)

	svc, outboxStore := buildService(cfg, deps, log)

	contract, created, err := svc.Bootstrap(ctx, models.Genesis{
		ContractID:                 cfg.Contract.ID,
		Owner:                      cfg.Contract.Owner,
		MintAuthorizer:             cfg.Contract.MintAuthorizer,
		BaseURI:                    cfg.Contract.BaseURI,
		SubscriptionCostPerYearUSD: cfg.Contract.SubscriptionCostUSD,
		PriceFeed:                  cfg.Contract.PriceFeed,
	})
	if err != nil {
		return fmt.Errorf("bootstrap contract: %w", err)
	}
	log.Info("contract ready",
		"contract_id", contract.ID,
		"owner", contract.Owner,
		"mint_authorizer", contract.MintAuthorizer,
		"created", created,
	)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled() {
		limiter = ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, ratelimit.WithLogger(log))
	}

	router := newRouter(cfg, deps, svc, limiter, log)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	outboxWorker := worker.New(outboxStore, deps.publisher,
		worker.WithTopic(cfg.Kafka.AuditTopic),
		worker.WithMetrics(outboxMetrics.New()),
		worker.WithLogger(log),
		worker.WithBreaker(circuit.New("kafka", circuit.WithCooldown(publishCooldown))),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return outboxWorker.Run(gctx)
	})
	if limiter != nil {
		g.Go(func() error {
			return limiter.Run(gctx)
		})
	}
	if deps.redis != nil {
		g.Go(func() error {
			return deps.redis.RunStatsLoop(gctx, redisStatsEvery)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	deps := &infra{}

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		deps.pool = pool
		applied, err := database.ApplyMigrations(ctx, pool.DB(), migrations.FS)
		if err != nil {
			deps.close(log)
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("database ready", "migrations_applied", applied)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		deps.close(log)
		return nil, err
	}
	deps.redis = client

	if cfg.Kafka.Enabled() {
		p, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Acks:            cfg.Kafka.Acks,
			Retries:         cfg.Kafka.Retries,
			DeliveryTimeout: producer.DefaultConfig().DeliveryTimeout,
		}, log)
		if err != nil {
			deps.close(log)
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		deps.publisher = p
	} else {
		deps.publisher = producer.NewNoopProducer(log)
	}
	return deps, nil
}

func (d *infra) close(log *slog.Logger) {
	if d.publisher != nil {
		if err := d.publisher.Close(); err != nil {
			log.Error("failed to close kafka producer", "error", err)
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Error("failed to close redis", "error", err)
		}
	}
	if d.pool != nil {
		if err := d.pool.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}
}

// buildService picks postgres or in-memory stores and returns the service
// together with the outbox the worker drains.
func buildService(cfg config.Config, deps *infra, log *slog.Logger) (*service.Service, outbox.Store) {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(credentialMetrics.New()),
	}

	var (
		stores      service.Stores
		outboxStore outbox.Store
	)
	if deps.pool != nil {
		db := deps.pool.DB()
		stores = postgresStores(db, cfg.Contract.ID)
		outboxStore = outboxpostgres.New(db)
		opts = append(opts, service.WithTx(newCredentialPostgresTx(db, cfg.Contract.ID)))
	} else {
		memoryOutbox := outboxmemory.New()
		stores = service.Stores{
			Authorizations: authorizationStore.NewInMemoryStore(),
			States:         statusStore.NewInMemoryStore(),
			Contracts:      contractStore.NewInMemoryStore(),
			Ownership:      ownership.NewInMemoryLedger(),
			Outbox:         memoryOutbox,
		}
		outboxStore = memoryOutbox
	}

	// The shared quote cache only fronts a shared contract row; in-memory
	// contracts start from the default quote on every boot.
	var prices pricefeed.Store
	if deps.redis != nil && deps.pool != nil {
		prices = pricefeed.NewRedisStore(deps.redis.Client, cfg.Contract.ID)
	} else {
		prices = pricefeed.NewInMemoryStore()
	}

	return service.New(cfg.Contract.ID, stores, prices, opts...), outboxStore
}

func newRouter(cfg config.Config, deps *infra, svc *service.Service, limiter *ratelimit.Limiter, log *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: cfg.TrustedProxies}).Handler)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(request.NewMetrics()))

	healthHandler := health.New(cfg.Server.Environment)
	if deps.pool != nil {
		healthHandler.RegisterCheck("postgres", deps.pool.Health)
	}
	if deps.redis != nil {
		healthHandler.RegisterCheck("redis", deps.redis.Health)
	}
	if cfg.Kafka.Enabled() {
		healthHandler.RegisterCheck("kafka", deps.publisher.Ping)
	}
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	jwtService := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.TokenTTL)
	jwtService.SetEnv(cfg.Server.Environment)
	requireAuth := auth.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), log)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(request.BodyLimit(validation.MaxBodySize))
		r.Use(request.ContentTypeJSON)
		r.Use(request.Timeout(requestTimeout))
		credentialHandler.New(svc, log).Register(r, requireAuth)
	})
	return r
}
