package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	authhandler "memberportal/internal/auth/handler"
	"memberportal/internal/auth/otp"
	authservice "memberportal/internal/auth/service"
	authstore "memberportal/internal/auth/store"
	"memberportal/internal/backend"
	"memberportal/internal/events"
	jwttoken "memberportal/internal/jwt_token"
	"memberportal/internal/members"
	membershandler "memberportal/internal/members/handler"
	membersstore "memberportal/internal/members/store"
	"memberportal/internal/payment"
	"memberportal/internal/platform/config"
	"memberportal/internal/platform/httpserver"
	"memberportal/internal/platform/kafka"
	"memberportal/internal/platform/logger"
	"memberportal/internal/platform/metrics"
	"memberportal/internal/platform/postgres"
	"memberportal/internal/platform/redis"
	"memberportal/internal/ratelimit"
	reghandler "memberportal/internal/registration/handler"
	regstore "memberportal/internal/registration/store"
	"memberportal/internal/registration/wizard"
	"memberportal/internal/resolution"
	"memberportal/pkg/platform/httputil"
	"memberportal/pkg/platform/middleware/requesttime"
	"memberportal/pkg/platform/tx"
)

const cleanupInterval = 5 * time.Minute

// infra holds the optional backing services. Nil fields mean the in-memory
// fallback is used for that concern.
type infra struct {
	redis *redis.Client
	db    *sql.DB
	kafka *kgo.Client
}

// main wires dependencies and runs the HTTP server until SIGINT/SIGTERM.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(log)

	publisher := buildPublisher(ctx, cfg, deps, log)

	client, err := backend.New(cfg.Backend.BaseURL,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
		backend.WithLogger(log),
	)
	if err != nil {
		return err
	}

	// memoryCache stays nil when Redis holds resolutions.
	var (
		resolutionCache resolution.Cache
		memoryCache     *resolution.MemoryCache
	)
	if deps.redis != nil {
		resolutionCache = resolution.NewRedisCache(deps.redis.Client)
	} else {
		memoryCache = resolution.NewMemoryCache()
		resolutionCache = memoryCache
	}
	resolver := resolution.NewResolver(client,
		resolution.WithCache(resolutionCache),
		resolution.WithCacheTTL(cfg.Session.ResolutionCache),
		resolution.WithLogger(log),
	)
	geo := resolution.NewGeo(client, resolution.WithGeoLogger(log))

	clock := time.Now
	var (
		memberStore  membersstore.Store = membersstore.NewInMemoryStore()
		sessionStore regstore.Store     = regstore.NewInMemoryStore(regstore.WithMemoryClock(clock))
		runner       tx.Runner          = tx.NopRunner{}
	)
	if deps.db != nil {
		memberStore = membersstore.NewPostgresStore(deps.db)
		sessionStore = regstore.NewPostgresStore(deps.db, regstore.WithPostgresClock(clock))
		runner = tx.NewSQLRunner(deps.db)
	}
	directory := members.NewService(memberStore,
		members.WithNumberPrefix(cfg.Members.NumberPrefix),
		members.WithTx(runner),
		members.WithPublisher(publisher),
		members.WithLogger(log),
	)

	gatewayBus := payment.NewGatewayBus()
	orchestrator := payment.New(client, gatewayBus,
		payment.WithPolling(cfg.Payment.PollInterval, cfg.Payment.PollDuration),
		payment.WithEnroller(directory),
		payment.WithPublisher(publisher),
		payment.WithLogger(log),
	)

	registrations := wizard.NewService(sessionStore, resolver, orchestrator, client,
		wizard.WithSessionTTL(cfg.Session.TTL),
		wizard.WithDevAssist(cfg.Server.DevAssist),
		wizard.WithClock(clock),
		wizard.WithLogger(log),
	)

	var (
		persister  authstore.Persister = authstore.NewMemoryPersister()
		challenges otp.ChallengeStore  = otp.NewInMemoryStore()
	)
	if deps.redis != nil {
		persister = authstore.NewRedisPersister(deps.redis.Client)
		challenges = otp.NewRedisStore(deps.redis.Client)
	}
	authSessions := authstore.New(persister)
	if err := authSessions.Init(ctx); err != nil {
		return err
	}
	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	portal := authservice.New(directory, authSessions,
		otp.NewManager(challenges,
			otp.WithTTL(cfg.Auth.OTPTTL),
			otp.WithMaxAttempts(cfg.Auth.OTPMaxAttempts),
		),
		jwtService,
		authservice.WithTokenTTL(cfg.Auth.TokenTTL),
		authservice.WithPublisher(publisher),
		authservice.WithDevAssist(cfg.Server.DevAssist),
		authservice.WithLogger(log),
	)

	httpMetrics := metrics.New(prometheus.DefaultRegisterer)
	r := chi.NewRouter()
	r.Use(httpMetrics.Middleware)
	r.Use(requesttime.Middleware)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", deps.health)

	var limitStore ratelimit.Store = ratelimit.NewInMemoryStore()
	if deps.redis != nil {
		limitStore = ratelimit.NewRedisStore(deps.redis.Client)
	}
	limiter := ratelimit.New(limitStore, log, ratelimit.WithDisabled(cfg.Server.DisableRateLimit))

	reghandler.New(registrations, geo, client, log, cfg.Server.RequestTimeout,
		reghandler.WithLookupLimit(limiter.PerIP(ratelimit.Lookup)),
	).Register(r)
	payment.NewCallbackHandler(gatewayBus, log).Register(r)
	authhandler.New(portal, jwttoken.NewJWTServiceAdapter(jwtService), authSessions, log, cfg.Server.RequestTimeout,
		authhandler.WithOTPLimit(limiter.PerIP(ratelimit.OTP)),
	).Register(r)
	membershandler.New(directory, cfg.Server.AdminToken, log).Register(r)

	srv := httpserver.New(cfg.Server.Addr, r)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		return ignoreCanceled(registrations.StartCleanup(gctx, cleanupInterval))
	})
	if memoryCache != nil {
		g.Go(func() error {
			return ignoreCanceled(memoryCache.StartCleanup(gctx, cleanupInterval))
		})
	}
	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if serr := orchestrator.Shutdown(shutdownCtx); serr != nil {
		log.Warn("payment orchestrations did not stop in time", "error", serr)
	}
	return err
}

func connect(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	deps := &infra{}
	var err error

	if deps.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if deps.redis == nil {
		log.Info("redis not configured, using in-memory auth sessions and caches")
	}

	if deps.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		deps.close(log)
		return nil, err
	}
	if deps.db == nil {
		log.Info("postgres not configured, using in-memory registrations and members")
	} else if err := postgres.Migrate(ctx, deps.db); err != nil {
		deps.close(log)
		return nil, err
	}

	if deps.kafka, err = kafka.NewClient(cfg.Kafka); err != nil {
		deps.close(log)
		return nil, err
	}
	return deps, nil
}

// buildPublisher falls back to in-memory events when Kafka is absent or the
// topic cannot be ensured.
func buildPublisher(ctx context.Context, cfg config.Config, deps *infra, log *slog.Logger) events.Publisher {
	if deps.kafka == nil {
		log.Info("kafka not configured, events stay in process")
		return events.NewMemoryPublisher()
	}
	if err := kafka.EnsureTopic(ctx, deps.kafka, cfg.Kafka, log); err != nil {
		log.Warn("kafka topic unavailable, events stay in process", "error", err)
		deps.kafka.Close()
		deps.kafka = nil
		return events.NewMemoryPublisher()
	}
	return events.NewKafkaPublisher(deps.kafka, cfg.Kafka.Topic)
}

func (d *infra) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	if d.redis != nil {
		if err := d.redis.Health(ctx); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if d.db != nil {
		if err := d.db.PingContext(ctx); err != nil {
			status["postgres"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if code != http.StatusOK {
		status["status"] = "degraded"
	}
	httputil.WriteJSON(w, code, status)
}

func (d *infra) close(log *slog.Logger) {
	if d.kafka != nil {
		d.kafka.Close()
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Warn("failed to close postgres", "error", err)
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warn("failed to close redis", "error", err)
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
