package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/victornm/compass/internal/api"
	"github.com/victornm/compass/internal/event"
	"github.com/victornm/compass/internal/result"
	"github.com/victornm/compass/internal/telemetry"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverRedis    = "redis"
)

type Config struct {
	HTTP struct {
		Port int32
	}

	GRPC struct {
		Port int32
	}

	Store struct {
		// Driver is one of postgres, sqlite or redis.
		Driver string
	}

	Postgres struct {
		Addr string
		User string
		Pass string
		Name string
	}

	SQLite struct {
		Path string
	}

	Redis struct {
		Store struct {
			Addrs  []string
			Pass   string
			Prefix string
		}

		// Pubsub receives result notifications, disabled without addresses.
		Pubsub struct {
			Addrs  []string
			Pass   string
			Prefix string
		}
	}

	Result struct {
		TTL time.Duration
	}

	Event struct {
		PoolSize int `mapstructure:"pool_size"`
		Timeout  time.Duration
	}

	Auth struct {
		JWTSecret  string `mapstructure:"jwt_secret"`
		AdminToken string `mapstructure:"admin_token"`
	}
}

func DefaultConfig() Config {
	var c Config
	c.HTTP.Port = 8080
	c.GRPC.Port = 8081
	c.Store.Driver = StoreDriverSQLite
	c.SQLite.Path = "compass.db"
	c.Redis.Store.Prefix = "compass"
	c.Redis.Pubsub.Prefix = "compass"
	c.Result.TTL = result.DefaultTTL
	return c
}

type Server struct {
	c Config

	eb      *event.Bus
	metrics *telemetry.Metrics

	infra struct {
		redis struct {
			store  redis.UniversalClient
			pubsub redis.UniversalClient
		}

		postgres *pgxpool.Pool
		sqlite   *result.SQLiteStore
	}

	store result.Store

	service struct {
		result *result.Service
	}

	http   *http.Server
	grpc   *grpc.Server
	health *health.Server
}

func Init(c Config) (*Server, error) {
	s := &Server{c: c}

	s.eb = event.NewBus(
		event.WithPoolSize(c.Event.PoolSize),
		event.WithTimeout(c.Event.Timeout),
	)

	s.metrics = telemetry.NewMetrics(prometheus.DefaultRegisterer)
	s.metrics.Subscribe(s.eb)

	if err := s.initInfra(); err != nil {
		s.closeInfra()
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	s.initService()
	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	switch s.c.Store.Driver {
	case StoreDriverPostgres:
		if err := s.initPostgres(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	case StoreDriverSQLite:
		if err := s.initSQLite(); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	case StoreDriverRedis:
		r, err := connectRedis("store", s.c.Redis.Store.Addrs, s.c.Redis.Store.Pass)
		if err != nil {
			return fmt.Errorf("redis: store: %w", err)
		}
		s.infra.redis.store = r
		s.store = result.NewRedisStore(r, s.c.Redis.Store.Prefix)
	default:
		return fmt.Errorf("unknown store driver %q", s.c.Store.Driver)
	}

	if len(s.c.Redis.Pubsub.Addrs) > 0 {
		r, err := connectRedis("pubsub", s.c.Redis.Pubsub.Addrs, s.c.Redis.Pubsub.Pass)
		if err != nil {
			return fmt.Errorf("redis: pubsub: %w", err)
		}
		s.infra.redis.pubsub = r
	}

	return nil
}

func connectRedis(name string, addrs []string, pass string) (redis.UniversalClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    addrs,
		Password: pass,
	})

	if err := telemetry.MonitorRedis(r, name); err != nil {
		return nil, errors.Join(err, r.Close())
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(err, r.Close())
	}

	return r, nil
}

func (s *Server) initPostgres() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p := s.c.Postgres
	cc, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s/%s", p.User, p.Pass, p.Addr, p.Name))
	if err != nil {
		return err
	}

	db, err := pgxpool.NewWithConfig(ctx, cc)
	if err != nil {
		return err
	}
	s.infra.postgres = db

	if err := db.Ping(ctx); err != nil {
		return err
	}

	store := result.NewPGStore(db)
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	s.store = store
	return nil
}

func (s *Server) initSQLite() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := result.OpenSQLite(ctx, s.c.SQLite.Path)
	if err != nil {
		return err
	}

	s.infra.sqlite = store
	s.store = store
	return nil
}

func (s *Server) initService() {
	s.service.result = result.NewService(result.Config{
		EventBus: s.eb,
		Store:    s.store,
		TTL:      s.c.Result.TTL,
	})
}

func (s *Server) initAPI() {
	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery(), s.metrics.GinMiddleware())
	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.grpc = grpc.NewServer(telemetry.GRPCServerInterceptor())

	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.grpc, s.health)

	c := api.Config{
		GRPC:         s.grpc,
		HTTP:         e,
		EventBus:     s.eb,
		Result:       s.service.result,
		Auth:         api.NewAuthenticator(s.c.Auth.JWTSecret),
		AdminToken:   s.c.Auth.AdminToken,
		PubsubPrefix: s.c.Redis.Pubsub.Prefix,
	}
	// A nil client must not reach the interface, or it would be called.
	if s.infra.redis.pubsub != nil {
		c.Redis = s.infra.redis.pubsub
	}
	api.New(c)

	s.health.SetServingStatus(api.ResultServiceName, healthpb.HealthCheckResponse_SERVING)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

func (s *Server) Start() {
	ctx := context.TODO()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.c.GRPC.Port))
	if err != nil {
		slog.ErrorContext(ctx, "grpc server: listen failed", "error", err)
		panic(err)
	}

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: gRPC listening on port %d", s.c.GRPC.Port))
		return s.grpc.Serve(lis)
	})

	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port),
			"store", s.c.Store.Driver,
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	err = eg.Wait()
	if err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

// Recompute rescores every unexpired stored result, without serving.
func (s *Server) Recompute(ctx context.Context) (int, error) {
	return s.service.result.RecomputeAll(ctx)
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.health.Shutdown()
	s.grpc.GracefulStop()
	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.eb.Stop()
	s.closeInfra()

	slog.InfoContext(ctx, "server: shutdown completed")
}

func (s *Server) closeInfra() {
	for name, r := range map[string]redis.UniversalClient{
		"store":  s.infra.redis.store,
		"pubsub": s.infra.redis.pubsub,
	} {
		if r == nil {
			continue
		}
		if err := r.Close(); err != nil {
			slog.Error("server: close redis failed", "redis", name, "error", err)
		}
	}

	if s.infra.postgres != nil {
		s.infra.postgres.Close()
	}

	if s.infra.sqlite != nil {
		if err := s.infra.sqlite.Close(); err != nil {
			slog.Error("server: close sqlite failed", "error", err)
		}
	}
}
