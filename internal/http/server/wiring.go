// Package server arma el handler HTTP con todas sus dependencias a partir de
// la configuración.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/chasqui/internal/cache"
	"github.com/dropDatabas3/chasqui/internal/config"
	authctl "github.com/dropDatabas3/chasqui/internal/http/controllers/auth"
	healthctl "github.com/dropDatabas3/chasqui/internal/http/controllers/health"
	taskctl "github.com/dropDatabas3/chasqui/internal/http/controllers/tasks"
	"github.com/dropDatabas3/chasqui/internal/http/router"
	authsvc "github.com/dropDatabas3/chasqui/internal/http/services/auth"
	tasksvc "github.com/dropDatabas3/chasqui/internal/http/services/tasks"
	jwtx "github.com/dropDatabas3/chasqui/internal/jwt"
	"github.com/dropDatabas3/chasqui/internal/metrics"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
	"github.com/dropDatabas3/chasqui/internal/security/password"
	"github.com/dropDatabas3/chasqui/internal/store"
)

// Options ajusta el armado; el zero value sirve para producción.
type Options struct {
	// Registry de métricas; nil => prometheus.DefaultRegisterer/Gatherer.
	Registry *prometheus.Registry
}

// App es el resultado del wiring: el handler y lo que hay que cerrar.
type App struct {
	Handler http.Handler
	Store   store.AdapterConnection
	Cache   cache.Client
	Tokens  *jwtx.Service
}

// Build valida la configuración y construye storage, cache, hasher, token
// service, servicios, controllers y router. El cleanup devuelto cierra
// cache y storage; es seguro llamarlo aunque Build haya fallado a mitad.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, func() error, error) {
	log := logger.From(ctx).With(logger.Component("wiring"))

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var closers []func() error
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*App, func() error, error) {
		_ = cleanup()
		return nil, nil, err
	}

	// 1. Tokens (primero: sin clave no hay servicio)
	tokens, err := jwtx.NewService(jwtx.Config{
		SigningKey: []byte(cfg.JWT.SigningKey),
		TTL:        cfg.TokenTTL(),
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("token service: %w", err)
	}

	// 2. Hasher
	hasher, err := password.NewHasher(password.Config{
		Cost:    cfg.Security.BcryptCost,
		Workers: cfg.Security.HashWorkers,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("password hasher: %w", err)
	}

	// 3. Storage
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	})
	if err != nil {
		return fail(fmt.Errorf("storage: %w", err))
	}
	closers = append(closers, conn.Close)
	log.Info("storage ready", logger.Driver(conn.Name()))

	// 4. Cache del listado de tareas
	cc, err := cache.New(ctx, cache.Config{
		Kind:       cfg.Cache.Kind,
		DefaultTTL: cfg.Cache.TTL,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		},
	})
	if err != nil {
		return fail(fmt.Errorf("cache: %w", err))
	}
	closers = append(closers, cc.Close)
	log.Info("cache ready", logger.Driver(cfg.Cache.Kind))

	// 5. Métricas
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		reg, gatherer = opts.Registry, opts.Registry
	}
	if err := metrics.Register(reg); err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}

	// 6. Servicios y controllers
	auth := authsvc.NewService(authsvc.Deps{
		Identities: conn.Identities(),
		Hasher:     hasher,
		Tokens:     tokens,
	})
	tasks := tasksvc.NewService(tasksvc.Deps{
		Tasks:    conn.Tasks(),
		Cache:    cc,
		CacheTTL: cfg.Cache.TTL,
	})

	handler := router.New(router.Deps{
		Auth:  authctl.NewControllers(authctl.Services{Register: auth, Login: auth}),
		Tasks: taskctl.NewTaskController(tasks),
		Health: healthctl.NewHealthController(cfg.App.Version, map[string]healthctl.Pinger{
			"storage": conn,
			"cache":   cc,
		}),
		Verifier: tokens,
		Metrics:  metrics.Handler(gatherer),
	})

	return &App{Handler: handler, Store: conn, Cache: cc, Tokens: tokens}, cleanup, nil
}
