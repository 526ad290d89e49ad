package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/chasqui/internal/config"
	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	"github.com/dropDatabas3/chasqui/internal/http/server"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
	"github.com/dropDatabas3/chasqui/internal/store"
	migrations "github.com/dropDatabas3/chasqui/migrations/postgres"

	// adapters se registran vía init()
	_ "github.com/dropDatabas3/chasqui/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/chasqui/internal/store/adapters/pg"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		envFile string
	)

	root := &cobra.Command{
		Use:          "chasqui",
		Short:        "API de tareas con autenticación JWT",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", envOr("CONFIG_PATH", "config.yaml"), "archivo YAML de configuración (opcional)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env a cargar si existe")

	loadConfig := func() (*config.Config, error) {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		if cfg.App.Version == "" {
			cfg.App.Version = version
		}
		logger.Init(logger.Config{
			Env:         cfg.App.Env,
			Level:       cfg.Log.Level,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
		})
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newRolesCmd(),
	)
	return root
}

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if migrate {
				cfg.Flags.Migrate = true
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "aplicar migraciones antes de arrancar (postgres)")
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	log := logger.L().With(logger.Component("serve"))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := server.Build(ctx, cfg, server.Options{})
	if err != nil {
		log.Error("wiring failed", logger.Err(err))
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn("cleanup error", logger.Err(err))
		}
	}()

	if cfg.Flags.Migrate {
		if err := runMigrations(ctx, app.Store); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", logger.Any("addr", cfg.Server.Addr), logger.Driver(cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newMigrateCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL embebidas (solo postgres)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			conn, err := store.OpenAdapter(cmd.Context(), store.AdapterConfig{
				Name:         cfg.Storage.Driver,
				DSN:          cfg.Storage.DSN,
				MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
				MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
			})
			if err != nil {
				return err
			}
			defer conn.Close()
			return runMigrations(cmd.Context(), conn)
		},
	}
}

func runMigrations(ctx context.Context, conn store.AdapterConnection) error {
	log := logger.L().With(logger.Component("migrate"), logger.Driver(conn.Name()))

	mc, ok := conn.(store.MigratableConnection)
	if !ok {
		log.Info("driver has no migrations, skipping")
		return nil
	}
	res, err := store.NewMigrator(migrations.FS, migrations.Dir).Run(ctx, mc.MigrationExecutor())
	if err != nil {
		log.Error("migrations failed", logger.Err(err))
		return err
	}
	log.Info("migrations done",
		logger.Count(len(res.Applied)),
		logger.Any("skipped", len(res.Skipped)),
		logger.DurationMs(res.Duration),
	)
	return nil
}

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Lista el catálogo de roles y sus permisos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROLE\tDESCRIPTION\tPERMISSIONS")
			for _, r := range rbac.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\t%v\n", r.Name, r.Description, r.Permissions.Strings())
			}
			return tw.Flush()
		},
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
