package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/rv-checklist/backend/internal/auth"
	"github.com/ayush/rv-checklist/backend/internal/checklist"
	"github.com/ayush/rv-checklist/backend/internal/config"
	"github.com/ayush/rv-checklist/backend/internal/logging"
	"github.com/ayush/rv-checklist/backend/internal/server"
	"github.com/ayush/rv-checklist/backend/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, cfg.IsProduction(), cfg.LogLevel)
	usingDevSecret, err := cfg.Validate()
	if err != nil {
		return err
	}
	if usingDevSecret {
		log.Warn("JWT_SECRET not set, using development secret")
	}

	ctx := context.Background()

	var (
		users     store.UserStore
		templates checklist.TemplateStore
		instances checklist.InstanceStore
	)

	switch cfg.StoreBackend {
	case "memory":
		mem := store.NewMemoryStore()
		users, templates, instances = mem, mem, mem
		log.Info("using in-memory store")

	default:
		// ── PostgreSQL ────────────────────────────────────────────
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			return err
		}
		users = pgStore

		// ── MongoDB ──────────────────────────────────────────────
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return err
		}
		defer mongoClient.Disconnect(ctx)
		mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return err
		}
		templates, instances = mongoStore, mongoStore
		log.Info("connected to stores", "mongo_db", cfg.MongoDB)
	}

	// ── Redis ────────────────────────────────────────────────
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		users = store.NewUserCache(users, rdb, cfg.UserCacheTTL, log)
		log.Info("user cache enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.UserCacheTTL)
	}

	// ── Services ─────────────────────────────────────────────
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	authSvc := auth.NewService(users, tokens, cfg.BcryptCost, log)
	registry := checklist.NewRegistry(templates)
	manager := checklist.NewManager(instances, registry, log)
	seeder := checklist.NewSeeder(registry, authSvc, checklist.AdminCredentials{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, log)

	if cfg.AutoSeed {
		res := seeder.Seed(ctx)
		log.Info("startup seed finished", "templates_created", res.TemplatesCreated, "admin_created", res.AdminCreated)
	}

	// ── Router ───────────────────────────────────────────────
	r := server.NewRouter(server.Deps{
		Auth:        authSvc,
		Checklists:  checklist.NewHandler(registry, manager, seeder, log),
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("backend listening", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
