package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mauriantolin/tu-carrera/internal/api"
	"github.com/mauriantolin/tu-carrera/internal/curriculum"
	"github.com/mauriantolin/tu-carrera/internal/planner"
	"github.com/mauriantolin/tu-carrera/internal/platform/cache"
	"github.com/mauriantolin/tu-carrera/internal/platform/config"
	"github.com/mauriantolin/tu-carrera/internal/platform/database"
	"github.com/mauriantolin/tu-carrera/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	loader, err := curriculum.NewLoader(cfg.CurriculumPath)
	if err != nil {
		return err
	}

	weights, err := plannerWeights(cfg)
	if err != nil {
		return err
	}

	svcCfg := session.ServiceConfig{
		Curricula: loader,
		Weights:   weights,
	}
	checks := map[string]api.Checker{}

	if cfg.NeedsDatabase() {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return err
		}
		defer db.Close()
		checks["database"] = db

		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx, curriculum.PostgresSchema, session.PostgresSchema); err != nil {
				return err
			}
		}
		if cfg.Database.LoadCatalogs {
			if err := registerDatabaseCatalogs(ctx, db, loader); err != nil {
				return err
			}
		}
		if cfg.Store.Backend == config.StorePostgres {
			store, err := session.NewPostgresStore(db.Pool)
			if err != nil {
				return err
			}
			svcCfg.Store = store
			svcCfg.Events = session.NewPostgresEventLogger(db.Pool)
		}
	}

	if cfg.NeedsCache() {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return err
		}
		defer c.Close()
		checks["cache"] = c

		if cfg.Store.Backend == config.StoreRedis {
			store, err := session.NewRedisStore(c.Client)
			if err != nil {
				return err
			}
			svcCfg.Store = store
		}
		if cfg.Cache.PlanCache {
			svcCfg.Plans = session.NewRedisPlanCache(c.Client, time.Duration(cfg.Cache.PlanTTLSec)*time.Second)
		}
	}

	svc, err := session.NewService(svcCfg)
	if err != nil {
		return err
	}
	slog.Info("planner ready",
		"store", cfg.Store.Backend,
		"policy", weights.Name,
		"criteria", weights.Describe(),
		"curricula", len(loader.All()),
	)

	handler := api.NewHandler(api.Config{
		Service:  svc,
		Catalogs: loader,
		Checks:   checks,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

// registerDatabaseCatalogs adds every curriculum stored in PostgreSQL to the
// loader. Curricula that fail to build are skipped.
func registerDatabaseCatalogs(ctx context.Context, db *database.DB, loader *curriculum.Loader) error {
	src, err := curriculum.NewPostgresSource(db.Pool)
	if err != nil {
		return err
	}
	ids, err := src.CurriculumIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		f, err := src.LoadCurriculum(ctx, id)
		if err != nil {
			return err
		}
		if _, err := loader.Register(f); err != nil {
			slog.Warn("skipping malformed curriculum", "curriculum_id", id, "error", err)
		}
	}
	slog.Info("database curricula registered", "count", len(ids))
	return nil
}

func plannerWeights(cfg *config.Config) (planner.Weights, error) {
	w, err := planner.WeightsByName(cfg.Planner.Policy)
	if err != nil {
		return planner.Weights{}, err
	}
	if cfg.HasWeightOverride() {
		w = w.WithSplit(cfg.Planner.ImpactWeight, cfg.Planner.ProximityWeight)
	}
	return w, w.Validate()
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
