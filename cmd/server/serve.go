package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/time/rate"

	"github.com/handsomefox/movie-discovery/internal/config"
	"github.com/handsomefox/movie-discovery/internal/handlers"
	"github.com/handsomefox/movie-discovery/internal/logger"
	"github.com/handsomefox/movie-discovery/internal/scheduler"
	"github.com/handsomefox/movie-discovery/internal/state"
	"github.com/handsomefox/movie-discovery/internal/store"
	"github.com/handsomefox/movie-discovery/internal/tmdb"
	"github.com/handsomefox/movie-discovery/internal/web"
)

const (
	snapshotTTL     = 7 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

type ServeCmd struct{}

func (s *ServeCmd) Run(ctx context.Context, cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	production := cfg.Env == config.Production
	slog.SetDefault(newLogger(cfg))

	st, err := store.Open(cfg.Store.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close DB", logger.Error(err))
		}
	}()

	var snaps store.Snapshotter = st
	if cfg.Store.RedisURL != "" {
		rs, err := store.NewRedisSnapshots(ctx, cfg.Store.RedisURL, snapshotTTL)
		if err != nil {
			slog.Warn("redis unavailable, keeping snapshots in sqlite", logger.Error(err))
		} else {
			defer func() {
				if err := rs.Close(); err != nil {
					slog.Error("Failed to close redis", logger.Error(err))
				}
			}()
			snaps = rs
		}
	}

	client := newTMDBClient(cfg)
	genres := state.NewGenres(client, snaps)
	regions := state.NewRegions(client, snaps)

	var sched *scheduler.Scheduler
	if cfg.Refresh.Enabled {
		sched, err = scheduler.New(scheduler.Config{
			Spec:    cfg.Refresh.Cron,
			Locales: state.LocaleCodes(),
		},
			scheduler.Target{Name: "genres", Refresher: genres},
			scheduler.Target{Name: "regions", Refresher: regions},
		)
		if err != nil {
			return fmt.Errorf("failed to init scheduler: %w", err)
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	app, err := handlers.New(&handlers.Config{
		Store:      st,
		TMDB:       client,
		Genres:     genres,
		Regions:    regions,
		Scheduler:  sched,
		Production: production,
	})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	dist, err := web.Dist()
	if err != nil {
		return fmt.Errorf("failed to load embedded web assets: %w", err)
	}
	spa, err := handlers.SPA(dist)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, app, spa),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", server.Addr), slog.String("env", string(cfg.Env)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.Env == config.Production, cfg.LogLevel())
	if lvl, ok := cfg.ExitLevel(); ok {
		log = logger.WithExitOnLevel(log, lvl)
	}
	return log
}

func newTMDBClient(cfg *config.Config) *tmdb.Client {
	opts := []tmdb.Option{
		tmdb.WithBaseURL(cfg.TMDB.APIURL),
		tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		tmdb.WithDefaultLocale(cfg.TMDB.DefaultLocale),
		tmdb.WithHTTPClient(&http.Client{Timeout: cfg.TMDB.Timeout}),
	}
	if rps := cfg.TMDB.RequestsPerSecond; rps > 0 {
		opts = append(opts, tmdb.WithRateLimiter(rate.NewLimiter(rate.Limit(rps), rps)))
	}
	return tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.APIToken, opts...)
}

func newRouter(cfg *config.Config, app *handlers.Handler, spa http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(slog.Default(), &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaECS,
		RecoverPanics: true,
		Skip: func(req *http.Request, _ int) bool {
			return !strings.HasPrefix(req.URL.Path, "/api")
		},
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Sec-CH-Viewport-Width", "Viewport-Width", "Sec-CH-Prefers-Color-Scheme"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.WriteTimeout))
		app.RegisterRoutes(r)
	})
	r.Handle("/*", spa)
	return r
}
