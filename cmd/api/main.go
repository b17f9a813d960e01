package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrKriegler/go-renewals/internal/core"
	transporthttp "github.com/MrKriegler/go-renewals/internal/http"
	"github.com/MrKriegler/go-renewals/internal/http/handlers"
	"github.com/MrKriegler/go-renewals/internal/http/health"
	"github.com/MrKriegler/go-renewals/internal/jobs"
	"github.com/MrKriegler/go-renewals/internal/middleware"
	"github.com/MrKriegler/go-renewals/internal/platform/config"
	"github.com/MrKriegler/go-renewals/internal/platform/logging"
	"github.com/MrKriegler/go-renewals/internal/store"
	redisstore "github.com/MrKriegler/go-renewals/internal/store/redis"

	_ "github.com/MrKriegler/go-renewals/docs"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel)
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting go-renewals API", "addr", addr, "env", cfg.Env, "db", cfg.DBType)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open stores", "err", err)
		os.Exit(1)
	}
	defer stores.Close(context.Background())

	// ---- Domain ----
	engine := core.NewEngine(log, core.WithWorkers(cfg.ScoringWorkers))
	svc := core.NewRenewalService(stores.Records, stores.Overrides, engine)

	worker := jobs.NewPipelineWorker(svc, core.PipelineQuery{
		TimeWindowDays: cfg.PipelineWindowDays,
		Mode:           core.PipelineMode(cfg.PipelineMode),
	}, time.Duration(cfg.WorkerIntervalSec)*time.Second, log)

	// ---- HTTP ----
	var limiter middleware.Limiter
	if cfg.RateLimitStore == "redis" {
		limiter = redisstore.NewFixedWindowLimiter(stores.Redis.RDB, redisstore.DefaultRateLimitPrefix, cfg.RateLimitRPM, time.Minute)
	} else {
		sw := middleware.NewSlidingWindow(cfg.RateLimitRPM, time.Minute)
		go sw.Run(ctx, time.Minute)
		limiter = sw
	}

	router := transporthttp.NewRouter(transporthttp.Deps{
		Mounts: []handlers.Mountable{
			handlers.NewPipelineHandler(svc, worker, log),
			handlers.NewOverrideHandler(svc, log),
			handlers.NewRecordHandler(stores.Records, log),
			handlers.NewEnrichmentHandler(svc, log),
		},
		Health:         health.New(log, stores.Checks, 2*time.Second),
		APIKeys:        cfg.APIKeys,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      middleware.RateLimit(limiter, time.Minute, log),
		RequestTimeout: time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	workersDone := make(chan struct{})
	go func() {
		jobs.RunAll(ctx, worker)
		close(workersDone)
	}()

	go func() {
		log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
	<-workersDone
	log.Info("stopped")
}
