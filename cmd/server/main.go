package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/learning-mentor/internal/advisor"
	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/handler"
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/middleware"
	"github.com/iliyamo/learning-mentor/internal/queue"
	"github.com/iliyamo/learning-mentor/internal/repository"
	"github.com/iliyamo/learning-mentor/internal/router"
	"github.com/iliyamo/learning-mentor/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := repository.Open(cfg.DataDir, log)
	if err != nil {
		log.Fatal("open data dir failed", "dir", cfg.DataDir, "error", err)
	}

	var rdb *redis.Client
	sessions := auth.Registry(auth.NewMemoryRegistry())
	if config.RedisEnabled() {
		if rdb, err = config.NewRedisClient(); err != nil {
			log.Warn("redis unavailable, using in-process sessions and no rate limit", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
			sessions = auth.NewRedisRegistry(rdb)
		}
	}

	var gen advisor.Generator
	if cfg.GeminiAPIKey != "" {
		g, err := advisor.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Warn("advisor disabled", "error", err)
		} else {
			gen = g
		}
	} else {
		log.Info("GEMINI_API_KEY not set, serving fallback suggestions")
	}
	adv := advisor.New(gen, advisor.Models{
		Project:  cfg.ProjectModel,
		Roadmap:  cfg.RoadmapModel,
		Chat:     cfg.ChatModel,
		Insights: cfg.InsightModel,
	}, log.With("component", "advisor"))

	events := service.NewActivityPublisher(cfg.ActivityEvents, cfg.AMQPURL, log.With("component", "publisher"))
	if cfg.ActivityEvents {
		consumer := &queue.Consumer{URL: cfg.AMQPURL, Dir: cfg.ActivityLogDir, Log: log.With("component", "consumer")}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("activity consumer stopped", "error", err)
			}
		}()
	}

	svc := auth.NewService(repos.Users, log.With("component", "auth"), cfg.PasswordHash, cfg.BcryptCost)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.With("component", "ratelimit"))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log.With("component", "http")))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, svc, sessions, events, log), cfg.JWTSecret, sessions)
	router.RegisterLearner(e, handler.NewLearnerHandler(cfg, repos, adv, sessions, events, log), cfg.JWTSecret, sessions, limit)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env, "data_dir", cfg.DataDir, "advisor", adv.Enabled())

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
