package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/mindguide/internal/activity"
	"github.com/suPer8Hu/mindguide/internal/auth"
	"github.com/suPer8Hu/mindguide/internal/bot"
	"github.com/suPer8Hu/mindguide/internal/chat"
	"github.com/suPer8Hu/mindguide/internal/config"
	"github.com/suPer8Hu/mindguide/internal/contact"
	"github.com/suPer8Hu/mindguide/internal/db"
	"github.com/suPer8Hu/mindguide/internal/httpapi"
	"github.com/suPer8Hu/mindguide/internal/httpapi/handlers"
	"github.com/suPer8Hu/mindguide/internal/logging"
	"github.com/suPer8Hu/mindguide/internal/mood"
	"github.com/suPer8Hu/mindguide/internal/stats"
	"github.com/suPer8Hu/mindguide/internal/store/rabbitmq"
	"github.com/suPer8Hu/mindguide/internal/store/redisstore"
)

func main() {
	cfg := config.Load()
	lg := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Prefix: "server",
	})

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	gdb, err := db.Connect(db.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Debug:        cfg.GinMode == gin.DebugMode,
		Logger:       lg,
	})
	if err != nil {
		lg.Fatal("database", "err", err)
	}
	if err := db.Migrate(gdb, lg); err != nil {
		lg.Fatal("migrate", "err", err)
	}

	// redis is optional; without it stats are computed on every request
	var cache stats.Cache
	if cfg.RedisAddr != "" {
		rds, err := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StatsCacheTTL)
		if err != nil {
			lg.Warn("redis unavailable, stats cache disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			defer rds.Close()
			cache = rds
		}
	}

	var pub contact.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			lg.Warn("rabbitmq unavailable, contact notifications stay pending", "err", err)
		} else {
			defer p.Close()
			pub = p
		}
	}

	responder, err := bot.DefaultRegistry().Get(context.Background(), cfg.BotResponder)
	if err != nil {
		lg.Fatal("bot responder", "name", cfg.BotResponder, "err", err)
	}

	policy := stats.DefaultPolicy()
	policy.SessionBadges = cfg.StatsSessionBadges
	policy.StreakBadges = cfg.StatsStreakBadges
	policy.Location = cfg.StatsLocation()

	activityRepo := activity.NewRepo(gdb)
	act := activity.NewLogger(activityRepo, lg)
	agg := stats.NewAggregator(activityRepo, policy, cache, lg)
	act.OnRecord(agg.Invalidate)

	contactSvc := contact.NewService(contact.NewRepo(gdb), pub, lg)
	if n, err := contactSvc.RequeuePending(context.Background()); err != nil {
		lg.Warn("requeue pending contact submissions", "err", err)
	} else if n > 0 {
		lg.Info("requeued pending contact submissions", "count", n)
	}

	h := &handlers.Handler{
		Auth:       auth.NewService(auth.NewRepo(gdb), act, cfg.JWTSecret, lg),
		Chat:       chat.NewService(chat.NewRepo(gdb), responder, act, lg),
		Stats:      agg,
		Mood:       mood.NewService(gdb),
		ContactSvc: contactSvc,
		Log:        lg,
	}
	router := httpapi.NewRouter(h, httpapi.Options{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      lg,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		lg.Info("server starting", "addr", cfg.HTTPAddr, "db", cfg.DBDriver, "bot", cfg.BotResponder)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("server forced to shutdown", "err", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	lg.Info("server exited")
}
