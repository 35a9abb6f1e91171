package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bolao/internal/game"
	"bolao/internal/guess"
	"bolao/internal/jwttoken"
	"bolao/internal/platform/cache"
	"bolao/internal/platform/config"
	"bolao/internal/platform/database"
	"bolao/internal/platform/httpserver"
	"bolao/internal/platform/logger"
	"bolao/internal/platform/metrics"
	"bolao/internal/platform/middleware"
	platformredis "bolao/internal/platform/redis"
	"bolao/internal/poll"
	"bolao/internal/transport/http/shared"
	"bolao/internal/user"
	"bolao/pkg/audit"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	if db != nil {
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Error("schema bootstrap failed", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("DATABASE_URL not set, running on in-memory stores")
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}

	var publisher audit.Publisher
	var kafkaPublisher *audit.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err = audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	}

	var (
		userStore  user.Store
		pollStore  poll.Store
		gameStore  game.Store
		guessStore guess.Store
	)
	if db != nil {
		userStore = user.NewPostgres(db)
		pollStore = poll.NewPostgres(db)
		gameStore = game.NewPostgres(db)
		guessStore = guess.NewPostgres(db)
	} else {
		userStore = user.NewInMemoryStore()
		pollStore = poll.NewInMemoryStore()
		gameStore = game.NewInMemoryStore()
		guessStore = guess.NewInMemoryStore()
	}

	tokens := jwttoken.New(cfg.JWTSigningKey, "bolao")

	userSvc, err := user.New(userStore, user.NewGoogleVerifier(),
		user.WithLogger(log),
		user.WithMetrics(m),
		user.WithAuditPublisher(publisher),
		user.WithCountCache(cache.NewCount("users", rdb, cfg.Redis.CountTTL, log, userStore.Count)),
	)
	if err != nil {
		log.Error("user service init failed", "error", err)
		os.Exit(1)
	}

	pollSvc, err := poll.New(pollStore,
		poll.WithLogger(log),
		poll.WithMetrics(m),
		poll.WithAuditPublisher(publisher),
		poll.WithCountCache(cache.NewCount("polls", rdb, cfg.Redis.CountTTL, log, pollStore.CountPolls)),
	)
	if err != nil {
		log.Error("poll service init failed", "error", err)
		os.Exit(1)
	}

	guessSvc, err := guess.New(pollSvc, gameStore, guessStore,
		guess.WithLogger(log),
		guess.WithMetrics(m),
		guess.WithAuditPublisher(publisher),
		guess.WithCountCache(cache.NewCount("guesses", rdb, cfg.Redis.CountTTL, log, guessStore.Count)),
	)
	if err != nil {
		log.Error("guess service init failed", "error", err)
		os.Exit(1)
	}

	gameSvc, err := game.New(gameStore, pollSvc, guessSvc)
	if err != nil {
		log.Error("game service init failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))

	user.NewHandler(userSvc, tokens, cfg.TokenTTL, log).Register(r)
	poll.NewHandler(pollSvc, log, tokens).Register(r)
	game.NewHandler(gameSvc, log, tokens).Register(r)
	guess.NewHandler(guessSvc, log, tokens).Register(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if db != nil {
			if err := db.PingContext(req.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
				return
			}
		}
		if rdb != nil {
			if err := rdb.Health(req.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting bolao", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(shutdownCtx); err != nil {
			log.Error("audit publisher close failed", "error", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
