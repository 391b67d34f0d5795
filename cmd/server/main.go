// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/auxbattle/auxbattle/internal/auth"
	"github.com/auxbattle/auxbattle/internal/cache"
	"github.com/auxbattle/auxbattle/internal/config"
	"github.com/auxbattle/auxbattle/internal/database"
	"github.com/auxbattle/auxbattle/internal/handlers"
	"github.com/auxbattle/auxbattle/internal/middleware"
	"github.com/auxbattle/auxbattle/internal/room"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	auth.TokenTTL = cfg.TokenTTL
	auth.Init()

	ctx := context.Background()
	if err := database.Connect(ctx, cfg.PostgresDSN); err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer database.Close()

	coordinator := room.NewCoordinator(logger, database.ProfileStore{})
	coordinator.Archive = database.BattleStore{}

	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
		logger.Warnf("redis unavailable, battle events disabled: %v", err)
	} else {
		coordinator.Events = cache.NewPublisher("")
	}

	coordinator.StartJanitor(ctx, cfg.JanitorInterval, cfg.RoomIdleTTL)

	bs := handlers.NewBattleServer(logger, coordinator, database.ProfileStore{})

	logged := middleware.LogMiddleware(logger)
	mux := http.NewServeMux()
	mux.Handle("/battle/create", logged(handlers.CreateBattleHandler(bs)))
	mux.Handle("/battle/join", logged(handlers.JoinBattleHandler(bs)))
	mux.Handle("/battle/leave", logged(handlers.LeaveBattleHandler(bs)))
	mux.Handle("/battle/start", logged(handlers.StartBattleHandler(bs)))
	mux.Handle("/battle/complete", logged(handlers.CompleteBattleHandler(bs)))
	mux.Handle("/battle/ws/", logged(handlers.SubscribeBattleHandler(logger, bs)))

	logger.Infof("auxbattle coordinator listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
