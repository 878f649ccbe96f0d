// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/tablekit/cardtable/internal/cache"
	"github.com/tablekit/cardtable/internal/config"
	"github.com/tablekit/cardtable/internal/game"
	"github.com/tablekit/cardtable/internal/game/uno"
	"github.com/tablekit/cardtable/internal/handlers"
	"github.com/tablekit/cardtable/internal/middleware"
	"github.com/tablekit/cardtable/internal/monitor"
	"github.com/tablekit/cardtable/internal/room"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	registry := game.NewRegistry()
	uno.Register(registry)

	var sessions cache.Sessions
	if cfg.RedisAddr != "" {
		rs, err := cache.NewRedisSessions(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		sessions = rs
		logger.Infof("Session store: redis at %s", cfg.RedisAddr)
	} else {
		sessions = cache.NewMemorySessions()
		logger.Warn("REDIS_ADDR not set, sessions will not survive restarts")
	}

	mon := monitor.New(cfg.MetricsNamespace)
	rooms := room.NewManager()
	srv := handlers.NewServer(logger, rooms, registry, sessions, mon, cfg.CORSOrigin)

	go func() {
		for range time.Tick(5 * time.Minute) {
			if n := rooms.CleanupEmpty(); n > 0 {
				logger.Infof("Swept %d empty rooms", n)
			}
			mon.SetActiveRooms(rooms.Count())
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(logger))
	r.Get("/ws", srv.WSHandler())
	r.Mount("/api", srv.APIRouter())
	r.Get("/health", srv.HealthHandler())
	r.Handle("/metrics", mon.Handler())

	addr := ":" + cfg.Port
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
