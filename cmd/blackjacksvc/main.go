package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/nakedmcse/blackjack-go/configs"
	"github.com/nakedmcse/blackjack-go/internal/blackjack/broker"
	"github.com/nakedmcse/blackjack-go/internal/blackjack/db"
	handlers "github.com/nakedmcse/blackjack-go/internal/blackjack/handlers"
	"github.com/nakedmcse/blackjack-go/internal/blackjack/service"
	"github.com/nakedmcse/blackjack-go/internal/blackjack/store"
	nats "github.com/nakedmcse/blackjack-go/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "blackjack"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(ctx, dbpool); err != nil {
		cancel()
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	cancel()

	gameStore := store.NewGameStore(dbpool)
	statStore := store.NewStatStore(dbpool)
	statService := service.NewStatService(statStore)

	// live outcome feed for websocket clients
	feed := handlers.NewFeed()
	notifiers := []service.Notifier{feed}

	// NATS fan-out is optional, wired only when configured
	if os.Getenv("NATS_URL") != "" {
		n, err := nats.Connect()
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)

		notifiers = append(notifiers, broker.NewBroker(n.Conn))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gameService := service.NewGameService(gameStore, statService, rng, notifiers...)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimit := 60
	if rateLimitStr := os.Getenv("RATE_LIMIT"); rateLimitStr != "" {
		rateLimit, err = strconv.Atoi(rateLimitStr)
		if err != nil {
			log.Fatalf("Invalid RATE_LIMIT value: %v", err)
		}
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(gameService, statService, feed)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("GAME_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
