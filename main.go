package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitTrackAPI/handlers"
	"fitTrackAPI/internal/config"
	"fitTrackAPI/internal/session"
	"fitTrackAPI/internal/workers"
	"fitTrackAPI/middleware"
	"fitTrackAPI/services"

	_ "net/http/pprof"
)

var (
	cfg    config.Config
	dbPool *pgxpool.Pool

	profileService *services.ProfileService
	statsService   *services.StatsService
	dialogService  *services.DialogService
	sessionStore   *session.Store
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg = config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("OPENWEATHER_API_KEY not set, water targets use the fallback temperature")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	profileService = services.NewProfileService(dbPool)
	statsService = services.NewStatsService(dbPool)

	weatherService := services.NewWeatherService(cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey, cfg.LookupTimeout)
	nutritionService := services.NewNutritionService(cfg.OpenFoodFactsURL, cfg.LookupTimeout)

	sessionStore = session.NewStore()
	dialogService = services.NewDialogService(
		profileService,
		statsService,
		weatherService,
		nutritionService,
		sessionStore,
	)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	chatHandler := handlers.NewChatHandler(dialogService)
	userHandler := handlers.NewUserHandler(profileService, statsService)

	r := mux.NewRouter()

	// Websocket conversations bypass the standard middleware chain: the
	// connection is long-lived and rate limiting applies per message turn
	// inside the dialog, not per request.
	r.HandleFunc("/api/v1/chat/ws", chatHandler.Converse)

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupClients()
	workers.StartSessionJanitor(sessionStore, 24*time.Hour, time.Hour)

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "fitTrack-api"}`))
	}).Methods("GET")

	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/chat", chatHandler.PostMessage).Methods("POST")

	api.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	api.HandleFunc("/user", userHandler.DeleteProfile).Methods("DELETE")
	api.HandleFunc("/user/progress", userHandler.GetProgress).Methods("GET")
	api.HandleFunc("/user/logs", userHandler.GetTodayLogs).Methods("GET")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "X-Chat-ID", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	addr := ":" + cfg.Port

	server := http.Server{
		Addr:         addr,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
