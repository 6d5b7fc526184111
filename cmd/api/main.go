package main

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/roktoapp/donation-service/internal/adapters/handler"
	"github.com/roktoapp/donation-service/internal/adapters/middleware"
	"github.com/roktoapp/donation-service/internal/adapters/payment"
	"github.com/roktoapp/donation-service/internal/adapters/repository"
	"github.com/roktoapp/donation-service/internal/config"
	"github.com/roktoapp/donation-service/internal/core/services"
	"github.com/roktoapp/donation-service/internal/db"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	database, err := db.NewDB(cfg.DatabaseURL, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	userRepo := repository.NewUserRepository(database)
	requestRepo := repository.NewRequestRepository(database)
	fundRepo := repository.NewFundRepository(database)

	gateway := payment.NewGateway(cfg.PaymentAPIKey, cfg.PaymentBaseURL)

	tokenService := services.NewTokenService(userRepo, cfg.JWTPrivateKey)
	userService := services.NewUserService(userRepo)
	requestService := services.NewRequestService(requestRepo, userRepo)
	fundService := services.NewFundService(fundRepo, gateway)
	statsService := services.NewStatsService(userRepo, requestRepo, fundRepo, redisClient)

	tokenHandler := handler.NewTokenHandler(tokenService)
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService)
	fundHandler := handler.NewFundHandler(fundService)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(database, redisClient)

	auth := middleware.NewAuthMiddleware(cfg.JWTPublicKey)
	staff := []string{"admin", "volunteer"}
	adminOnly := []string{"admin"}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewMetrics(registry)

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Auth
	mux.HandleFunc("POST /jwt", tokenHandler.Issue)

	// Users
	mux.HandleFunc("POST /users", userHandler.Register)
	mux.HandleFunc("GET /users/{email}", userHandler.Get)
	mux.Handle("PATCH /users/{email}", auth.Authenticate(userHandler.UpdateProfile))
	mux.Handle("GET /users", auth.RequireRole(adminOnly, userHandler.List))
	mux.Handle("PATCH /users/status/{id}", auth.RequireRole(adminOnly, userHandler.SetStatus))
	mux.Handle("PATCH /users/role/{id}", auth.RequireRole(adminOnly, userHandler.SetRole))

	// Donation requests
	mux.Handle("POST /donation-requests", auth.Authenticate(requestHandler.Create))
	mux.Handle("GET /donation-requests", auth.RequireRole(staff, requestHandler.List))
	mux.HandleFunc("GET /donation-requests/pending", requestHandler.ListPending)
	mux.HandleFunc("GET /donation-requests/{id}", requestHandler.Get)
	mux.Handle("GET /donation-requests/recent/{email}", auth.Authenticate(requestHandler.ListRecent))
	mux.Handle("GET /donation-requests/my-requests/{email}", auth.Authenticate(requestHandler.ListMine))
	mux.Handle("PATCH /donation-requests/status/{id}", auth.Authenticate(requestHandler.ChangeStatus))
	mux.Handle("PATCH /donation-requests/{id}", auth.Authenticate(requestHandler.Edit))
	mux.Handle("DELETE /donation-requests/{id}", auth.Authenticate(requestHandler.Delete))

	// Donor search
	mux.Handle("GET /search-donors", auth.Authenticate(userHandler.SearchDonors))

	// Statistics
	mux.Handle("GET /statistics", auth.RequireRole(staff, statsHandler.Statistics))

	// Funding
	mux.Handle("POST /create-payment-intent", auth.Authenticate(fundHandler.CreateIntent))
	mux.Handle("POST /funds", auth.Authenticate(fundHandler.Record))
	mux.Handle("GET /funds", auth.Authenticate(fundHandler.List))

	root := middleware.CORS(cfg.AllowedOrigins)(metrics.Instrument(mux))

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, root); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
