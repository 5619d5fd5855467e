package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"table-reservation-backend/config"
	"table-reservation-backend/internal/api"
	"table-reservation-backend/internal/booking"
	"table-reservation-backend/internal/db"
	"table-reservation-backend/internal/model"
	"table-reservation-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "reservationd ", log.LstdFlags)

	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	mode, err := booking.ParseCapacityMode(cfg.Booking.CapacityMode)
	if err != nil {
		logger.Fatalf("invalid booking configuration: %v", err)
	}
	logger.Printf("capacity mode: %s", mode)

	// Initialize the datastore. Missing credentials are a warning, not
	// a crash: the daemon comes up on an in-memory store so the form
	// keeps working in local development.
	var appStore store.Store
	if cfg.Database.DSN == "" {
		logger.Println("Warning: no database DSN configured (set DATABASE_DSN or database.dsn); using in-memory store, bookings will not survive a restart")
		appStore = store.NewMemoryStore()
	} else {
		gormDB, err := db.Init(&cfg.Database)
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		logger.Println("database initialized successfully")
		appStore = store.NewGormStore(gormDB)
	}

	// Seed any configured capacity rows that do not exist yet. Live
	// counters are never touched.
	if len(cfg.Booking.SeedSlots) > 0 {
		seed := make([]model.Slot, 0, len(cfg.Booking.SeedSlots))
		for _, s := range cfg.Booking.SeedSlots {
			seed = append(seed, model.Slot{
				Date:        s.Date,
				TimeSlot:    s.Time,
				IsAvailable: true,
				MaxCapacity: s.MaxCapacity,
			})
		}
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := appStore.SeedSlots(seedCtx, seed); err != nil {
			logger.Printf("Warning: failed to seed slots: %v", err)
		} else {
			logger.Printf("seeded %d slots", len(seed))
		}
		cancel()
	}

	svc := booking.NewService(appStore, booking.NewIDGenerator(), mode)

	// Initialize router
	router := api.NewRouter(svc, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
