// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sparkmatch/sparkmatch-backend/internal/auth"
	"github.com/sparkmatch/sparkmatch-backend/internal/common/database"
	"github.com/sparkmatch/sparkmatch-backend/internal/config"
	"github.com/sparkmatch/sparkmatch-backend/internal/discovery"
	"github.com/sparkmatch/sparkmatch-backend/internal/interaction"
	"github.com/sparkmatch/sparkmatch-backend/internal/notification"
	"github.com/sparkmatch/sparkmatch-backend/internal/profile"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting SparkMatch API")
	log.Println("========================================")

	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Printf("✅ Configuration loaded (environment: %s)", cfg.Environment)

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL")

	// 4. Connect to Redis (optional, used for notification dedupe)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without it", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis")
		}
	}

	// 5. Run database migrations
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Auth
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Auth initialized")

	// 7. Profiles
	var uploader profile.Uploader
	if cfg.UseS3 {
		sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.AWSRegion)})
		if err != nil {
			log.Fatal("❌ Failed to create AWS session: ", err)
		}
		uploader = profile.NewS3Uploader(sess, cfg.S3BucketName, cfg.MaxPhotoBytes)
		log.Println("   ✅ Using S3 for photo uploads")
	} else {
		uploader, err = profile.NewLocalUploader(cfg.LocalUploadDir, cfg.BaseURL+"/uploads", cfg.MaxPhotoBytes)
		if err != nil {
			log.Fatal("❌ Failed to init local photo storage: ", err)
		}
		log.Println("   ✅ Using local storage for photo uploads")
	}

	profileRepo := profile.NewPostgresRepository(db)
	profileService := profile.NewService(profileRepo, uploader, profile.Options{
		GeohashPrecision: cfg.GeohashPrecision,
		MinAge:           cfg.MinAge,
		MaxAge:           cfg.MaxAge,
		DefaultMaxDistKm: cfg.DefaultMaxDistKm,
		MaxPhotos:        cfg.MaxProfilePhotos,
	})
	profileHandler := profile.NewHandler(profileService)
	log.Println("✅ Profiles initialized")

	// 8. Discovery
	discoveryStore := discovery.NewPostgresStore(db)
	discoveryService := discovery.NewService(discoveryStore, discovery.Options{
		PoolSize: cfg.CandidatePoolSize,
		MinAge:   cfg.MinAge,
		MaxAge:   cfg.MaxAge,
	})
	discoveryHandler := discovery.NewHandler(discoveryService)
	log.Println("✅ Discovery initialized")

	// 9. Notifications
	hub := notification.NewHub()
	channels := []notification.Channel{hub}

	if cfg.EnableEmailNotifications {
		emailChannel, err := notification.NewEmailChannel(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
			cfg.EmailFrom, cfg.EmailFromName, authRepo,
		)
		if err != nil {
			log.Printf("⚠️  Email notifications disabled: %v", err)
		} else {
			channels = append(channels, emailChannel)
			log.Println("   ✅ Email channel enabled")
		}
	}

	if cfg.EnableSMSNotifications && cfg.SMSProvider == "twilio" {
		smsChannel, err := notification.NewSMSChannel(
			cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, authRepo,
		)
		if err != nil {
			log.Printf("⚠️  SMS notifications disabled: %v", err)
		} else {
			channels = append(channels, smsChannel)
			log.Println("   ✅ SMS channel enabled")
		}
	}

	dispatcher := notification.NewDispatcher(redisClient, channels...)
	log.Println("✅ Notifications initialized")

	// 10. Interactions and matching
	interactionRepo := interaction.NewPostgresRepository(db)
	interactionService := interaction.NewService(interactionRepo, profileRepo, dispatcher)
	interactionHandler := interaction.NewHandler(interactionService)
	log.Println("✅ Interactions initialized")

	// 11. Routes
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler)
	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	discovery.RegisterRoutes(router, discoveryHandler, authMiddleware)
	interaction.RegisterRoutes(router, interactionHandler, authMiddleware)

	ws := router.PathPrefix("/api/v1/ws").Subrouter()
	ws.Use(authMiddleware.Authenticate)
	ws.HandleFunc("", hub.ServeWS)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	log.Println("✅ Routes registered")

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown: ", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations creates the schema if it does not exist
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			username VARCHAR(30) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			phone VARCHAR(20) UNIQUE,
			is_verified BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS profiles (
			user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			display_name VARCHAR(50) NOT NULL,
			birth_date DATE NOT NULL,
			gender VARCHAR(10) NOT NULL,
			show_me VARCHAR(10) NOT NULL,
			city VARCHAR(100),
			bio TEXT,
			goal VARCHAR(20),
			education VARCHAR(20),
			interests TEXT[] NOT NULL DEFAULT '{}',
			languages TEXT[] NOT NULL DEFAULT '{}',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			geohash VARCHAR(12),
			pref_min_age INTEGER NOT NULL DEFAULT 18,
			pref_max_age INTEGER NOT NULL DEFAULT 100,
			pref_max_distance_km DOUBLE PRECISION NOT NULL DEFAULT 100,
			is_visible BOOLEAN NOT NULL DEFAULT TRUE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS profile_photos (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,

		// One row per (actor, target); repeat swipes update in place.
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGSERIAL PRIMARY KEY,
			actor_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			target_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			action VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (actor_id, target_id),
			CHECK (actor_id <> target_id)
		)`,

		// The canonical ordering plus the unique constraint make match
		// creation race-safe across concurrent swipes.
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			user1_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user2_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user1_id, user2_id),
			CHECK (user1_id < user2_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_profiles_geohash ON profiles(geohash)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_visible ON profiles(is_visible)`,
		`CREATE INDEX IF NOT EXISTS idx_profile_photos_user ON profile_photos(user_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_target ON interactions(target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON matches(user1_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user2_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
