package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/api"
	"github.com/andrewpaige1/flashcards-web/config"
	"github.com/andrewpaige1/flashcards-web/handlers"
	"github.com/andrewpaige1/flashcards-web/middleware"
	"github.com/andrewpaige1/flashcards-web/preview"
	"github.com/andrewpaige1/flashcards-web/review"
	"github.com/andrewpaige1/flashcards-web/study"
)

const reviewIdleTimeout = 2 * time.Hour

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	env := config.LoadEnvironment()

	logger, err := config.NewLogger(env.IsDevelopment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if len(env.SessionSecret) == 0 {
		if !env.IsDevelopment {
			logger.Fatal("SESSION_SECRET must be set outside development")
		}
		secret, err := gonanoid.New(48)
		if err != nil {
			logger.Fatal("failed to generate a development session secret", zap.Error(err))
		}
		env.SessionSecret = []byte(secret)
		logger.Warn("SESSION_SECRET not set, using a random secret; sessions end on restart")
	}

	// Initialize database connection
	db, err := config.Connect(env)
	if err != nil {
		logger.Fatal("failed to open preview store", zap.Error(err))
	}

	client := api.NewClient(env.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: env.APITimeout}),
		api.WithLogger(logger.Named("api")))
	previews := preview.NewOrchestrator(client, preview.NewGormStore(db, logger.Named("store")), logger.Named("preview"))
	reviews := review.NewRegistry(previews)
	studies := study.NewRegistry(client, logger.Named("study"))

	authMiddleware, err := middleware.EnsureValidToken(env.AuthIssuerURL, env.AuthAudience, logger)
	if err != nil {
		logger.Fatal("failed to set up token validation", zap.Error(err))
	}

	h := &handlers.Handler{
		API:      client,
		Previews: previews,
		Reviews:  reviews,
		Studies:  studies,
		Logger:   logger.Named("http"),
	}
	mux := http.NewServeMux()
	h.Register(mux)

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Location", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(logger)(authMiddleware(middleware.BrowserSession(env, logger)(mux))))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := reviews.Sweep(reviewIdleTimeout); n > 0 {
					logger.Debug("swept idle review sessions", zap.Int("count", n))
				}
				if n := studies.Sweep(reviewIdleTimeout); n > 0 {
					logger.Debug("swept idle study sessions", zap.Int("count", n))
				}
			}
		}
	}()

	// Server configuration
	server := &http.Server{
		Addr:              "0.0.0.0:" + env.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", server.Addr), zap.String("api", env.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
