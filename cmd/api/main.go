package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/neighborly/neighborly-api/internal/config"
	"github.com/neighborly/neighborly-api/internal/domain/booking"
	"github.com/neighborly/neighborly-api/internal/domain/contactshare"
	"github.com/neighborly/neighborly-api/internal/domain/conversation"
	"github.com/neighborly/neighborly-api/internal/domain/moderation"
	"github.com/neighborly/neighborly-api/internal/domain/post"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/settings"
	"github.com/neighborly/neighborly-api/internal/domain/shortlist"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/middleware"
	"github.com/neighborly/neighborly-api/internal/pkg/database"
	"github.com/neighborly/neighborly-api/internal/pkg/events"
	"github.com/neighborly/neighborly-api/internal/pkg/firebaseauth"
	"github.com/neighborly/neighborly-api/internal/pkg/jwt"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
	"github.com/neighborly/neighborly-api/internal/pkg/metrics"
	pkgresponse "github.com/neighborly/neighborly-api/internal/pkg/response"
)

// routeRegistrar is implemented by every callable handler
type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		Service:     "neighborly-api",
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("auth", cfg.AuthProvider).
		Msg("Starting Neighborly API")

	db, err := database.NewPostgres(cfg.Postgres())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if cfg.RunMigrations {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	rdb, err := database.NewRedis(cfg.Redis())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(events.DefaultConfig(cfg.NATSURL))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		log.Warn().Msg("NATS URL not configured, events are dropped")
	}

	verifier, err := newVerifier(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token verifier")
	}

	r := newRouter(cfg, verifier, buildHandlers(cfg, db, rdb, publisher)...)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newVerifier(ctx context.Context, cfg *config.Config) (middleware.TokenVerifier, error) {
	if cfg.AuthProvider == config.AuthProviderFirebase {
		return firebaseauth.NewVerifier(ctx, firebaseauth.Config{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		})
	}
	return jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL), nil
}

func buildHandlers(cfg *config.Config, db *sqlx.DB, rdb *redis.Client, publisher events.Publisher) []routeRegistrar {
	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	settingsRepo := settings.NewRepository(db)
	moderationRepo := moderation.NewRepository(db)
	contentLookup := moderation.NewContentLookup(db)
	postRepo := post.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	shortlistRepo := shortlist.NewRepository(db)
	conversationRepo := conversation.NewRepository(db)
	contactShareRepo := contactshare.NewRepository(db)

	// ---------- Shared policy ----------
	guard := user.NewGuard(userRepo, cfg.NewAccountAge)
	limiter := ratelimit.NewLimiter(rdb)
	settingsService := settings.NewService(settingsRepo)

	// ---------- Services ----------
	moderationService := moderation.NewService(moderationRepo, contentLookup, guard, limiter, settingsService, publisher)
	postService := post.NewService(postRepo, guard, limiter, settingsService, settingsService, moderationService)
	bookingService := booking.NewService(bookingRepo, postRepo, guard, limiter, settingsService, moderationService, publisher)
	shortlistService := shortlist.NewService(shortlistRepo, postRepo, guard, limiter, settingsService, moderationService)
	conversationService := conversation.NewService(conversationRepo, bookingRepo, guard, limiter, settingsService, moderationService, publisher)
	contactShareService := contactshare.NewService(contactShareRepo, bookingRepo, conversationRepo, guard, limiter, publisher)

	return []routeRegistrar{
		post.NewHandler(postService),
		booking.NewHandler(bookingService),
		shortlist.NewHandler(shortlistService),
		conversation.NewHandler(conversationService),
		contactshare.NewHandler(contactShareService),
		moderation.NewHandler(moderationService),
	}
}

func newRouter(cfg *config.Config, verifier middleware.TokenVerifier, handlers ...routeRegistrar) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1/callable", func(r chi.Router) {
		r.Use(middleware.Auth(verifier))
		for _, h := range handlers {
			h.RegisterRoutes(r)
		}
	})

	return r
}
