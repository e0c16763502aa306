// @title         animelist API
// @version       1.0
// @description   Per-user anime watchlists: signup, login and progress tracking.
// @BasePath      /
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token returned by /login. Accepted as "Bearer <JWT>" or "<JWT>".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	_ "github.com/artem13815/animelist/docs"

	// internal imports
	"github.com/artem13815/animelist/api/http"
	"github.com/artem13815/animelist/api/http/handlers"
	"github.com/artem13815/animelist/api/http/middleware"
	"github.com/artem13815/animelist/pkg/auth"
	"github.com/artem13815/animelist/pkg/config"
	"github.com/artem13815/animelist/pkg/health"
	"github.com/artem13815/animelist/pkg/health/checkers"
	"github.com/artem13815/animelist/pkg/logger"
	pgrepo "github.com/artem13815/animelist/pkg/repository/postgres"
	"github.com/artem13815/animelist/pkg/security/jwt"
	"github.com/artem13815/animelist/pkg/security/password"
	"github.com/artem13815/animelist/pkg/session"
	"github.com/artem13815/animelist/pkg/storage/postgres"
	"github.com/artem13815/animelist/pkg/watchlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL; queries are traced only for local runs
	var tracer pgx.QueryTracer
	if cfg.Env == "local" {
		tracer = logger.NewPgxTracer(log)
	}
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, tracer)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		from, to, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
		log.Info().Int64("from", from).Int64("to", to).Msg("schema up to date")
	}

	readiness := []health.Checker{checkers.NewPostgresChecker(pool)}

	// Token revocations live in Redis when configured, in process memory otherwise
	var revocations session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		rdb, err := session.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis client")
		}
		defer rdb.Close()
		revocations = session.NewRedisStore(rdb)
		readiness = append(readiness, checkers.NewRedisChecker(rdb))
	} else {
		log.Warn().Msg("REDIS_URL not set, logouts are kept in memory and lost on restart")
	}

	// Wire dependencies (Clean Architecture)
	userRepo := pgrepo.NewUserRepository(pool)
	animeRepo := pgrepo.NewAnimeRepository(pool)

	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	hasher := password.NewBcryptHasher(cfg.BcryptCost)

	watchlistUC := watchlist.NewService(animeRepo)
	authUC := auth.NewAuthService(userRepo, hasher, animeRepo, jwtGen, revocations)

	authHandler := handlers.NewAuthHandler(authUC)
	animeHandler := handlers.NewAnimeHandler(watchlistUC)
	healthHandler := handlers.NewHealthHandler(health.NewService(readiness...))

	// JWT auth middleware for protected routes
	authMW := jwt.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer, revocations)

	app := fiber.New(fiber.Config{AppName: "animelist"})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger(log))

	http.Register(app, authHandler, healthHandler, animeHandler, authMW)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
