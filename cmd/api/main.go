package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"storefront/docs"
	"storefront/internal/auth"
	"storefront/internal/bootstrap"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/database/migration"
	handlers "storefront/internal/http/handler"
	"storefront/internal/http/middleware"
	"storefront/internal/logger"
	"storefront/internal/otel"
	"storefront/internal/repository"
	"storefront/internal/repository/gormrepo"
	"storefront/internal/repository/postgres"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// @title       Storefront API
// @version     1.0
// @description Catalog, user and role management for the storefront.
// @BasePath    /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	log, err := logger.New(cfg.Log, loc)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "storefront", log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	repos, err := openRepositories(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	defer repos.db.Close()

	// Image support is optional; without MinIO the catalog still works.
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.Fatal("failed to initialize object storage", zap.Error(err))
		}
	} else {
		log.Warn("object storage disabled", zap.String("reason", "MINIO_ENDPOINT is empty"))
	}

	encoder := auth.NewBcryptEncoder(cfg.Auth.BcryptCost)
	userSvc := service.NewUserService(repos.users, repos.roles, encoder)
	roleSvc := service.NewRoleService(repos.roles)
	productSvc := service.NewProductService(objStore, repos.products, log.Named("product"))

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = randomSecret()
		log.Warn("JWT_SECRET is empty; using a random secret, tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenManager(secret, cfg.Auth.JWTIssuer, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	if err != nil {
		log.Fatal("failed to initialize token manager", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(repos.users, encoder, tokens)

	if cfg.Seed.Enabled {
		seed, err := bootstrap.LoadSeed(cfg.Seed.File)
		if err != nil {
			log.Fatal("failed to load seed", zap.Error(err))
		}
		seeder := bootstrap.NewSeeder(userSvc, roleSvc, productSvc, log.Named("seed"))
		if _, err := seeder.Run(ctx, seed); err != nil {
			log.Fatal("failed to seed data", zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             10 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath || c.Path() == "/healthz"
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log.Named("http")))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, middleware.MetricsHandler(reg))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:           repos.db,
		Users:        userSvc,
		Roles:        roleSvc,
		Products:     productSvc,
		Auth:         authenticator,
		Tokens:       tokens,
		AdminRole:    cfg.Auth.AdminRoleName,
		ImageLinkTTL: time.Duration(cfg.MinIO.PresignExpiryMin) * time.Minute,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", zap.String("addr", addr), zap.String("db_driver", cfg.Database.Driver))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("failed to start server", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("server_stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown failed", zap.Error(err))
	}
}

// repositories bundles the backend selected by DB_DRIVER.
type repositories struct {
	db       *sql.DB
	users    repository.UserRepository
	roles    repository.RoleRepository
	products repository.ProductRepository
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Host); err != nil {
			_ = db.Close()
			return nil, err
		}
		x := sqlx.NewDb(db, "pgx")
		return &repositories{
			db:       db,
			users:    postgres.NewUserPostgres(x),
			roles:    postgres.NewRolePostgres(x),
			products: postgres.NewProductPostgres(x),
		}, nil

	case config.DriverMySQL:
		gdb, err := database.NewMySQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		if err := migration.AutoMigrate(ctx, gdb, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &repositories{
			db:       db,
			users:    gormrepo.NewUserRepository(gdb),
			roles:    gormrepo.NewRoleRepository(gdb),
			products: gormrepo.NewProductRepository(gdb),
		}, nil
	}
	return nil, errors.New("unsupported DB_DRIVER: " + cfg.Driver)
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
