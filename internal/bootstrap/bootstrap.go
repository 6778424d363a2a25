package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/ecoshare/backend/internal/app/auth"
	appControllers "github.com/ecoshare/backend/internal/app/controllers"
	appMigrations "github.com/ecoshare/backend/internal/app/migrations"
	appRepos "github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/app/repositories/memory"
	"github.com/ecoshare/backend/internal/app/repositories/mongodb"
	"github.com/ecoshare/backend/internal/app/repositories/postgres"
	appRoutes "github.com/ecoshare/backend/internal/app/routes"
	appServices "github.com/ecoshare/backend/internal/app/services"
	"github.com/ecoshare/backend/internal/config"
	"github.com/ecoshare/backend/internal/db"
	appMiddleware "github.com/ecoshare/backend/internal/middleware"
	pkgAuth "github.com/ecoshare/backend/internal/pkg/auth"
	"github.com/ecoshare/backend/internal/pkg/helpers"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
	"github.com/ecoshare/backend/internal/pkg/logger"
	"github.com/ecoshare/backend/internal/pkg/validation"
	"github.com/ecoshare/backend/internal/seed"
)

// Closer releases a resource acquired during startup.
type Closer func(ctx context.Context) error

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos     *appRepos.Repositories
	ImageHost imagehost.Host
	// LocalHost is set when images live on local disk and must be served statically.
	LocalHost *imagehost.LocalHost

	JWTService    *pkgAuth.JWTService
	Policy        *appAuth.Policy
	Authenticator *appAuth.Authenticator
	Services      *appServices.Services

	AuthController     *appControllers.AuthController
	DonationController *appControllers.DonationController
	BlogController     *appControllers.BlogController
	UploadController   *appControllers.UploadController
	HealthController   *appControllers.HealthController
	AuthMiddleware     *appMiddleware.AuthMiddleware

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	level := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  level,
		Pretty: strings.ToLower(cfg.Logging.Format) != "json",
	})

	lgr.Info().Str("logLevel", string(level)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore connects the configured store driver and prepares its schema.
// The returned Closer disconnects it.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, Closer, error) {
	lgr = lgr.With().Str("driver", cfg.Database.Driver).Logger()

	switch cfg.Database.Driver {
	case config.DriverMongo:
		lgr.Info().Msg("Connecting to MongoDB...")
		mongoDB, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
			return nil, nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, mongoDB.Database); err != nil {
			_ = mongoDB.Close(context.Background())
			lgr.Error().Err(err).Msg("Failed to create MongoDB indexes")
			return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		lgr.Info().Str("database", cfg.Database.Mongo.Name).Msg("MongoDB connection established")
		return mongodb.NewRepositories(mongoDB.Database), mongoDB.Close, nil

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		pg, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(pg.Pool, lgr)
		migrate := migrator.MigrateEmbedded
		if dir := cfg.Database.Postgres.MigrationsDir; dir != "" {
			lgr.Info().Str("path", dir).Msg("Using migrations from directory")
			migrate = func(ctx context.Context) error { return migrator.MigrateFromDirectory(ctx, dir) }
		}
		if err := migrate(ctx); err != nil {
			pg.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		closer := func(context.Context) error {
			pg.Close()
			return nil
		}
		return postgres.NewRepositories(pg.Pool), closer, nil

	case config.DriverMemory:
		lgr.Warn().Msg("Using the in-memory store; data is lost on restart")
		return memory.NewRepositories(), func(context.Context) error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

// SetupImageHost builds the configured image host. The LocalHost return is
// nil unless images are kept on local disk.
func SetupImageHost(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (imagehost.Host, *imagehost.LocalHost, error) {
	hostLogger := lgr.With().Str("component", "imagehost").Logger()
	fetcher := imagehost.NewFetcher(
		helpers.ParseDuration(cfg.ImageHost.FetchTimeout, 10*time.Second),
		cfg.Server.MaxUploadSize,
	)

	if cfg.ImageHost.Provider == config.ImageHostMinIO {
		m := cfg.ImageHost.MinIO
		host, err := imagehost.NewMinIOHost(ctx, imagehost.MinIOConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
			PublicURL: m.PublicURL,
			MaxBytes:  cfg.Server.MaxUploadSize,
		}, fetcher, hostLogger)
		if err != nil {
			lgr.Error().Err(err).Str("endpoint", m.Endpoint).Msg("Failed to initialize MinIO image host")
			return nil, nil, fmt.Errorf("failed to initialize image host: %w", err)
		}
		return host, nil, nil
	}

	baseURL := strings.TrimRight(cfg.Server.PublicURL, "/") + "/uploads"
	local, err := imagehost.NewLocalHost(cfg.Server.StoragePath, baseURL, cfg.Server.MaxUploadSize, fetcher, hostLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize image host: %w", err)
	}
	return local, local, nil
}

// SeedData creates the default administrator when seeding is enabled.
// Failures are logged and never stop startup.
func SeedData(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	admin := seed.Admin{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultAdmin(ctx, repos.UserRepository, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// BuildDependencies initializes services, controllers and middleware over
// an already connected store and image host.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, host imagehost.Host, local *imagehost.LocalHost, lgr zerolog.Logger) (*Dependencies, error) {
	if err := validation.RegisterGinValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{
		Repos:     repos,
		ImageHost: host,
		LocalHost: local,
		Logger:    lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Policy = appAuth.NewPolicy()
	deps.Authenticator = appAuth.NewAuthenticator(deps.JWTService, repos.UserRepository, lgr.With().Str("component", "authenticator").Logger())
	deps.Services = appServices.NewServices(repos, host, deps.JWTService, deps.Policy, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Authenticator)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.DonationController = appControllers.NewDonationController(deps.Services.DonationService, lgr)
	deps.BlogController = appControllers.NewBlogController(deps.Services.BlogService, lgr)
	deps.UploadController = appControllers.NewUploadController(deps.Services.UploadService, lgr)
	deps.HealthController = appControllers.NewHealthController(repos, repos.Driver)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()))
	router.MaxMultipartMemory = cfg.Server.MaxUploadSize

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.DonationController,
		deps.BlogController,
		deps.UploadController,
		deps.HealthController,
		deps.AuthMiddleware,
		cfg.Server.MaxUploadSize,
	)

	if deps.LocalHost != nil {
		router.Static("/uploads", deps.LocalHost.Dir())
		lgr.Info().Str("path", deps.LocalHost.Dir()).Msg("Static file serving configured for uploads directory")
	}

	return router
}
