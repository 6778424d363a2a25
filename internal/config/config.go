package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Image host providers
const (
	ImageHostLocal = "local"
	ImageHostMinIO = "minio"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		PublicURL       string `yaml:"publicUrl" env:"SERVER_PUBLIC_URL"`
		StoragePath     string `yaml:"storagePath" env:"SERVER_STORAGE_PATH"`
		MaxUploadSize   int64  `yaml:"maxUploadSize" env:"SERVER_MAX_UPLOAD_SIZE"`
		ShutdownTimeout string `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver" env:"DB_DRIVER"`

		Mongo struct {
			URI            string `yaml:"uri" env:"MONGO_URI"`
			Name           string `yaml:"name" env:"MONGO_DB"`
			ConnectTimeout string `yaml:"connectTimeout" env:"MONGO_CONNECT_TIMEOUT"`
		} `yaml:"mongo"`

		Postgres struct {
			Host            string `yaml:"host" env:"DB_HOST"`
			Port            string `yaml:"port" env:"DB_PORT"`
			User            string `yaml:"user" env:"DB_USER"`
			Password        string `yaml:"password" env:"DB_PASSWORD"`
			DBName          string `yaml:"dbname" env:"DB_NAME"`
			SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
			MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
			MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
			// MigrationsDir overrides the migrations compiled into the binary.
			MigrationsDir string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	ImageHost struct {
		Provider     string `yaml:"provider" env:"IMAGE_HOST_PROVIDER"`
		FetchTimeout string `yaml:"fetchTimeout" env:"IMAGE_HOST_FETCH_TIMEOUT"`

		MinIO struct {
			Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
			AccessKey string `yaml:"accessKey" env:"MINIO_ACCESS_KEY"`
			SecretKey string `yaml:"secretKey" env:"MINIO_SECRET_KEY"`
			Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
			UseSSL    bool   `yaml:"useSSL" env:"MINIO_USE_SSL"`
			PublicURL string `yaml:"publicUrl" env:"MINIO_PUBLIC_URL"`
		} `yaml:"minio"`
	} `yaml:"imageHost"`

	Seed struct {
		Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminName     string `yaml:"adminName" env:"SEED_ADMIN_NAME"`
		AdminEmail    string `yaml:"adminEmail" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"adminPassword" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file is not an error; defaults and the environment still apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.Database.Driver = strings.ToLower(strings.TrimSpace(config.Database.Driver))
	config.ImageHost.Provider = strings.ToLower(strings.TrimSpace(config.ImageHost.Provider))

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.PublicURL = "http://localhost:8080"
	config.Server.StoragePath = "./uploads"
	config.Server.MaxUploadSize = 5 << 20
	config.Server.ShutdownTimeout = "10s"

	config.Database.Driver = DriverMongo
	config.Database.Mongo.URI = "mongodb://localhost:27017"
	config.Database.Mongo.Name = "ecoshare"
	config.Database.Mongo.ConnectTimeout = "10s"
	config.Database.Postgres.Host = "localhost"
	config.Database.Postgres.Port = "5432"
	config.Database.Postgres.User = "postgres"
	config.Database.Postgres.Password = "postgres"
	config.Database.Postgres.DBName = "ecoshare"
	config.Database.Postgres.SSLMode = "disable"
	config.Database.Postgres.MaxIdleConns = 2
	config.Database.Postgres.MaxOpenConns = 10
	config.Database.Postgres.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "720h"
	config.JWT.Issuer = "ecoshare"

	config.ImageHost.Provider = ImageHostLocal
	config.ImageHost.FetchTimeout = "15s"
	config.ImageHost.MinIO.Bucket = "ecoshare"

	config.Seed.Enabled = true
	config.Seed.AdminName = "Administrator"
	config.Seed.AdminEmail = "admin@ecoshare.local"

	config.Logging.Level = "info"
	config.Logging.Format = "pretty"
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverMongo:
		if config.Database.Mongo.URI == "" || config.Database.Mongo.Name == "" {
			return fmt.Errorf("mongo uri and database name are required")
		}
		if _, err := time.ParseDuration(config.Database.Mongo.ConnectTimeout); err != nil {
			return fmt.Errorf("invalid mongo connect timeout: %w", err)
		}
	case DriverPostgres:
		if config.Database.Postgres.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.Postgres.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	switch config.ImageHost.Provider {
	case ImageHostLocal:
		if config.Server.StoragePath == "" {
			return fmt.Errorf("storage path is required for the local image host")
		}
	case ImageHostMinIO:
		if config.ImageHost.MinIO.Endpoint == "" || config.ImageHost.MinIO.Bucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("unsupported image host provider %q", config.ImageHost.Provider)
	}
	if _, err := time.ParseDuration(config.ImageHost.FetchTimeout); err != nil {
		return fmt.Errorf("invalid image fetch timeout: %w", err)
	}
	if config.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	if config.Seed.Enabled && config.Seed.AdminPassword != "" && len(config.Seed.AdminPassword) < 6 {
		return fmt.Errorf("seed admin password must be at least 6 characters")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	pg := c.Database.Postgres
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User, pg.Password, pg.Host, pg.Port, pg.DBName, sslMode)
}

// AccessTokenTTL is the parsed JWT lifetime. LoadConfig has already validated it.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// IsProduction reports whether gin should run in release mode
func (c *Config) IsProduction() bool {
	m := strings.ToLower(c.Server.Mode)
	return m == "production" || m == "release"
}
