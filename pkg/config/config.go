package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		HTTP      HTTP      `envPrefix:"HTTP_"`
		Logger    Logger    `envPrefix:"LOGGER_"`
		Telemetry Telemetry `envPrefix:"TELEMETRY_"`
		Store     Store     `envPrefix:"STORE_"`
		Upstream  Upstream  `envPrefix:"UPSTREAM_"`
		Cache     Cache     `envPrefix:"CACHE_"`
		Slicer    Slicer    `envPrefix:"SLICER_"`
	}

	HTTP struct {
		Server  Server        `envPrefix:"SERVER_"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
	}

	Server struct {
		Port         string        `env:"PORT,required"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
		IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	}

	Logger struct {
		Level string `env:"LEVEL,required"`
	}

	Telemetry struct {
		Enabled        bool   `env:"ENABLED" envDefault:"false"`
		ServiceName    string `env:"SERVICE_NAME" envDefault:"artify-workbench"`
		ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
		Environment    string `env:"ENVIRONMENT" envDefault:"production"`
		OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"otel-collector.observability.svc.cluster.local:4317"`
	}

	Store struct {
		Driver string `env:"DRIVER" envDefault:"sqlite"`
		SQLite SQLite `envPrefix:"SQLITE_"`
		Redis  Redis  `envPrefix:"REDIS_"`
	}

	SQLite struct {
		Path string `env:"PATH" envDefault:"artify_cache.db"`
	}

	Redis struct {
		Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
		Password string        `env:"PASSWORD" envDefault:""`
		DB       int           `env:"DB" envDefault:"0"`
		TTL      time.Duration `env:"TTL" envDefault:"24h"`
	}

	Upstream struct {
		BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
		Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
		Token   string        `env:"TOKEN" envDefault:""`
	}

	Cache struct {
		TTL            time.Duration `env:"TTL" envDefault:"2h"`
		WarmSchedule   string        `env:"WARM_SCHEDULE" envDefault:"*/30 * * * *"`
		PreloadOnStart bool          `env:"PRELOAD_ON_START" envDefault:"true"`
	}

	Slicer struct {
		ExportDir      string        `env:"EXPORT_DIR" envDefault:"exports"`
		DownloadDelay  time.Duration `env:"DOWNLOAD_DELAY" envDefault:"200ms"`
		ArchiveEnabled bool          `env:"ARCHIVE_ENABLED" envDefault:"true"`
	}
)

func New() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("NOTICE: .env file not found or cannot be loaded: %v\n", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
