package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Cache    CacheConfig    `yaml:"cache"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Display  DisplayConfig  `yaml:"display"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	JWTSecret       string        `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type CacheConfig struct {
	PlateTTL     time.Duration `yaml:"plate_ttl"`
	ListingTTL   time.Duration `yaml:"listing_ttl"`
	SearchTTL    time.Duration `yaml:"search_ttl"`
	CameraTTL    time.Duration `yaml:"camera_ttl"`
	WatchlistTTL time.Duration `yaml:"watchlist_ttl"`
	AlertTTL     time.Duration `yaml:"alert_ttl"`
}

type ThrottleConfig struct {
	MinInterval time.Duration `yaml:"min_interval"`
}

// DisplayConfig controls how detection timestamps are rendered for clients.
// BuddhistEra shifts the displayed calendar year by +543 (Thai convention).
type DisplayConfig struct {
	Timezone    string `yaml:"timezone"`
	BuddhistEra *bool  `yaml:"buddhist_era"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AccessTokenTTL == 0 {
		cfg.Server.AccessTokenTTL = time.Hour
	}
	if cfg.Server.RefreshTokenTTL == 0 {
		cfg.Server.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Cache.PlateTTL == 0 {
		cfg.Cache.PlateTTL = 5 * time.Minute
	}
	if cfg.Cache.ListingTTL == 0 {
		cfg.Cache.ListingTTL = 3 * time.Minute
	}
	if cfg.Cache.SearchTTL == 0 {
		cfg.Cache.SearchTTL = time.Minute
	}
	if cfg.Cache.CameraTTL == 0 {
		cfg.Cache.CameraTTL = 10 * time.Minute
	}
	if cfg.Cache.WatchlistTTL == 0 {
		cfg.Cache.WatchlistTTL = 5 * time.Minute
	}
	if cfg.Cache.AlertTTL == 0 {
		cfg.Cache.AlertTTL = 30 * time.Second
	}
	if cfg.Throttle.MinInterval == 0 {
		cfg.Throttle.MinInterval = 100 * time.Millisecond
	}
	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = "Asia/Bangkok"
	}
	if cfg.Display.BuddhistEra == nil {
		be := true
		cfg.Display.BuddhistEra = &be
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LPR_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LPR_JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := os.Getenv("LPR_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LPR_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LPR_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LPR_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LPR_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LPR_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("LPR_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("LPR_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("LPR_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("LPR_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("LPR_THROTTLE_MIN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Throttle.MinInterval = d
		}
	}
	if v := os.Getenv("LPR_DISPLAY_TIMEZONE"); v != "" {
		cfg.Display.Timezone = v
	}
}
