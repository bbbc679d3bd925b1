package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Question struct {
		TTL string `yaml:"ttl"`
	} `yaml:"question"`
	Scoring struct {
		DefaultPoints    int   `yaml:"default_points"`
		SpeedThresholdMs int64 `yaml:"speed_threshold_ms"`
		SpeedBonus       int   `yaml:"speed_bonus"`
	} `yaml:"scoring"`
	Admin struct {
		Password     string `yaml:"password"`
		PasswordHash string `yaml:"password_hash"`
		JWTSecret    string `yaml:"jwt_secret"`
		TokenTTL     string `yaml:"token_ttl"`
	} `yaml:"admin"`
	Session struct {
		ClearAllHold string `yaml:"clear_all_hold"`
	} `yaml:"session"`
	Events struct {
		Publisher     string   `yaml:"publisher"` // goroutine, gochannel or kafka
		Brokers       []string `yaml:"brokers"`
		Topic         string   `yaml:"topic"`
		ConsumerGroup string   `yaml:"consumer_group"`
	} `yaml:"events"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path, then applies environment overrides
// (optionally sourced from a .env file next to the working directory).
// A missing YAML file is not an error; defaults and environment still apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Postgres.URL, "POSTGRES_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	setString(&cfg.Admin.JWTSecret, "JWT_SECRET")
	setString(&cfg.Events.Publisher, "EVENTS_PUBLISHER")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if db, err := strconv.Atoi(raw); err == nil {
			cfg.Redis.DB = db
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Scoring.DefaultPoints <= 0 {
		cfg.Scoring.DefaultPoints = 10
	}
	if cfg.Scoring.SpeedThresholdMs <= 0 {
		cfg.Scoring.SpeedThresholdMs = 5000
	}
	if cfg.Scoring.SpeedBonus <= 0 {
		cfg.Scoring.SpeedBonus = 5
	}
	if cfg.Events.Publisher == "" {
		cfg.Events.Publisher = "goroutine"
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = "quiz.badge-evaluations"
	}
	if cfg.Events.ConsumerGroup == "" {
		cfg.Events.ConsumerGroup = "badge-evaluator"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
