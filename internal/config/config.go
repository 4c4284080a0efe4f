package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bridge.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Chat     ChatConfig
	Content  ContentConfig
	Sync     SyncConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. Redis carries the inbound
// report_updates / ban_updates topics.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines API authentication parameters. AdminTokenHash is a
// bcrypt hash of the shared operator token exchanged for a JWT at login.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	AdminTokenHash        string
}

// ChatConfig identifies the chat platform, the guild the bridge moderates
// and the channel receiving mirrored reports.
type ChatConfig struct {
	BaseURL               string
	BotToken              string
	BotUserID             string
	GuildID               string
	ReportsChannelID      string
	AdminRoleID           string
	RequestTimeoutSeconds int
}

// ContentConfig points at the content site's read API. SafeBaseURL is the
// all-ages mirror used when linking safe-rated posts.
type ContentConfig struct {
	BaseURL               string
	SafeBaseURL           string
	UserAgent             string
	RequestTimeoutSeconds int
}

// SyncConfig tunes the resolution and mirroring engine.
type SyncConfig struct {
	GraphDepthCap           int
	DescriptionLimit        int
	AlertSuppressTTLSeconds int
	SweepIntervalSeconds    int
	EventQueueSize          int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "moderation-bridge"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			AdminTokenHash:        os.Getenv("AUTH_ADMIN_TOKEN_HASH"),
		},
		Chat: ChatConfig{
			BaseURL:               getEnv("CHAT_BASE_URL", "https://chat.example.com/api/v10"),
			BotToken:              os.Getenv("CHAT_BOT_TOKEN"),
			BotUserID:             os.Getenv("CHAT_BOT_USER_ID"),
			GuildID:               os.Getenv("CHAT_GUILD_ID"),
			ReportsChannelID:      os.Getenv("CHAT_REPORTS_CHANNEL_ID"),
			AdminRoleID:           os.Getenv("CHAT_ADMIN_ROLE_ID"),
			RequestTimeoutSeconds: getEnvAsInt("CHAT_REQUEST_TIMEOUT_SECONDS", 10),
		},
		Content: ContentConfig{
			BaseURL:               getEnv("CONTENT_BASE_URL", "https://content.example.com"),
			SafeBaseURL:           getEnv("CONTENT_SAFE_BASE_URL", "https://safe.content.example.com"),
			UserAgent:             getEnv("CONTENT_USER_AGENT", "moderation-bridge"),
			RequestTimeoutSeconds: getEnvAsInt("CONTENT_REQUEST_TIMEOUT_SECONDS", 10),
		},
		Sync: SyncConfig{
			GraphDepthCap:           getEnvAsInt("SYNC_GRAPH_DEPTH_CAP", 5),
			DescriptionLimit:        getEnvAsInt("SYNC_DESCRIPTION_LIMIT", 500),
			AlertSuppressTTLSeconds: getEnvAsInt("SYNC_ALERT_SUPPRESS_TTL_SECONDS", 300),
			SweepIntervalSeconds:    getEnvAsInt("SYNC_SWEEP_INTERVAL_SECONDS", 600),
			EventQueueSize:          getEnvAsInt("SYNC_EVENT_QUEUE_SIZE", 256),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RequestTimeout bounds every chat platform call.
func (c ChatConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RequestTimeout bounds every content-site call.
func (c ContentConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// AlertSuppressTTL is how long a report id suppresses duplicate create alerts.
func (s SyncConfig) AlertSuppressTTL() time.Duration {
	return time.Duration(s.AlertSuppressTTLSeconds) * time.Second
}

// SweepInterval is the period of the ban expiry sweep.
func (s SyncConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
