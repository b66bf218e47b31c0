package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the bot.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Bolt        BoltConfig
	Redis       RedisConfig
	Platform    PlatformConfig
	Commands    CommandsConfig
	Reminder    ReminderConfig
	Admin       AdminConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	EnableMetrics bool
}

// DatabaseConfig selects the Postgres backend when URL is set; otherwise
// the embedded Bolt store is used.
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type BoltConfig struct {
	Path string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	NameTTL  time.Duration
}

// PlatformConfig holds chat-platform credentials. PublicKey is the hex
// ed25519 key the platform signs webhook requests with.
type PlatformConfig struct {
	BotToken  string
	AppID     string
	PublicKey string
	APIBase   string
	Timeout   time.Duration
}

type CommandsConfig struct {
	Cooldown      time.Duration
	ListEphemeral bool
}

type ReminderConfig struct {
	Enabled  bool
	Schedule string
	Channel  string
}

type AdminConfig struct {
	JWTSecret string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the bot can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskdeck"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "0.0.0.0"),
			Port:          getString("SERVER_PORT", "8080"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			EnableMetrics: getBool("SERVER_ENABLE_METRICS", false),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "taskdeck"),
			User:            getString("DB_USER", "taskdeck"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Bolt: BoltConfig{
			Path: getString("BOLTDB_PATH", "./data/taskdeck.db"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			NameTTL:  getDuration("REDIS_NAME_TTL", 6*time.Hour),
		},
		Platform: PlatformConfig{
			BotToken:  os.Getenv("BOT_TOKEN"),
			AppID:     os.Getenv("APP_ID"),
			PublicKey: os.Getenv("PUBLIC_KEY"),
			APIBase:   getString("PLATFORM_API_BASE", "https://discord.com/api/v10"),
			Timeout:   getDuration("PLATFORM_TIMEOUT", 10*time.Second),
		},
		Commands: CommandsConfig{
			Cooldown:      getDuration("COMMAND_COOLDOWN", 3*time.Second),
			ListEphemeral: getBool("LIST_EPHEMERAL", true),
		},
		Reminder: ReminderConfig{
			Enabled:  getBool("REMINDER_ENABLED", false),
			Schedule: getString("REMINDER_SCHEDULE", "0 9 * * *"),
			Channel:  os.Getenv("REMINDER_CHANNEL"),
		},
		Admin: AdminConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Platform.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Platform.PublicKey == "" {
		return nil, fmt.Errorf("PUBLIC_KEY is required")
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// UsePostgres reports whether the Postgres backend is selected.
func (c *Config) UsePostgres() bool {
	return c.Database.URL != ""
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
