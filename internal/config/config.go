package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	GinMode  string

	DBDriver       string
	DBDSN          string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// dashboard stats
	StatsCacheTTL      time.Duration
	StatsTimezone      string
	StatsSessionBadges []int
	StatsStreakBadges  []int

	BotResponder string
	CORSOrigins  []string

	// rabbitMQ
	RabbitURL   string
	RabbitQueue string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	ContactInbox string

	WorkerConcurrency int

	LogLevel  string
	LogFormat string
	LogFile   string
}

func Load() Config {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))

	// DSN demo：
	// app:apppass@tcp(127.0.0.1:3306)/mindguide_db?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		if driver == "sqlite" {
			dsn = "file:mindguide.db?_pragma=foreign_keys(1)"
		} else {
			dsn = "app:apppass@tcp(127.0.0.1:3306)/mindguide_db?charset=utf8mb4&parseTime=true&loc=Local"
		}
	}

	smtpFrom := os.Getenv("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = os.Getenv("SMTP_USER")
	}

	concurrency := getEnvInt("WORKER_CONCURRENCY", 2)
	if concurrency <= 0 {
		concurrency = 2
	}
	if concurrency > 50 {
		concurrency = 50
	}

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),

		DBDriver:       driver,
		DBDSN:          dsn,
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		StatsCacheTTL:      getEnvDuration("STATS_CACHE_TTL", 60*time.Second),
		StatsTimezone:      getEnv("STATS_TIMEZONE", "Local"),
		StatsSessionBadges: getEnvInts("STATS_SESSION_BADGES", []int{1, 5, 10, 25, 50, 100}),
		StatsStreakBadges:  getEnvInts("STATS_STREAK_BADGES", []int{3, 7, 14, 30}),

		BotResponder: getEnv("BOT_RESPONDER", "canned"),
		CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		RabbitURL:   os.Getenv("RABBIT_URL"),
		RabbitQueue: getEnv("RABBIT_QUEUE", "contact_notifications"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		SMTPFrom:     smtpFrom,
		ContactInbox: getEnv("CONTACT_INBOX", "support@mindguide.local"),

		WorkerConcurrency: concurrency,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   os.Getenv("LOG_FILE"),
	}
}

// StatsLocation resolves StatsTimezone, falling back to time.Local.
func (c Config) StatsLocation() *time.Location {
	if c.StatsTimezone == "" || strings.EqualFold(c.StatsTimezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// getEnvInts parses a comma separated list; any bad entry falls back to def.
func getEnvInts(key string, def []int) []int {
	parts := getEnvList(key, nil)
	if parts == nil {
		return def
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return def
		}
		out = append(out, n)
	}
	return out
}
