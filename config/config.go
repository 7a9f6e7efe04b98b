package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthProviderSupabase = "supabase"
	AuthProviderFirebase = "firebase"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Supabase   SupabaseConfig
	Firebase   FirebaseConfig
	LangGraph  LangGraphConfig
	Sentry     SentryConfig
	Enrichment EnrichmentConfig
	Profile    ProfileConfig
	App        AppConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	UpstreamTimeout    time.Duration
}

type DatabaseConfig struct {
	DSN          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	QueryTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Provider      string
	CookieSecure  bool
	CookieDomain  string
	RefreshWindow time.Duration
}

type SupabaseConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
}

type FirebaseConfig struct {
	CredentialsPath string
}

type LangGraphConfig struct {
	APIURL       string
	LangSmithKey string
}

type SentryConfig struct {
	AllowedProjects []string
}

type EnrichmentConfig struct {
	CacheTTL     time.Duration
	Timeout      time.Duration
	RatePerSec   float64
	MaxBodyBytes int64
	UserAgent    string
}

type ProfileConfig struct {
	CacheTTL  time.Duration
	SweepSpec string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase reads the full environment but validates only the database
// settings, for tools that never serve requests.
func LoadDatabase() (*Config, error) {
	cfg := fromEnv()
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("DB_DSN or DB_HOST is required")
	}
	return cfg, nil
}

func fromEnv() *Config {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			UpstreamTimeout:    getEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			DSN:          getEnv("DB_DSN", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "reoutfit"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
			QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Provider:      strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderSupabase)),
			CookieSecure:  getEnvAsBool("SESSION_COOKIE_SECURE", true),
			CookieDomain:  getEnv("SESSION_COOKIE_DOMAIN", ""),
			RefreshWindow: getEnvAsDuration("SESSION_REFRESH_WINDOW", 60*time.Second),
		},
		Supabase: SupabaseConfig{
			URL:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			AnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
			JWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		LangGraph: LangGraphConfig{
			APIURL:       getEnv("LANGGRAPH_API_URL", "http://localhost:2024"),
			LangSmithKey: getEnv("LANGSMITH_API_KEY", ""),
		},
		Sentry: SentryConfig{
			AllowedProjects: getEnvAsList("SENTRY_ALLOWED_PROJECTS", nil),
		},
		Enrichment: EnrichmentConfig{
			CacheTTL:     getEnvAsDuration("ENRICH_CACHE_TTL", 24*time.Hour),
			Timeout:      getEnvAsDuration("ENRICH_TIMEOUT", 10*time.Second),
			RatePerSec:   getEnvAsFloat("ENRICH_RATE_PER_SEC", 2),
			MaxBodyBytes: int64(getEnvAsInt("ENRICH_MAX_BODY_BYTES", 2<<20)),
			UserAgent:    getEnv("ENRICH_USER_AGENT", "ReoutfitBot/1.0 (+https://reoutfit.app)"),
		},
		Profile: ProfileConfig{
			CacheTTL:  getEnvAsDuration("PROFILE_CACHE_TTL", 5*time.Minute),
			SweepSpec: getEnv("PROFILE_CACHE_SWEEP", "@every 1m"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	switch c.Auth.Provider {
	case AuthProviderSupabase:
		if c.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.Supabase.JWTSecret == "" {
			return fmt.Errorf("SUPABASE_JWT_SECRET is required")
		}
	case AuthProviderFirebase:
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be %q or %q", AuthProviderSupabase, AuthProviderFirebase)
	}

	if c.LangGraph.APIURL == "" {
		return fmt.Errorf("LANGGRAPH_API_URL is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
