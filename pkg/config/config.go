package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis       RedisConfig
	Session     SessionConfig
	Credentials CredentialsConfig
	CORS        CORSConfig
	Log         LogConfig
	Dashboard   DashboardConfig
	Metrics     MetricsConfig
	Exports     ExportsConfig
	Seed        SeedConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig controls the signed session token handed out on entry.
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	Issuer     string
	CookieName string
}

// CredentialsConfig holds the reference credential policy: one teacher and one student account.
type CredentialsConfig struct {
	Teacher AccountConfig
	Student AccountConfig
}

// AccountConfig describes a single static account.
type AccountConfig struct {
	Identifier string
	Secret     string
	Name       string
	ExternalID string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard cache behaviour.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// ExportsConfig configures signed grade export links.
type ExportsConfig struct {
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// SeedConfig toggles the demo records loaded at start-up.
type SeedConfig struct {
	DemoData bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		TTL:        parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
		Issuer:     v.GetString("SESSION_ISSUER"),
		CookieName: v.GetString("SESSION_COOKIE_NAME"),
	}

	cfg.Credentials = CredentialsConfig{
		Teacher: AccountConfig{
			Identifier: v.GetString("TEACHER_IDENTIFIER"),
			Secret:     v.GetString("TEACHER_SECRET"),
			Name:       v.GetString("TEACHER_NAME"),
		},
		Student: AccountConfig{
			Identifier: v.GetString("STUDENT_IDENTIFIER"),
			Secret:     v.GetString("STUDENT_SECRET"),
			Name:       v.GetString("STUDENT_NAME"),
			ExternalID: v.GetString("STUDENT_EXTERNAL_ID"),
		},
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Exports = ExportsConfig{
		SignedURLSecret: v.GetString("EXPORT_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORT_SIGNED_URL_TTL"), 15*time.Minute),
	}

	cfg.Seed = SeedConfig{DemoData: v.GetBool("SEED_DEMO_DATA")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("SESSION_ISSUER", "ttc-portal")
	v.SetDefault("SESSION_COOKIE_NAME", "portal_session")

	v.SetDefault("TEACHER_IDENTIFIER", "teacher@ttc.rw")
	v.SetDefault("TEACHER_SECRET", "password")
	v.SetDefault("TEACHER_NAME", "Mr. Teacher")
	v.SetDefault("STUDENT_IDENTIFIER", "student@ttc.rw")
	v.SetDefault("STUDENT_SECRET", "password")
	v.SetDefault("STUDENT_NAME", "John Doe")
	v.SetDefault("STUDENT_EXTERNAL_ID", "S123")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("EXPORT_SIGNED_URL_SECRET", "dev_export_secret")
	v.SetDefault("EXPORT_SIGNED_URL_TTL", "15m")

	v.SetDefault("SEED_DEMO_DATA", true)
}

// isMissingFile reports whether viper failed only because the .env file is absent.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
