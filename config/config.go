package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Placeholder values used when the environment does not provide real credentials.
// They are visibly fake so a misconfigured deployment is easy to spot in logs.
const (
	PlaceholderSupabaseURL = "https://your-supabase-project-url.supabase.co"
	PlaceholderSupabaseKey = "your-supabase-api-key"
	PlaceholderEmailHost   = "smtp.example.com"
	PlaceholderEmailUser   = "your-email@example.com"
	PlaceholderEmailPass   = "your-email-password"
	PlaceholderJWTSecret   = "change-me-jwt-secret"
)

const (
	StorageDriverPostgREST = "postgrest"
	StorageDriverPostgres  = "postgres"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	App      AppConfig
	Supabase SupabaseConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	OTP      OTPConfig
}

type AppConfig struct {
	Port          string
	Env           string
	LogLevel      string
	StorageDriver string
	SessionStore  string
}

type SupabaseConfig struct {
	URL         string
	APIKey      string
	HTTPTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN returns the connection string in the key/value form used by gorm.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

// URL returns the connection string in URL form used by migrate.
func (c DBConfig) URL() string {
	u := &url.URL{
		Scheme:   "postgres",
		Host:     c.Host + ":" + c.Port,
		User:     url.UserPassword(c.User, c.Password),
		Path:     c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether real SMTP credentials were supplied.
func (c EmailConfig) Configured() bool {
	return c.Host != "" && c.Host != PlaceholderEmailHost &&
		c.Username != "" && c.Username != PlaceholderEmailUser &&
		c.Password != "" && c.Password != PlaceholderEmailPass
}

type OTPConfig struct {
	Store    string
	Expiry   time.Duration
	FilePath string
}

// LoadConfig reads configuration from a .env file (when present) and the
// process environment. Missing credentials fall back to placeholders; the
// caller gets a list of warnings instead of an error so the application can
// still start in a degraded mode.
func LoadConfig() (*Config, []string, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("read .env: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgREST)
	v.SetDefault("SESSION_STORE", StoreMemory)
	v.SetDefault("SUPABASE_URL", PlaceholderSupabaseURL)
	v.SetDefault("SUPABASE_API_KEY", PlaceholderSupabaseKey)
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "clinic")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", PlaceholderJWTSecret)
	v.SetDefault("JWT_ACCESS_EXPIRY", "8h")
	v.SetDefault("EMAIL_HOST", PlaceholderEmailHost)
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_USERNAME", PlaceholderEmailUser)
	v.SetDefault("EMAIL_PASSWORD", PlaceholderEmailPass)
	v.SetDefault("OTP_STORE", StoreMemory)
	v.SetDefault("OTP_EXPIRY", "5m")
	v.SetDefault("OTP_FILE_PATH", "otp_code.txt")
}

func fromViper(v *viper.Viper) (*Config, []string, error) {
	httpTimeout, err := time.ParseDuration(v.GetString("HTTP_TIMEOUT"))
	if err != nil {
		httpTimeout = 15 * time.Second
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 8 * time.Hour
	}

	otpExpiry, err := time.ParseDuration(v.GetString("OTP_EXPIRY"))
	if err != nil {
		otpExpiry = 5 * time.Minute
	}

	cfg := &Config{
		App: AppConfig{
			Port:          v.GetString("APP_PORT"),
			Env:           v.GetString("APP_ENV"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
			SessionStore:  strings.ToLower(v.GetString("SESSION_STORE")),
		},
		Supabase: SupabaseConfig{
			URL:         strings.TrimRight(strings.TrimSpace(v.GetString("SUPABASE_URL")), "/"),
			APIKey:      strings.TrimSpace(v.GetString("SUPABASE_API_KEY")),
			HTTPTimeout: httpTimeout,
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Email: EmailConfig{
			Host:     strings.TrimSpace(v.GetString("EMAIL_HOST")),
			Port:     v.GetInt("EMAIL_PORT"),
			Username: strings.TrimSpace(v.GetString("EMAIL_USERNAME")),
			Password: v.GetString("EMAIL_PASSWORD"),
			From:     strings.TrimSpace(v.GetString("EMAIL_FROM")),
		},
		OTP: OTPConfig{
			Store:    strings.ToLower(v.GetString("OTP_STORE")),
			Expiry:   otpExpiry,
			FilePath: v.GetString("OTP_FILE_PATH"),
		},
	}
	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.Username
	}

	switch cfg.App.StorageDriver {
	case StorageDriverPostgREST, StorageDriverPostgres:
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.App.StorageDriver)
	}
	for key, val := range map[string]string{"OTP_STORE": cfg.OTP.Store, "SESSION_STORE": cfg.App.SessionStore} {
		if val != StoreMemory && val != StoreRedis {
			return nil, nil, fmt.Errorf("unknown %s %q", key, val)
		}
	}

	return cfg, cfg.Warnings(), nil
}

// Warnings lists configuration values still set to their placeholders.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.App.StorageDriver == StorageDriverPostgREST &&
		(c.Supabase.URL == PlaceholderSupabaseURL || c.Supabase.APIKey == PlaceholderSupabaseKey) {
		warnings = append(warnings, "using default Supabase credentials, set SUPABASE_URL and SUPABASE_API_KEY")
	}
	if !c.Email.Configured() {
		warnings = append(warnings, "SMTP credentials not configured, verification codes will be written to "+c.OTP.FilePath)
	}
	if c.JWT.Secret == PlaceholderJWTSecret {
		warnings = append(warnings, "using default JWT secret, set JWT_SECRET")
	}
	return warnings
}

// LogWarnings reports placeholder configuration without aborting startup.
func LogWarnings(log *logrus.Logger, warnings []string) {
	for _, w := range warnings {
		log.Warn(w)
	}
}
