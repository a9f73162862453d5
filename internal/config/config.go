package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is the signing key used when JWT_SECRET is unset outside production.
const DevJWTSecret = "dev-secret"

// Database drivers selected by Load.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Admin    AdminConfig
	SMTP     SMTPConfig
	Upload   UploadConfig
	S3       S3Config
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	APIPrefix             string
	FrontendURL           string
	RequestTimeoutSeconds int
}

// DatabaseConfig holds connection values for whichever driver was selected.
type DatabaseConfig struct {
	Driver         string
	DSN            string
	SQLitePath     string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CacheTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	JWTIssuer               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
	HashConcurrency         int
}

// AdminConfig carries the bootstrap administrator credentials.
type AdminConfig struct {
	Email    string
	Password string
}

// SMTPConfig configures outgoing mail. Mail is disabled unless Host, User and Password are set.
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Secure     bool
	From       string
	QueueSize  int
	Workers    int
	TimeoutSec int
}

// UploadConfig controls image uploads.
type UploadConfig struct {
	Dest        string
	PublicPath  string
	MaxFileSize int64
}

// S3Config configures the object store used instead of local disk when Bucket is set.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	Prefix        string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "transport-site"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			APIPrefix:             getEnv("API_PREFIX", "/api"),
			FrontendURL:           strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Database: db,
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			CacheTTLSeconds: getEnvAsInt("REDIS_CACHE_TTL_SECONDS", 300),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("JWT_SECRET", DevJWTSecret),
			JWTIssuer:               getEnv("JWT_ISSUER", "transport-site"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 24*60),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 60),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 10),
			HashConcurrency:         getEnvAsInt("AUTH_HASH_CONCURRENCY", runtime.NumCPU()),
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			User:       os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			Secure:     getEnvAsBool("SMTP_SECURE", false),
			From:       getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
			QueueSize:  getEnvAsInt("MAIL_QUEUE_SIZE", 64),
			Workers:    getEnvAsInt("MAIL_WORKERS", 2),
			TimeoutSec: getEnvAsInt("MAIL_TIMEOUT_SECONDS", 15),
		},
		Upload: UploadConfig{
			Dest:        getEnv("UPLOAD_DEST", "./uploads"),
			PublicPath:  getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
			MaxFileSize: int64(getEnvAsInt("MAX_FILE_SIZE", 5*1024*1024)),
		},
		S3: S3Config{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
			Prefix:        getEnv("S3_PREFIX", "uploads"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.App.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DevJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Auth.AccessTokenTTLMinutes <= 0 {
		return errors.New("AUTH_ACCESS_TOKEN_TTL_MINUTES must be positive")
	}
	if c.Auth.PasswordResetTTLMinutes <= 0 {
		return errors.New("AUTH_PASSWORD_RESET_TTL_MINUTES must be positive")
	}
	if c.Upload.MaxFileSize <= 0 {
		return errors.New("MAX_FILE_SIZE must be positive")
	}
	return nil
}

// loadDatabase picks Postgres when DATABASE_URL or PGHOST is present and falls back to SQLite.
func loadDatabase() (DatabaseConfig, error) {
	db := DatabaseConfig{
		MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
		MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
		RunMigrations:  getEnvAsBool("DB_RUN_MIGRATIONS", true),
		ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
		ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
	}

	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		dsn, err := normalizeDatabaseURL(raw)
		if err != nil {
			return DatabaseConfig{}, err
		}
		db.Driver = DriverPostgres
		db.DSN = dsn
		return db, nil
	}

	if host := os.Getenv("PGHOST"); host != "" {
		db.Driver = DriverPostgres
		db.DSN = postgresDSN(
			host,
			getEnv("PGPORT", "5432"),
			os.Getenv("PGUSER"),
			os.Getenv("PGPASSWORD"),
			os.Getenv("PGDATABASE"),
			getEnv("PGSSLMODE", "require"),
		)
		return db, nil
	}

	db.Driver = DriverSQLite
	db.SQLitePath = getEnv("DB_DATABASE", "database.sqlite")
	return db, nil
}

func normalizeDatabaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
	default:
		return "", fmt.Errorf("invalid DATABASE_URL: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("invalid DATABASE_URL: missing host")
	}
	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", getEnv("PGSSLMODE", "require"))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func postgresDSN(host, port, user, password, database, sslmode string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   host + ":" + port,
		Path:   "/" + database,
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	q := url.Values{}
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

// IsProduction reports whether APP_ENV names a production deployment.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
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

// AccessTokenTTL returns the session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// PasswordResetTTL returns the reset token lifetime.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// CacheTTL is how long cached post listings live.
func (r RedisConfig) CacheTTL() time.Duration {
	if r.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

// Timeout returns the per-message send timeout.
func (s SMTPConfig) Timeout() time.Duration {
	if s.TimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.TimeoutSec) * time.Second
}

// Enabled reports whether uploads go to S3 instead of local disk.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
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
