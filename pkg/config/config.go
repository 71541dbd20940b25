package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "QUOTELANE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	LegacyDB     LegacyDBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	SMTP         SMTPConfig
	OrderProc    OrderProcConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"QUOTELANE_APP_ENV" required:"true"`
	Port         string   `envconfig:"QUOTELANE_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"QUOTELANE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"QUOTELANE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"QUOTELANE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"QUOTELANE_DB_DSN"`
	Driver string `envconfig:"QUOTELANE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"QUOTELANE_DB_HOST"`
	Port     int    `envconfig:"QUOTELANE_DB_PORT" default:"5432"`
	User     string `envconfig:"QUOTELANE_DB_USER"`
	Password string `envconfig:"QUOTELANE_DB_PASSWORD"`
	Name     string `envconfig:"QUOTELANE_DB_NAME"`
	SSLMode  string `envconfig:"QUOTELANE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QUOTELANE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QUOTELANE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QUOTELANE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QUOTELANE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// LegacyDBConfig points at the read-only customer directory. The directory
// may be unreachable at boot, so the connection is established lazily on
// first use rather than in main.
type LegacyDBConfig struct {
	DSN          string        `envconfig:"QUOTELANE_LEGACY_DB_DSN"`
	MaxOpenConns int           `envconfig:"QUOTELANE_LEGACY_DB_MAX_OPEN_CONNS" default:"5"`
	ConnTimeout  time.Duration `envconfig:"QUOTELANE_LEGACY_DB_CONN_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QUOTELANE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"QUOTELANE_REDIS_ADDR"`
	Password     string        `envconfig:"QUOTELANE_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUOTELANE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUOTELANE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUOTELANE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUOTELANE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUOTELANE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUOTELANE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QUOTELANE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QUOTELANE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"QUOTELANE_JWT_EXPIRATION_MINUTES" default:"1440"`
	SessionTTLMinutes int    `envconfig:"QUOTELANE_SESSION_TTL_MINUTES" default:"1500"`
}

// SessionTTL returns the Redis session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"QUOTELANE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"QUOTELANE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"QUOTELANE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"QUOTELANE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"QUOTELANE_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"QUOTELANE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"QUOTELANE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"QUOTELANE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"QUOTELANE_PUBSUB_NOTIFICATION_TOPIC" default:"ql-notification-events"`
	NotificationSubscription string `envconfig:"QUOTELANE_PUBSUB_NOTIFICATION_SUBSCRIPTION" default:"ql-notification-mailer"`
}

type SMTPConfig struct {
	Host     string `envconfig:"QUOTELANE_SMTP_HOST"`
	Port     int    `envconfig:"QUOTELANE_SMTP_PORT" default:"587"`
	Username string `envconfig:"QUOTELANE_SMTP_USERNAME"`
	Password string `envconfig:"QUOTELANE_SMTP_PASSWORD"`
	From     string `envconfig:"QUOTELANE_SMTP_FROM"`
}

// OrderProcConfig configures the external order-processing system client.
type OrderProcConfig struct {
	BaseURL string        `envconfig:"QUOTELANE_ORDERPROC_BASE_URL"`
	Timeout time.Duration `envconfig:"QUOTELANE_ORDERPROC_TIMEOUT" default:"15s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		"QUOTELANE_DB_HOST": db.Host,
		"QUOTELANE_DB_USER": db.User,
		"QUOTELANE_DB_NAME": db.Name,
	}
	for _, key := range []string{"QUOTELANE_DB_HOST", "QUOTELANE_DB_USER", "QUOTELANE_DB_NAME"} {
		if parts[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either QUOTELANE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
