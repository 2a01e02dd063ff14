package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	GCP       GCPConfig
	PubSub    PubSubConfig
	Outbox    OutboxConfig
	Ledger    LedgerConfig
	Dashboard DashboardConfig
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
	Env          string `envconfig:"PARTNERCRM_APP_ENV" required:"true"`
	Port         string `envconfig:"PARTNERCRM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARTNERCRM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARTNERCRM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PARTNERCRM_DB_DSN"`
	Driver string `envconfig:"PARTNERCRM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARTNERCRM_DB_HOST"`
	LegacyPort     int    `envconfig:"PARTNERCRM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARTNERCRM_DB_USER"`
	LegacyPassword string `envconfig:"PARTNERCRM_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARTNERCRM_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARTNERCRM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARTNERCRM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARTNERCRM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARTNERCRM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARTNERCRM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARTNERCRM_REDIS_URL"`
	Address      string        `envconfig:"PARTNERCRM_REDIS_ADDR"`
	Password     string        `envconfig:"PARTNERCRM_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARTNERCRM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARTNERCRM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARTNERCRM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARTNERCRM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARTNERCRM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARTNERCRM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PARTNERCRM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PARTNERCRM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PARTNERCRM_JWT_EXPIRATION_MINUTES" default:"720"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PARTNERCRM_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	LedgerTopic        string `envconfig:"PARTNERCRM_PUBSUB_LEDGER_TOPIC" default:"crm-ledger-events"`
	LedgerSubscription string `envconfig:"PARTNERCRM_PUBSUB_LEDGER_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PARTNERCRM_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PARTNERCRM_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PARTNERCRM_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type LedgerConfig struct {
	// ConflictRetries bounds how many times a transaction record is retried
	// after a serialization failure before CONFLICT surfaces to the caller.
	ConflictRetries int `envconfig:"PARTNERCRM_LEDGER_CONFLICT_RETRIES" default:"3"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `envconfig:"PARTNERCRM_DASHBOARD_CACHE_TTL" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
