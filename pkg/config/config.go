package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BORLA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BORLA_DB_DSN"
	EnvDBHost = "BORLA_DB_HOST"
	EnvDBUser = "BORLA_DB_USER"
	EnvDBName = "BORLA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Rewards       RewardsConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"BORLA_APP_ENV" required:"true"`
	Port         string `envconfig:"BORLA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BORLA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BORLA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BORLA_DB_DSN"`

	LegacyHost     string `envconfig:"BORLA_DB_HOST"`
	LegacyPort     int    `envconfig:"BORLA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BORLA_DB_USER"`
	LegacyPassword string `envconfig:"BORLA_DB_PASSWORD"`
	LegacyName     string `envconfig:"BORLA_DB_NAME"`
	LegacySSLMode  string `envconfig:"BORLA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BORLA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BORLA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BORLA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BORLA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BORLA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BORLA_REDIS_ADDR"`
	Password     string        `envconfig:"BORLA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BORLA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BORLA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BORLA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BORLA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BORLA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BORLA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BORLA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BORLA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BORLA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BORLA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BORLA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BORLA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BORLA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BORLA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BORLA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BORLA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BORLA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BORLA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BORLA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BORLA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BORLA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type RewardsConfig struct {
	// MonthlyGoalKg is the default recycling goal shown on every dashboard.
	MonthlyGoalKg         int `envconfig:"BORLA_REWARDS_MONTHLY_GOAL_KG" default:"100"`
	RecentSubmissionCount int `envconfig:"BORLA_REWARDS_RECENT_SUBMISSIONS" default:"5"`
	LeaderboardLimit      int `envconfig:"BORLA_REWARDS_LEADERBOARD_LIMIT" default:"50"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BORLA_AUTO_MIGRATE" default:"false"`
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
