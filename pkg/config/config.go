package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	OTP           OTPConfig
	FeatureFlags  FeatureFlagsConfig
	Uploads       UploadsConfig
	Razorpay      RazorpayConfig
	Sendgrid      SendgridConfig
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
	Env          string `envconfig:"AURELIA_APP_ENV" required:"true"`
	Port         string `envconfig:"AURELIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AURELIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AURELIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AURELIA_DB_DSN"`
	Driver string `envconfig:"AURELIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AURELIA_DB_HOST"`
	LegacyPort     int    `envconfig:"AURELIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AURELIA_DB_USER"`
	LegacyPassword string `envconfig:"AURELIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"AURELIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"AURELIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AURELIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AURELIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AURELIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AURELIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AURELIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AURELIA_REDIS_ADDR"`
	Password     string        `envconfig:"AURELIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"AURELIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AURELIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AURELIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AURELIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AURELIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AURELIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AURELIA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AURELIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AURELIA_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AURELIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AURELIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AURELIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AURELIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AURELIA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"AURELIA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"AURELIA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"AURELIA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	OTPWindow       time.Duration `envconfig:"AURELIA_AUTH_RATE_LIMIT_OTP_WINDOW" default:"5m"`
	OTPEmailLimit   int           `envconfig:"AURELIA_AUTH_RATE_LIMIT_OTP_EMAIL_LIMIT" default:"3"`
	OTPIPLimit      int           `envconfig:"AURELIA_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"AURELIA_OTP_TTL" default:"10m"`
	MaxAttempts int           `envconfig:"AURELIA_OTP_MAX_ATTEMPTS" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AURELIA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AURELIA_AUTO_MIGRATE" default:"false"`
}

type UploadsConfig struct {
	Dir          string `envconfig:"AURELIA_UPLOADS_DIR" default:"uploads"`
	PublicPrefix string `envconfig:"AURELIA_UPLOADS_PUBLIC_PREFIX" default:"/images"`
	MaxUploadMB  int    `envconfig:"AURELIA_MAX_UPLOAD_MB" default:"20"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"AURELIA_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"AURELIA_RAZORPAY_KEY_SECRET"`
	Currency  string `envconfig:"AURELIA_RAZORPAY_CURRENCY" default:"INR"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"AURELIA_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"AURELIA_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"AURELIA_SENDGRID_FROM_NAME" default:"Aurelia Jewels"`
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
