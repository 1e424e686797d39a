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
	FeatureFlags  FeatureFlagsConfig
	Store         StoreConfig
	Admin         AdminConfig
	Cron          CronConfig
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
	Env          string `envconfig:"LUMIERE_APP_ENV" required:"true"`
	Port         string `envconfig:"LUMIERE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LUMIERE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUMIERE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LUMIERE_DB_DSN"`
	Driver string `envconfig:"LUMIERE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LUMIERE_DB_HOST"`
	LegacyPort     int    `envconfig:"LUMIERE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LUMIERE_DB_USER"`
	LegacyPassword string `envconfig:"LUMIERE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LUMIERE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LUMIERE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LUMIERE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUMIERE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUMIERE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUMIERE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LUMIERE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LUMIERE_REDIS_ADDR"`
	Password     string        `envconfig:"LUMIERE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUMIERE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUMIERE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUMIERE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUMIERE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUMIERE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUMIERE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LUMIERE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LUMIERE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LUMIERE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LUMIERE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUMIERE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUMIERE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUMIERE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUMIERE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUMIERE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LUMIERE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LUMIERE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LUMIERE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LUMIERE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LUMIERE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LUMIERE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LUMIERE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LUMIERE_AUTO_MIGRATE" default:"false"`
}

// StoreConfig seeds the store settings row on first boot. Runtime values live
// in the store_settings table and are edited through the admin API.
type StoreConfig struct {
	Name                  string `envconfig:"LUMIERE_STORE_NAME" default:"Lumière"`
	Currency              string `envconfig:"LUMIERE_STORE_CURRENCY" default:"INR"`
	Timezone              string `envconfig:"LUMIERE_STORE_TIMEZONE" default:"Asia/Kolkata"`
	ContactEmail          string `envconfig:"LUMIERE_STORE_CONTACT_EMAIL" default:"hello@lumierejewels.in"`
	FreeShippingThreshold int    `envconfig:"LUMIERE_FREE_SHIPPING_THRESHOLD" default:"5000"`
	GSTRatePercent        int    `envconfig:"LUMIERE_GST_RATE_PERCENT" default:"18"`
	StandardShippingFee   int    `envconfig:"LUMIERE_STANDARD_SHIPPING_FEE" default:"200"`
	ExpressShippingFee    int    `envconfig:"LUMIERE_EXPRESS_SHIPPING_FEE" default:"200"`
	SameDayShippingFee    int    `envconfig:"LUMIERE_SAME_DAY_SHIPPING_FEE" default:"500"`
}

// AdminConfig holds the bootstrap admin credentials for non-prod environments.
type AdminConfig struct {
	Email    string `envconfig:"LUMIERE_ADMIN_EMAIL" default:"admin@lumierejewels.in"`
	Password string `envconfig:"LUMIERE_ADMIN_PASSWORD"`
}

type CronConfig struct {
	CartRetention   time.Duration `envconfig:"LUMIERE_CRON_CART_RETENTION" default:"720h"`
	LockTTL         time.Duration `envconfig:"LUMIERE_CRON_LOCK_TTL" default:"5m"`
	TickInterval    time.Duration `envconfig:"LUMIERE_CRON_TICK_INTERVAL" default:"1m"`
	CouponSweepHour int           `envconfig:"LUMIERE_CRON_COUPON_SWEEP_HOUR" default:"3"`
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
