package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Auth          AuthConfig
	FeatureFlags  FeatureFlagsConfig
	Metrics       MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.App.TrustedProxyPrefixes(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PETADOPT_APP_ENV" required:"true"`
	Port         string `envconfig:"PETADOPT_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"PETADOPT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PETADOPT_LOG_WARN_STACK" default:"false"`

	// TrustedProxies lists the peers (IPs or CIDRs) whose forwarding headers
	// are believed when resolving a client address.
	TrustedProxies []string `envconfig:"PETADOPT_TRUSTED_PROXIES"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (a AppConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(a.TrustedProxies))
	for _, raw := range a.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid entry %q: %w", EnvTrustedProxies, entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid entry %q: %w", EnvTrustedProxies, entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

type DBConfig struct {
	DSN    string `envconfig:"PETADOPT_DB_DSN"`
	Driver string `envconfig:"PETADOPT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PETADOPT_DB_HOST"`
	LegacyPort     int    `envconfig:"PETADOPT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PETADOPT_DB_USER"`
	LegacyPassword string `envconfig:"PETADOPT_DB_PASSWORD"`
	LegacyName     string `envconfig:"PETADOPT_DB_NAME"`
	LegacySSLMode  string `envconfig:"PETADOPT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PETADOPT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PETADOPT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PETADOPT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PETADOPT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PETADOPT_REDIS_URL"`
	Address      string        `envconfig:"PETADOPT_REDIS_ADDR"`
	Password     string        `envconfig:"PETADOPT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PETADOPT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PETADOPT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PETADOPT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PETADOPT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PETADOPT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PETADOPT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	Secret       string `envconfig:"PETADOPT_SESSION_SECRET" required:"true"`
	Issuer       string `envconfig:"PETADOPT_SESSION_ISSUER" default:"petadopt"`
	TTLMinutes   int    `envconfig:"PETADOPT_SESSION_TTL_MINUTES" default:"1440"`
	CookieName   string `envconfig:"PETADOPT_SESSION_COOKIE" default:"petadopt_session"`
	CookieSecure bool   `envconfig:"PETADOPT_SESSION_COOKIE_SECURE" default:"false"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PETADOPT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PETADOPT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PETADOPT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PETADOPT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PETADOPT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PETADOPT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PETADOPT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PETADOPT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PETADOPT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PETADOPT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PETADOPT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type AuthConfig struct {
	AllowAdminSignup bool `envconfig:"PETADOPT_ALLOW_ADMIN_SIGNUP" default:"true"`
}

// AdminSignupAllowed reports whether the registration form may grant the
// administrator flag. Production deployments provision admins via cmd/admin.
func (c *Config) AdminSignupAllowed() bool {
	return c.Auth.AllowAdminSignup && !c.App.IsProd()
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PETADOPT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PETADOPT_AUTO_MIGRATE" default:"false"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"PETADOPT_METRICS_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	}
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
