package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/nusalapor/backend/pkg/httpx"
)

type Config struct {
	Issuer    string `env:"AUTH_ISSUER" envDefault:"nusalapor-auth"`
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	Database Database `envPrefix:"AUTH_DATABASE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Keys     Keys     `envPrefix:"AUTH_"`
	Tokens   Tokens   `envPrefix:"AUTH_"`
	Throttle Throttle `envPrefix:"THROTTLE_"`
	Cookie   Cookie   `envPrefix:"COOKIE_"`

	RateLimits RateLimits `envPrefix:"RATELIMIT_"`
	// Addresses or CIDRs of reverse proxies allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Seeds the first admin when all three are set.
	Superuser Superuser `envPrefix:"SUPERUSER_"`

	PasswordIterations   int           `env:"AUTH_PASSWORD_ITERATIONS" envDefault:"260000"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// Database selects the SQL driver. "sqlite" uses File, "postgres" uses DSN.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	File   string `env:"FILE" envDefault:"auth.db"`
	DSN    string `env:"DSN"`
}

type Redis struct {
	Addrs    []string `env:"ADDRS" envSeparator:"," envDefault:"localhost:6379"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	DB       int      `env:"DB" envDefault:"0"`
}

// Keys point at key material. Files are created on first start when absent.
// FieldKey (base64, 32 bytes) takes precedence over FieldKeyFile.
type Keys struct {
	SigningKeyFile string `env:"SIGNING_KEY_FILE" envDefault:"keys/signing.pem"`
	FieldKey       string `env:"FIELD_KEY"`
	FieldKeyFile   string `env:"FIELD_KEY_FILE" envDefault:"keys/field.key"`
}

type Tokens struct {
	AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
}

type Throttle struct {
	LoginLimit    int           `env:"LOGIN_LIMIT" envDefault:"3"`
	LoginWindow   time.Duration `env:"LOGIN_WINDOW" envDefault:"1m"`
	RefreshLimit  int           `env:"REFRESH_LIMIT" envDefault:"10"`
	RefreshWindow time.Duration `env:"REFRESH_WINDOW" envDefault:"1m"`
}

// RateLimits are the in-process token buckets on routes without a
// sliding-window throttle.
type RateLimits struct {
	StrictRequests   int           `env:"STRICT_REQUESTS" envDefault:"5"`
	StrictWindow     time.Duration `env:"STRICT_WINDOW" envDefault:"1m"`
	StrictBurst      int           `env:"STRICT_BURST" envDefault:"5"`
	ModerateRequests int           `env:"MODERATE_REQUESTS" envDefault:"20"`
	ModerateWindow   time.Duration `env:"MODERATE_WINDOW" envDefault:"1m"`
	ModerateBurst    int           `env:"MODERATE_BURST" envDefault:"20"`
	LenientRequests  int           `env:"LENIENT_REQUESTS" envDefault:"100"`
	LenientWindow    time.Duration `env:"LENIENT_WINDOW" envDefault:"1m"`
	LenientBurst     int           `env:"LENIENT_BURST" envDefault:"100"`
	PublicRequests   int           `env:"PUBLIC_REQUESTS" envDefault:"1000"`
	PublicWindow     time.Duration `env:"PUBLIC_WINDOW" envDefault:"1m"`
	PublicBurst      int           `env:"PUBLIC_BURST" envDefault:"1000"`
}

func (r RateLimits) Profiles() httpx.RateLimits {
	return httpx.RateLimits{
		Strict:   httpx.RateLimit{Requests: r.StrictRequests, Window: r.StrictWindow, Burst: r.StrictBurst},
		Moderate: httpx.RateLimit{Requests: r.ModerateRequests, Window: r.ModerateWindow, Burst: r.ModerateBurst},
		Lenient:  httpx.RateLimit{Requests: r.LenientRequests, Window: r.LenientWindow, Burst: r.LenientBurst},
		Public:   httpx.RateLimit{Requests: r.PublicRequests, Window: r.PublicWindow, Burst: r.PublicBurst},
	}
}

type Cookie struct {
	Secure bool   `env:"SECURE" envDefault:"false"`
	Domain string `env:"DOMAIN"`
}

type Superuser struct {
	Email    string `env:"EMAIL"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

func (s Superuser) Enabled() bool {
	return s.Email != "" && s.Username != "" && s.Password != ""
}

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.Database.Driver))
	}

	if len(c.Redis.Addrs) == 0 {
		errs = append(errs, errors.New("REDIS_ADDRS is required"))
	}
	if c.Tokens.AccessTTL <= 0 || c.Tokens.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.Tokens.AccessTTL >= c.Tokens.RefreshTTL {
		errs = append(errs, errors.New("AUTH_ACCESS_TTL must be shorter than AUTH_REFRESH_TTL"))
	}
	if c.Throttle.LoginLimit < 1 || c.Throttle.RefreshLimit < 1 {
		errs = append(errs, errors.New("throttle limits must be at least 1"))
	}

	p := c.RateLimits.Profiles()
	for name, l := range map[string]httpx.RateLimit{
		"STRICT": p.Strict, "MODERATE": p.Moderate, "LENIENT": p.Lenient, "PUBLIC": p.Public,
	} {
		if l.Requests < 1 || l.Burst < 1 || l.Window <= 0 {
			errs = append(errs, fmt.Errorf("RATELIMIT_%s_* must be positive", name))
		}
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	return errors.Join(errs...)
}

func (c Config) IsDev() bool { return c.Env == "dev" }
