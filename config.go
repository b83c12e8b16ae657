package jet

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/masa-finance/jet/auth"
	"github.com/masa-finance/jet/httpwrap"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTokenBearerKey = auth.DefaultTokenKey
	DefaultSendTokenAs    = "Bearer"
	DefaultMode           = "cors"

	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAllowOrigin   = "Access-Control-Allow-Origin"

	ContentTypeJSON = "application/json"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBaseURL         = "JET_BASE_URL"
	EnvInterceptJWT    = "JET_INTERCEPT_JWT"
	EnvToken           = "JET_TOKEN"
	EnvTokenKey        = "JET_TOKEN_KEY"
	EnvSendTokenAs     = "JET_SEND_TOKEN_AS"
	EnvProxy           = "JET_PROXY"
	EnvRequestIDHeader = "JET_REQUEST_ID_HEADER"
	EnvTokenFile       = "JET_TOKEN_FILE"
	EnvTokenEnvPrefix  = "JET_TOKEN_ENV_PREFIX"
	EnvRedisAddr       = "JET_REDIS_ADDR"
	EnvRedisPassword   = "JET_REDIS_PASSWORD"
	EnvRedisDB         = "JET_REDIS_DB"
)

// Config holds everything needed to construct a Client.
type Config struct {
	// BaseURL prefixes relative paths. When empty every path must be absolute.
	BaseURL string

	// InterceptWithJWTAuth adds an Authorization header to requests that
	// don't already carry one.
	InterceptWithJWTAuth bool
	// Token is sent as is. When empty, TokenStore is asked for TokenBearerKey.
	Token          string
	TokenBearerKey string
	// SendTokenAs is the scheme written before the token, e.g. "Bearer" or "JWT".
	SendTokenAs string

	// Headers seeds the accumulated header set.
	Headers map[string]string

	// RequestIDHeader, when set, receives a fresh uuid on requests lacking it.
	RequestIDHeader string

	// Proxy is an http(s):// or socks5:// address. Only applies to the
	// default transport.
	Proxy string

	// TokenStore overrides the store picked from RedisAddr, TokenFile or
	// TokenEnvPrefix, checked in that order.
	TokenStore     auth.TokenStore
	TokenFile      string
	TokenEnvPrefix string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	Transport httpwrap.Doer
	Logger    logrus.FieldLogger
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		TokenBearerKey: DefaultTokenBearerKey,
		SendTokenAs:    DefaultSendTokenAs,
		Headers:        map[string]string{},
	}
}

// Option mutates a Config before the Client is built.
type Option func(*Config)

func WithBaseURL(baseURL string) Option {
	return func(c *Config) { c.BaseURL = baseURL }
}

// WithJWTAuth toggles Authorization injection.
func WithJWTAuth(enabled bool) Option {
	return func(c *Config) { c.InterceptWithJWTAuth = enabled }
}

func WithToken(token string) Option {
	return func(c *Config) { c.Token = token }
}

func WithTokenBearerKey(key string) Option {
	return func(c *Config) { c.TokenBearerKey = key }
}

func WithSendTokenAs(scheme string) Option {
	return func(c *Config) { c.SendTokenAs = scheme }
}

func WithHeaders(headers map[string]string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = map[string]string{}
		}
		for k, v := range headers {
			c.Headers[k] = v
		}
	}
}

func WithTokenStore(store auth.TokenStore) Option {
	return func(c *Config) { c.TokenStore = store }
}

func WithTransport(t httpwrap.Doer) Option {
	return func(c *Config) { c.Transport = t }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithRequestIDHeader(header string) Option {
	return func(c *Config) { c.RequestIDHeader = header }
}

// ConfigFromEnv loads dotenv files (".env" when none are given) and reads
// the JET_* variables on top of DefaultConfig. A file that can't be loaded
// logs a warning when it was named explicitly, and is skipped quietly
// otherwise.
func ConfigFromEnv(files ...string) Config {
	if err := godotenv.Load(files...); err != nil {
		entry := logrus.WithError(err)
		if len(files) > 0 {
			entry.Warn("Error loading .env file")
		} else {
			entry.Debug("No .env file loaded")
		}
	}

	cfg := DefaultConfig()
	cfg.BaseURL = os.Getenv(EnvBaseURL)
	cfg.Token = os.Getenv(EnvToken)
	cfg.Proxy = os.Getenv(EnvProxy)
	cfg.RequestIDHeader = os.Getenv(EnvRequestIDHeader)
	cfg.TokenFile = os.Getenv(EnvTokenFile)
	cfg.TokenEnvPrefix = os.Getenv(EnvTokenEnvPrefix)
	cfg.RedisAddr = os.Getenv(EnvRedisAddr)
	cfg.RedisPassword = os.Getenv(EnvRedisPassword)
	if v := os.Getenv(EnvTokenKey); v != "" {
		cfg.TokenBearerKey = v
	}
	if v := os.Getenv(EnvSendTokenAs); v != "" {
		cfg.SendTokenAs = v
	}
	if v := os.Getenv(EnvInterceptJWT); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logrus.WithError(err).WithField("value", v).Warnf("Ignoring invalid %s", EnvInterceptJWT)
		}
		cfg.InterceptWithJWTAuth = enabled
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			logrus.WithError(err).WithField("value", v).Warnf("Ignoring invalid %s", EnvRedisDB)
		}
		cfg.RedisDB = db
	}
	return cfg
}
