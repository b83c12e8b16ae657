// Package jet issues JSON HTTP requests against a base URL, filling in
// default headers, serializing bodies and optionally attaching a bearer
// token looked up from a token store.
package jet

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/masa-finance/jet/auth"
	"github.com/masa-finance/jet/httpwrap"
	"github.com/sirupsen/logrus"
)

// Client object
type Client struct {
	baseURL              string
	interceptWithJWTAuth bool
	token                string
	tokenBearerKey       string
	sendTokenAs          string
	requestIDHeader      string
	store                auth.TokenStore
	transport            httpwrap.Doer
	logger               logrus.FieldLogger

	mu      sync.RWMutex
	headers httpwrap.Header
}

// New creates a Client for baseURL. Pass "" to require absolute URLs.
func New(baseURL string, opts ...Option) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return newClient(cfg, storeFor(cfg))
}

// NewWithConfig creates a Client from cfg, applying its proxy and
// token backend settings.
func NewWithConfig(cfg Config) (*Client, error) {
	if cfg.Proxy != "" && cfg.Transport == nil {
		hc := httpwrap.NewClient().WithJar()
		if err := hc.SetProxy(cfg.Proxy); err != nil {
			return nil, err
		}
		cfg.Transport = hc
	}
	return newClient(cfg, storeFor(cfg)), nil
}

func storeFor(cfg Config) auth.TokenStore {
	switch {
	case cfg.TokenStore != nil:
		return cfg.TokenStore
	case cfg.RedisAddr != "":
		return auth.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "")
	case cfg.TokenFile != "":
		return auth.NewFileStore(cfg.TokenFile)
	case cfg.TokenEnvPrefix != "":
		return &auth.EnvStore{Prefix: cfg.TokenEnvPrefix}
	default:
		return auth.NewMemoryStore(nil)
	}
}

func newClient(cfg Config, store auth.TokenStore) *Client {
	c := &Client{
		baseURL:              cfg.BaseURL,
		interceptWithJWTAuth: cfg.InterceptWithJWTAuth,
		token:                cfg.Token,
		tokenBearerKey:       cfg.TokenBearerKey,
		sendTokenAs:          cfg.SendTokenAs,
		requestIDHeader:      cfg.RequestIDHeader,
		store:                store,
		transport:            cfg.Transport,
		logger:               cfg.Logger,
		headers:              httpwrap.HeaderFrom(cfg.Headers),
	}
	if c.tokenBearerKey == "" {
		c.tokenBearerKey = DefaultTokenBearerKey
	}
	if c.sendTokenAs == "" {
		c.sendTokenAs = DefaultSendTokenAs
	}
	if c.transport == nil {
		c.transport = httpwrap.NewClient().WithJar()
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
	return c
}

// BaseURL returns the prefix joined to relative paths.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) TokenStore() auth.TokenStore {
	return c.store
}

// Close releases the token store's connections when it holds any, such
// as the Redis client opened for Config.RedisAddr.
func (c *Client) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Headers returns a snapshot of the accumulated headers.
func (c *Client) Headers() httpwrap.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers.Clone()
}

// SetHeader adds key to the accumulated headers sent with every request.
func (c *Client) SetHeader(key, value string) *Client {
	c.accumulate(map[string]string{key: value})
	return c
}

// accumulate folds h into the accumulated set. The map is replaced, never
// mutated, so snapshots taken by in-flight calls stay valid.
func (c *Client) accumulate(h map[string]string) {
	if len(h) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers = c.headers.Merge(h)
}

// SetProxy
// set http proxy in the format `http://HOST:PORT`
// set socket proxy in the format `socks5://HOST:PORT`
func (c *Client) SetProxy(proxyAddr string) error {
	hc, ok := c.transport.(*httpwrap.Client)
	if !ok {
		return errors.New("jet: proxy requires the default transport")
	}
	return hc.SetProxy(proxyAddr)
}

// lookupToken resolves the credential for the Authorization header. An empty
// result with a nil error means none is available.
func (c *Client) lookupToken(ctx context.Context) (string, error) {
	if c.token != "" {
		return c.token, nil
	}
	if c.store == nil {
		return "", nil
	}
	token, ok, err := c.store.Lookup(ctx, c.tokenBearerKey)
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}
