package jet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/masa-finance/jet/auth"
	"github.com/masa-finance/jet/httpwrap"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// unsetEnv clears key for the test and restores it afterwards, so godotenv,
// which never overrides existing variables, can set it.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestConfigFromEnv(t *testing.T) {
	unsetEnv(t, EnvBaseURL, EnvInterceptJWT, EnvToken, EnvTokenKey, EnvSendTokenAs,
		EnvProxy, EnvRequestIDHeader, EnvTokenFile, EnvTokenEnvPrefix, EnvRedisAddr, EnvRedisPassword, EnvRedisDB)

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "JET_BASE_URL=https://api.example.com/v1\n" +
		"JET_INTERCEPT_JWT=true\n" +
		"JET_TOKEN_KEY=session\n" +
		"JET_SEND_TOKEN_AS=JWT\n" +
		"JET_REQUEST_ID_HEADER=X-Request-ID\n" +
		"JET_TOKEN_ENV_PREFIX=APP_\n" +
		"JET_REDIS_DB=2\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	got := ConfigFromEnv(envFile)
	want := Config{
		BaseURL:              "https://api.example.com/v1",
		InterceptWithJWTAuth: true,
		TokenBearerKey:       "session",
		SendTokenAs:          "JWT",
		RequestIDHeader:      "X-Request-ID",
		TokenEnvPrefix:       "APP_",
		RedisDB:              2,
		Headers:              map[string]string{},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreInterfaces(struct {
		auth.TokenStore
		httpwrap.Doer
	}{})); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	unsetEnv(t, EnvTokenKey, EnvSendTokenAs, EnvInterceptJWT)

	got := ConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	if got.TokenBearerKey != DefaultTokenBearerKey || got.SendTokenAs != DefaultSendTokenAs {
		t.Errorf("expected defaults, got key=%q scheme=%q", got.TokenBearerKey, got.SendTokenAs)
	}
	if got.InterceptWithJWTAuth {
		t.Errorf("expected interception off by default")
	}
}

func TestConfigFromEnv_MissingFileLogging(t *testing.T) {
	hook := test.NewGlobal()
	t.Cleanup(func() { logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks)) })

	// no .env sits next to the package sources
	ConfigFromEnv()
	for _, entry := range hook.AllEntries() {
		if entry.Level <= logrus.WarnLevel {
			t.Errorf("expected no warning without an explicit file, got %q", entry.Message)
		}
	}

	hook.Reset()
	ConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning for a missing explicit file, got %+v", entry)
	}
}

func TestNewWithConfig_Stores(t *testing.T) {
	c, err := NewWithConfig(Config{TokenFile: filepath.Join(t.TempDir(), "tokens.json")})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if _, ok := c.TokenStore().(*auth.FileStore); !ok {
		t.Errorf("expected *auth.FileStore, got %T", c.TokenStore())
	}

	c, err = NewWithConfig(Config{RedisAddr: "127.0.0.1:6379"})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if _, ok := c.TokenStore().(*auth.RedisStore); !ok {
		t.Errorf("expected *auth.RedisStore, got %T", c.TokenStore())
	}

	c, err = NewWithConfig(Config{TokenEnvPrefix: "APP_"})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if _, ok := c.TokenStore().(*auth.EnvStore); !ok {
		t.Errorf("expected *auth.EnvStore, got %T", c.TokenStore())
	}

	c, err = NewWithConfig(Config{})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if _, ok := c.TokenStore().(*auth.MemoryStore); !ok {
		t.Errorf("expected *auth.MemoryStore, got %T", c.TokenStore())
	}
	if c.tokenBearerKey != DefaultTokenBearerKey || c.sendTokenAs != DefaultSendTokenAs {
		t.Errorf("expected defaults filled in, got %q %q", c.tokenBearerKey, c.sendTokenAs)
	}
}

func TestNewWithConfig_Proxy(t *testing.T) {
	c, err := NewWithConfig(Config{Proxy: "socks5://127.0.0.1:1080"})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	hc, ok := c.transport.(*httpwrap.Client)
	if !ok || hc.Proxy() != "socks5://127.0.0.1:1080" {
		t.Errorf("expected proxied transport, got %T", c.transport)
	}

	if _, err := NewWithConfig(Config{Proxy: "gopher://x"}); err == nil {
		t.Errorf("expected error for unsupported proxy")
	}
	if err := New("", WithTransport(hc.HTTPClient())).SetProxy("http://x:1"); err == nil {
		t.Errorf("expected error setting proxy on a custom transport")
	}
}

func TestClose(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewWithConfig(Config{RedisAddr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, _, err = c.TokenStore().Lookup(context.Background(), DefaultTokenBearerKey)
	if !errors.Is(err, redis.ErrClosed) {
		t.Errorf("expected redis client closed, got %v", err)
	}

	if err := New("").Close(); err != nil {
		t.Errorf("expected Close to be a no-op for the memory store, got %v", err)
	}
}
