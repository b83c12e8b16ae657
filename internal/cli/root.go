package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/masa-finance/jet"
	"github.com/masa-finance/jet/httpwrap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

type options struct {
	envFile   string
	baseURL   string
	headers   []string
	token     string
	jwt       bool
	tokenKey  string
	scheme    string
	tokenFile string
	proxy     string
	query     string
	fail      bool
	noColor   bool
	verbose   bool

	// transport replaces the default one; tests point it at httptest servers.
	transport httpwrap.Doer
}

// NewRootCmd builds the jet command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "jet",
		Short: "Send JSON HTTP requests from the command line",
		Long: `jet sends JSON requests to an API, filling in the usual headers and
an optional bearer token.

Examples:
  jet get https://api.example.com/users
  jet --base-url https://api.example.com post users '{"name":"ada"}'
  jet --jwt --token-file ~/.jet/tokens.json get /me
  jet request OPTIONS /users`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.noColor {
				color.NoColor = true
			}
			if o.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.envFile, "env-file", "", "dotenv file with JET_* settings (default .env)")
	f.StringVarP(&o.baseURL, "base-url", "b", "", "base URL for relative paths (env: JET_BASE_URL)")
	f.StringArrayVarP(&o.headers, "header", "H", nil, "extra header as 'Name: value' (repeatable)")
	f.StringVarP(&o.token, "token", "t", "", "token for the Authorization header (env: JET_TOKEN)")
	f.BoolVar(&o.jwt, "jwt", false, "attach an Authorization header (env: JET_INTERCEPT_JWT)")
	f.StringVar(&o.tokenKey, "token-key", "", "key the token is stored under (env: JET_TOKEN_KEY)")
	f.StringVar(&o.scheme, "scheme", "", "scheme sent before the token (env: JET_SEND_TOKEN_AS)")
	f.StringVar(&o.tokenFile, "token-file", "", "JSON file holding stored tokens (env: JET_TOKEN_FILE)")
	f.StringVar(&o.proxy, "proxy", "", "http(s):// or socks5:// proxy (env: JET_PROXY)")
	f.StringVarP(&o.query, "query", "q", "", "print only this gjson path of the response")
	f.BoolVar(&o.fail, "fail", false, "exit non-zero on non-2xx status")
	f.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log requests")

	for _, method := range []string{"get", "post", "put", "patch", "delete"} {
		root.AddCommand(methodCmd(o, method))
	}
	root.AddCommand(requestCmd(o))
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// client builds a jet.Client from the environment overlaid with flags.
// An explicit --token-file replaces any token backend set in the
// environment.
func (o *options) client(cmd *cobra.Command) (*jet.Client, error) {
	var cfg jet.Config
	if o.envFile != "" {
		cfg = jet.ConfigFromEnv(o.envFile)
	} else {
		cfg = jet.ConfigFromEnv()
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("token") {
		cfg.Token = o.token
	}
	if flags.Changed("jwt") {
		cfg.InterceptWithJWTAuth = o.jwt
	}
	if flags.Changed("token-key") {
		cfg.TokenBearerKey = o.tokenKey
	}
	if flags.Changed("scheme") {
		cfg.SendTokenAs = o.scheme
	}
	if flags.Changed("token-file") {
		cfg.TokenFile = o.tokenFile
		cfg.RedisAddr = ""
		cfg.TokenEnvPrefix = ""
	}
	if flags.Changed("proxy") {
		cfg.Proxy = o.proxy
	}
	if o.transport != nil {
		cfg.Transport = o.transport
	}
	return jet.NewWithConfig(cfg)
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want 'Name: value'", h)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}
