package httpwrap

import (
	"errors"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// DefaultDialTimeout bounds connection setup through a proxy. Requests
// themselves carry no timeout; callers bound them with a context.
const DefaultDialTimeout = 30 * time.Second

// Doer sends a single HTTP request. *http.Client and *Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a wrapper around http.Client used as the transport primitive.
type Client struct {
	httpClient *http.Client
	proxy      string
}

// NewClient creates a new Client without a request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 10,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// HTTPClient exposes the underlying http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Proxy returns the proxy address set by SetProxy.
func (c *Client) Proxy() string {
	return c.proxy
}

// SetProxy routes requests through an http(s) or socks5 proxy.
// An empty address restores a direct transport.
func (c *Client) SetProxy(proxyAddr string) error {
	dialer := &net.Dialer{Timeout: DefaultDialTimeout}
	switch {
	case proxyAddr == "":
		c.httpClient.Transport = &http.Transport{
			DialContext: dialer.DialContext,
		}
		c.proxy = ""
		return nil
	case strings.HasPrefix(proxyAddr, "http"):
		proxyURL, err := url.Parse(proxyAddr)
		if err != nil {
			return err
		}
		c.httpClient.Transport = &http.Transport{
			Proxy:       http.ProxyURL(proxyURL),
			DialContext: dialer.DialContext,
		}
		c.proxy = proxyAddr
		return nil
	case strings.HasPrefix(proxyAddr, "socks5"):
		proxyURL, err := url.Parse(proxyAddr)
		if err != nil {
			return err
		}
		var auth *proxy.Auth
		if proxyURL.User != nil {
			password, _ := proxyURL.User.Password()
			auth = &proxy.Auth{User: proxyURL.User.Username(), Password: password}
		}
		dialSocksProxy, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, dialer)
		if err != nil {
			return errors.New("error creating socks5 proxy :" + err.Error())
		}
		contextDialer, ok := dialSocksProxy.(proxy.ContextDialer)
		if !ok {
			return errors.New("failed type assertion to DialContext")
		}
		c.httpClient.Transport = &http.Transport{
			DialContext: contextDialer.DialContext,
		}
		c.proxy = proxyAddr
		return nil
	default:
		return errors.New("only support http(s) or socks5 protocol")
	}
}

func (c *Client) WithJar() *Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		logrus.Errorf("error creating cookie jar: %v\n", err)
		return c
	}
	c.httpClient.Jar = jar
	return c
}

func (c *Client) GetCookies(u *url.URL) []*http.Cookie {
	if c.httpClient.Jar == nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}
