package jet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/masa-finance/jet/httpwrap"
)

// ErrRelativeURL is returned when a relative path is used without a base URL.
var ErrRelativeURL = errors.New("jet: relative url requires a base url")

// RequestOptions are low-level settings for a single call.
type RequestOptions struct {
	// Method overrides the method implied by the call.
	Method string
	// Mode is carried on the Descriptor. Defaults to DefaultMode.
	Mode string
	// Query is appended to the resolved URL.
	Query url.Values
}

// Descriptor is a fully assembled request, ready to dispatch.
type Descriptor struct {
	Method  string
	URL     string
	Headers httpwrap.Header
	// Body is the JSON payload, nil when the request carries none.
	Body []byte
	Mode string
}

// Request converts d into an *http.Request bound to ctx.
func (d *Descriptor) Request(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, body)
	if err != nil {
		return nil, err
	}
	d.Headers.Apply(req.Header)
	return req, nil
}

// Build assembles the Descriptor for a call without sending it. Headers
// passed here join the client's accumulated set.
//
// A relative path is joined to the base URL. An absolute path (with scheme
// and host) is used as is even when a base URL is set.
func (c *Client) Build(ctx context.Context, method, path string, body any, headers map[string]string, opts *RequestOptions) (*Descriptor, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	target, err := c.resolveURL(path, opts.Query)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Method: opts.Method,
		URL:    target,
		Mode:   opts.Mode,
	}
	if d.Method == "" {
		d.Method = strings.ToUpper(method)
	}
	if d.Method == "" {
		d.Method = http.MethodGet
	}
	if d.Mode == "" {
		d.Mode = DefaultMode
	}

	if !strings.EqualFold(d.Method, http.MethodGet) {
		d.Body, err = encodeBody(body)
		if err != nil {
			return nil, err
		}
	}

	d.Headers, err = c.mergeHeaders(ctx, headers)
	if err != nil {
		return nil, err
	}
	c.accumulate(headers)
	return d, nil
}

// mergeHeaders layers, later winning: accumulated headers, call headers,
// absent defaults, then Authorization when enabled and still absent.
func (c *Client) mergeHeaders(ctx context.Context, headers map[string]string) (httpwrap.Header, error) {
	merged := c.Headers().Merge(headers)
	merged.SetDefault(HeaderAllowOrigin, "*")
	merged.SetDefault(HeaderContentType, ContentTypeJSON)

	if c.interceptWithJWTAuth && !merged.Has(HeaderAuthorization) {
		token, err := c.lookupToken(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			merged.WithAuthorization(c.sendTokenAs, token)
		} else {
			c.logger.WithField("key", c.tokenBearerKey).Debug("No token found, sending request without Authorization")
		}
	}

	if c.requestIDHeader != "" {
		merged.SetDefault(c.requestIDHeader, uuid.NewString())
	}
	return merged, nil
}

func (c *Client) resolveURL(path string, query url.Values) (string, error) {
	target := path
	if c.baseURL != "" && !isAbsolute(path) {
		target = joinURL(c.baseURL, path)
	} else if !isAbsolute(path) {
		return "", fmt.Errorf("%w: %q", ErrRelativeURL, path)
	}
	if len(query) == 0 {
		return target, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vv := range query {
		for _, v := range vv {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// joinURL joins base and path with exactly one slash.
func joinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}

func isAbsolute(path string) bool {
	u, err := url.Parse(path)
	return err == nil && u.IsAbs() && u.Host != ""
}

// encodeBody serializes body to JSON. Empty bodies (nil, zero-key objects,
// empty arrays, empty strings) encode to nil. Pre-encoded []byte and
// json.RawMessage values are sent untouched unless they are empty.
func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return rawBody(v)
	case []byte:
		return rawBody(v)
	}

	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("jet: encode body: %w", err)
	}
	if isEmptyJSON(payload) {
		return nil, nil
	}
	return payload, nil
}

// rawBody checks pre-encoded JSON for emptiness. Invalid JSON is passed
// through for the server to reject.
func rawBody(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err == nil && isEmptyJSON(compact.Bytes()) {
		return nil, nil
	}
	return raw, nil
}

func isEmptyJSON(payload []byte) bool {
	switch string(payload) {
	case "null", "{}", "[]", `""`:
		return true
	}
	return false
}
