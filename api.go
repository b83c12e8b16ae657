package jet

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/masa-finance/jet/httpwrap"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Response pairs the transport response with its decoded JSON body.
type Response struct {
	Response *http.Response
	// Data is the body decoded into any; nil for an empty body.
	Data any
	// Raw holds the body bytes. Response.Body reads the same bytes again.
	Raw []byte
}

func (r *Response) StatusCode() int {
	return r.Response.StatusCode
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// Get reads a gjson path, e.g. "data.items.0.id", from the body.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Raw, path)
}

// Err returns an *httpwrap.HTTPError for statuses outside 2xx and nil otherwise.
// Calls never fail on status alone; this is for callers who want that.
func (r *Response) Err() error {
	code := r.Response.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	return httpwrap.NewHTTPError(r.Response.Status, code, r.Raw)
}

// Get sends a GET request. GET never carries a body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string, opts *RequestOptions) (*Response, error) {
	return c.Custom(ctx, url, http.MethodGet, nil, headers, opts)
}

func (c *Client) Post(ctx context.Context, url string, body any, headers map[string]string, opts *RequestOptions) (*Response, error) {
	return c.Custom(ctx, url, http.MethodPost, body, headers, opts)
}

func (c *Client) Put(ctx context.Context, url string, body any, headers map[string]string, opts *RequestOptions) (*Response, error) {
	return c.Custom(ctx, url, http.MethodPut, body, headers, opts)
}

func (c *Client) Patch(ctx context.Context, url string, body any, headers map[string]string, opts *RequestOptions) (*Response, error) {
	return c.Custom(ctx, url, http.MethodPatch, body, headers, opts)
}

func (c *Client) Delete(ctx context.Context, url string, body any, headers map[string]string, opts *RequestOptions) (*Response, error) {
	return c.Custom(ctx, url, http.MethodDelete, body, headers, opts)
}

// Custom sends a request with an arbitrary method.
func (c *Client) Custom(ctx context.Context, url, method string, body any, headers map[string]string, opts *RequestOptions) (*Response, error) {
	d, err := c.Build(ctx, method, url, body, headers, opts)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, d)
}

// Send dispatches an assembled Descriptor and decodes the JSON reply.
// Transport, read and decode errors are returned exactly as produced.
func (c *Client) Send(ctx context.Context, d *Descriptor) (*Response, error) {
	req, err := d.Request(ctx)
	if err != nil {
		return nil, err
	}

	log := c.logger.WithFields(logrus.Fields{
		"method": d.Method,
		"url":    d.URL,
	})
	log.Debug("Sending request")

	start := time.Now()
	resp, err := c.transport.Do(req)
	if err != nil {
		log.WithError(err).Debug("Request failed")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Debug("Failed to read response body")
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))

	var data any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			log.WithError(err).WithField("status", resp.StatusCode).Debug("Failed to decode response body")
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Request completed")

	return &Response{Response: resp, Data: data, Raw: raw}, nil
}
