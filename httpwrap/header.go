package httpwrap

import (
	"encoding/base64"
	"net/http"

	"golang.org/x/exp/maps"
)

// A Header represents the key-value pairs in an HTTP header.
// Keys are stored in canonical MIME form so lookups are case-insensitive.
// It is not an array of strings, so it won't work if you have multiple headers with the same key and order matters.
type Header map[string]string

func NewHeader() Header {
	return Header{}
}

// HeaderFrom copies m into a new Header, canonicalizing every key.
func HeaderFrom(m map[string]string) Header {
	h := make(Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

// Set sets key to value, replacing any existing value.
func (h Header) Set(key, value string) {
	h[http.CanonicalHeaderKey(key)] = value
}

func (h Header) Get(key string) string {
	return h[http.CanonicalHeaderKey(key)]
}

func (h Header) Has(key string) bool {
	_, ok := h[http.CanonicalHeaderKey(key)]
	return ok
}

func (h Header) Del(key string) {
	delete(h, http.CanonicalHeaderKey(key))
}

// SetDefault sets key only when it is not present yet.
func (h Header) SetDefault(key, value string) {
	if !h.Has(key) {
		h.Set(key, value)
	}
}

// Clone returns a copy of h. A nil Header clones to an empty one.
func (h Header) Clone() Header {
	if h == nil {
		return Header{}
	}
	return maps.Clone(h)
}

// Merge returns a new Header holding h overridden by other.
// Neither input is modified.
func (h Header) Merge(other Header) Header {
	out := h.Clone()
	maps.Copy(out, HeaderFrom(other))
	return out
}

// Apply writes every entry into an http.Header.
func (h Header) Apply(dst http.Header) {
	for k, v := range h {
		dst.Set(k, v)
	}
}

// AddBasicAuth adds an Authorization header with Basic Authentication.
func (h Header) AddBasicAuth(username, password string) {
	base64Value := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	h.Set("Authorization", "Basic "+base64Value)
}

// WithAuthorization sets "Authorization: <scheme> <token>".
func (h Header) WithAuthorization(scheme, token string) Header {
	h.Set("Authorization", scheme+" "+token)
	return h
}

func (h Header) WithBearerToken(token string) Header {
	return h.WithAuthorization("Bearer", token)
}
