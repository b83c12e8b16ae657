package httpwrap

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// HTTPError describes a response whose status is outside the 2xx range.
type HTTPError struct {
	Status     string
	StatusCode int
	Body       []byte
	Err        error
}

// NewHTTPError builds an HTTPError for status code and raw body.
func NewHTTPError(status string, code int, body []byte) *HTTPError {
	return &HTTPError{
		Status:     status,
		StatusCode: code,
		Body:       body,
		Err:        fmt.Errorf("HTTP %d: %s", code, http.StatusText(code)),
	}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("status %d: %v", e.StatusCode, e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Log() {
	logrus.WithFields(logrus.Fields{
		"status":  e.Status,
		"content": string(e.Body),
	}).Error("Unexpected response status")
}
