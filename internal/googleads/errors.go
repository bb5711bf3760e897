package googleads

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingCredentials is returned when a call is made without the
	// OAuth client, developer token, refresh token or customer id.
	ErrMissingCredentials = errors.New("missing Google Ads credentials")

	// ErrBreakerOpen is returned without calling the API after repeated
	// server-side failures.
	ErrBreakerOpen = errors.New("google ads api temporarily unavailable")

	// ErrEmptyMutateResult is returned when a create operation reports no resource.
	ErrEmptyMutateResult = errors.New("mutate returned no resource name")
)

// APIError is a non-2xx response from the Google Ads REST endpoint.
type APIError struct {
	StatusCode int
	Status     string // canonical status, e.g. INVALID_ARGUMENT
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("google ads api: %s (%d): %s", e.Status, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("google ads api: HTTP %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the failure is on Google's side.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// Unimplemented reports whether the API version does not serve the method.
// An unknown REST method comes back as a bare 404 without a canonical
// status, unlike a missing resource.
func (e *APIError) Unimplemented() bool {
	switch {
	case e.Status == "UNIMPLEMENTED", e.StatusCode == http.StatusNotImplemented:
		return true
	case e.StatusCode == http.StatusNotFound:
		return e.Status == ""
	}
	return false
}

// IsUnimplemented reports whether err is an APIError for a method the
// configured API version does not serve.
func IsUnimplemented(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unimplemented()
}
