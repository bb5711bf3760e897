// Package googleads is a small client for the Google Ads REST interface,
// covering the Keyword Planner services.
package googleads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"

	"kwresearch/internal/logging"
	"kwresearch/internal/metrics"
)

// Scope is the OAuth2 scope required by the Google Ads API.
const Scope = "https://www.googleapis.com/auth/adwords"

// Endpoint is Google's OAuth2 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

const (
	defaultBaseURL    = "https://googleads.googleapis.com"
	defaultAPIVersion = "v20"
	maxErrorBody      = 64 << 10
)

// Credentials identify the OAuth client, the developer and the account.
type Credentials struct {
	ClientID        string
	ClientSecret    string
	DeveloperToken  string
	RefreshToken    string
	LoginCustomerID string
	CustomerID      string // operating account; defaults to LoginCustomerID
	TokenURL        string // overrides Endpoint.TokenURL
}

func (c Credentials) missing() []string {
	var out []string
	if c.ClientID == "" {
		out = append(out, "client id")
	}
	if c.ClientSecret == "" {
		out = append(out, "client secret")
	}
	if c.DeveloperToken == "" {
		out = append(out, "developer token")
	}
	if c.RefreshToken == "" {
		out = append(out, "refresh token")
	}
	if c.CustomerID == "" && c.LoginCustomerID == "" {
		out = append(out, "customer id")
	}
	return out
}

// Client calls the Google Ads REST API on behalf of one customer.
type Client struct {
	httpClient      *http.Client
	tokenSource     oauth2.TokenSource
	baseURL         string
	version         string
	customerID      string
	loginCustomerID string
	developerToken  string
	missing         []string
	breaker         *gobreaker.CircuitBreaker[[]byte]
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAPIVersion selects the API version path segment, e.g. "v20".
func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithHTTPClient replaces the OAuth2 HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client whose requests are authorized with the refresh
// token in creds. Missing credentials are reported on the first call.
func New(ctx context.Context, creds Credentials, opts ...Option) *Client {
	endpoint := Endpoint
	if creds.TokenURL != "" {
		endpoint.TokenURL = creds.TokenURL
	}
	oauthCfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{Scope},
	}
	ts := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})

	customerID := creds.CustomerID
	if customerID == "" {
		customerID = creds.LoginCustomerID
	}

	c := &Client{
		httpClient:      oauth2.NewClient(ctx, ts),
		tokenSource:     ts,
		baseURL:         defaultBaseURL,
		version:         defaultAPIVersion,
		customerID:      normalizeCustomerID(customerID),
		loginCustomerID: normalizeCustomerID(creds.LoginCustomerID),
		developerToken:  creds.DeveloperToken,
		missing:         creds.missing(),
	}
	for _, opt := range opts {
		opt(c)
	}

	log := logging.With("googleads")
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "google-ads",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Temporary()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			metrics.SetBreakerState(name, int(to))
		},
	})

	return c
}

// TokenSource returns the refresh-token backed source used for requests.
func (c *Client) TokenSource() oauth2.TokenSource {
	return c.tokenSource
}

// CustomerID returns the operating customer id, digits only.
func (c *Client) CustomerID() string {
	return c.customerID
}

func normalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

// post sends body as JSON to path (relative to the version root) and decodes
// the response into out. operation labels the request in metrics.
func (c *Client) post(ctx context.Context, operation, path string, body, out any) error {
	if len(c.missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(c.missing, ", "))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	start := time.Now()
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path, payload)
	})
	metrics.ObserveAdsRequest(operation, time.Since(start), err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	}
	if err != nil {
		return err
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, payload []byte) ([]byte, error) {
	url := c.baseURL + "/" + c.version + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("developer-token", c.developerToken)
	if c.loginCustomerID != "" {
		req.Header.Set("login-customer-id", c.loginCustomerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		apiErr.Status = body.Error.Status
		apiErr.Message = body.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func (c *Client) customerPath(suffix string) string {
	return "customers/" + c.customerID + suffix
}
