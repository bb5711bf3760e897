// Package refreshtoken runs the one-time OAuth2 consent flow that yields a
// Google Ads refresh token and stores it in the dotenv file.
package refreshtoken

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/template/html/v3"
	"golang.org/x/oauth2"

	"kwresearch/internal/config"
	"kwresearch/internal/googleads"
	"kwresearch/internal/logging"
)

// RefreshTokenKey is the dotenv key the refresh token is written to.
const RefreshTokenKey = "GOOGLE_ADS_REFRESH_TOKEN"

// DefaultIssuer is Google's OpenID Connect issuer.
const DefaultIssuer = "https://accounts.google.com"

// DefaultShutdownDelay is how long the listener stays up after a successful
// exchange so the browser can load the page.
const DefaultShutdownDelay = 2 * time.Second

// ErrMissingClient is returned when the OAuth client id or secret is unset.
var ErrMissingClient = errors.New("GOOGLE_ADS_CLIENT_ID and GOOGLE_ADS_CLIENT_SECRET must be set")

//go:embed views/*.html
var viewsFS embed.FS

// Config configures the consent flow.
type Config struct {
	ClientID     string
	ClientSecret string
	Port         int
	EnvFile      string
	Endpoint     oauth2.Endpoint
	Output       io.Writer // token details are printed here, stdout when nil
}

// Helper serves the OAuth redirect on a loopback port.
type Helper struct {
	oauth         *oauth2.Config
	state         string
	envFile       string
	out           io.Writer
	app           *fiber.App
	done          chan struct{}
	doneOnce      sync.Once
	shutdownDelay time.Duration
}

// New creates a helper for cfg.
func New(cfg Config) (*Helper, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingClient
	}

	state, err := generateState()
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = config.DefaultEnvFile
	}

	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}

	h := &Helper{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  "http://localhost:" + strconv.Itoa(cfg.Port),
			Endpoint:     cfg.Endpoint,
			Scopes:       []string{googleads.Scope},
		},
		state:         state,
		envFile:       envFile,
		out:           out,
		done:          make(chan struct{}),
		shutdownDelay: DefaultShutdownDelay,
	}

	h.app = fiber.New(fiber.Config{
		Views:       html.NewFileSystem(http.FS(views), ".html"),
		ViewsLayout: "layout",
	})
	h.app.Get("/", h.callback)

	return h, nil
}

// DiscoverEndpoint resolves the authorization and token endpoints from the
// issuer's OpenID Connect discovery document.
func DiscoverEndpoint(ctx context.Context, issuer string) (oauth2.Endpoint, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return oauth2.Endpoint{}, fmt.Errorf("failed to discover %s: %w", issuer, err)
	}
	return provider.Endpoint(), nil
}

// AuthURL returns the consent page URL. prompt=consent makes Google return
// a refresh token even when the app was authorized before.
func (h *Helper) AuthURL() string {
	return h.oauth.AuthCodeURL(h.state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Done is closed once a token exchange has succeeded.
func (h *Helper) Done() <-chan struct{} {
	return h.done
}

// Run serves callbacks on ln until a token is obtained or ctx is canceled.
// There is no timeout waiting for the browser.
func (h *Helper) Run(ctx context.Context, ln net.Listener) error {
	go func() {
		select {
		case <-ctx.Done():
		case <-h.done:
			select {
			case <-ctx.Done():
			case <-time.After(h.shutdownDelay):
			}
		}
		if err := h.app.ShutdownWithContext(context.Background()); err != nil {
			logging.Error().Err(err).Msg("failed to stop callback listener")
		}
	}()

	logging.Info().Str("addr", ln.Addr().String()).Msg("OAuth2 callback server listening")
	return h.app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
}

func (h *Helper) callback(c fiber.Ctx) error {
	if e := c.Query("error"); e != "" {
		logging.Warn().Str("error", e).Msg("authorization denied")
		return h.failed(c, "Google returned an error: "+e)
	}
	if c.Query("state") != h.state {
		return h.failed(c, "Invalid state parameter.")
	}

	code := c.Query("code")
	if code == "" {
		return h.failed(c, "No authorization code received from Google.")
	}

	tok, err := h.oauth.Exchange(c.Context(), code)
	if err != nil {
		return h.internalError(c, fmt.Errorf("token exchange failed: %w", err))
	}

	fmt.Fprintf(h.out, "\nRefresh Token: %s\n", tok.RefreshToken)
	fmt.Fprintf(h.out, "\nAccess Token: %s\n", tok.AccessToken)
	fmt.Fprintf(h.out, "\nExpiry Date: %s\n", tok.Expiry.Format(time.RFC3339))

	saved := false
	if tok.RefreshToken != "" {
		if _, err := config.SetEnvValue(h.envFile, RefreshTokenKey, tok.RefreshToken); err != nil {
			return h.internalError(c, fmt.Errorf("failed to save refresh token: %w", err))
		}
		saved = true
		logging.Info().Str("file", h.envFile).Msg("Refresh token saved")
	} else {
		logging.Warn().Msg("No refresh token received. Try again with prompt=consent.")
	}

	h.doneOnce.Do(func() { close(h.done) })

	return c.Render("success", fiber.Map{
		"Title":   "Authentication Successful",
		"Saved":   saved,
		"EnvFile": h.envFile,
	})
}

func (h *Helper) failed(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).Render("failed", fiber.Map{
		"Title":   "Authentication Failed",
		"Message": message,
	})
}

func (h *Helper) internalError(c fiber.Ctx, err error) error {
	logging.Error().Err(err).Msg("Error handling OAuth callback")
	return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
		"Title":   "Authentication Error",
		"Message": err.Error(),
	})
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
