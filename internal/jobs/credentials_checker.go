package jobs

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"kwresearch/internal/logging"
	"kwresearch/internal/metrics"
)

// CredentialsChecker periodically obtains a Google Ads access token so a
// revoked or expired refresh token shows up before a user request fails.
type CredentialsChecker struct {
	source   oauth2.TokenSource
	interval time.Duration
}

// NewCredentialsChecker creates a new credentials checker.
func NewCredentialsChecker(source oauth2.TokenSource, interval time.Duration) *CredentialsChecker {
	return &CredentialsChecker{
		source:   source,
		interval: interval,
	}
}

// Start begins the background check loop. It returns when ctx is done.
func (c *CredentialsChecker) Start(ctx context.Context) {
	log := logging.With("credentials_checker")
	log.Info().Dur("interval", c.interval).Msg("Credentials checker started")

	// Run immediately on start
	c.check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Credentials checker stopped")
			return
		case <-ticker.C:
			c.check(ctx)
		}
	}
}

// check refreshes the token and records the outcome.
func (c *CredentialsChecker) check(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	log := logging.With("credentials_checker")
	tok, err := c.source.Token()
	if err != nil {
		log.Warn().Err(err).Msg("Google Ads credentials check failed")
		metrics.SetCredentialsValid(false)
		return false
	}

	log.Debug().Time("expiry", tok.Expiry).Msg("Google Ads credentials valid")
	metrics.SetCredentialsValid(true)
	return true
}
