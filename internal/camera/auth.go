package camera

import (
	"context"
	"log/slog"
	"time"

	"github.com/avstage/broadcastd/internal/metrics"
)

const (
	defaultAuthRetries = 3
	defaultAuthDelay   = 2 * time.Second
	defaultAuthTimeout = 10 * time.Second
)

// Authenticator performs retry-bounded login against a camera's control
// endpoint. Exhausted retries yield ErrAuthFailed, never a panic: a camera
// without a token degrades to unauthenticated rather than failing the node.
type Authenticator struct {
	cameraID int
	client   *deviceClient
	username string
	password string
	retries  int
	delay    time.Duration
	logger   *slog.Logger
}

// NewAuthenticator builds an authenticator for one camera's device client.
// retries <= 0 and delay <= 0 select the defaults (3 attempts, 2s apart).
func NewAuthenticator(cameraID int, client *deviceClient, username, password string, retries int, delay time.Duration, logger *slog.Logger) *Authenticator {
	if retries <= 0 {
		retries = defaultAuthRetries
	}
	if delay <= 0 {
		delay = defaultAuthDelay
	}
	return &Authenticator{
		cameraID: cameraID,
		client:   client,
		username: username,
		password: password,
		retries:  retries,
		delay:    delay,
		logger:   logger,
	}
}

// Authenticate attempts login up to the configured number of times with a
// fixed inter-attempt delay. Every failed attempt is logged at warning
// level; exhaustion is logged at error level and returns ErrAuthFailed.
func (a *Authenticator) Authenticate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= a.retries; attempt++ {
		token, err := a.client.login(ctx, a.username, a.password)
		if err == nil {
			a.logger.Info("Token obtained", "camera_id", a.cameraID, "attempt", attempt)
			metrics.AuthAttempt(a.cameraID, true)
			return token, nil
		}

		a.logger.Warn("Login attempt failed", "camera_id", a.cameraID, "attempt", attempt, "error", err)
		metrics.AuthAttempt(a.cameraID, false)

		if attempt < a.retries {
			select {
			case <-ctx.Done():
				a.logger.Error("Authentication cancelled", "camera_id", a.cameraID, "error", ctx.Err())
				return "", ErrAuthFailed
			case <-time.After(a.delay):
			}
		}
	}

	a.logger.Error("Failed to obtain token, camera degrades to unauthenticated", "camera_id", a.cameraID, "attempts", a.retries)
	return "", ErrAuthFailed
}
