package services

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	apperrors "launcher-api/internal/errors"
)

// AuthLimiter counts signup and login attempts per client within a fixed window
type AuthLimiter struct {
	attempts *cache.Cache
	limit    int
	window   time.Duration
	logger   *logrus.Logger
}

// NewAuthLimiter creates a new limiter. A limit of zero or less disables it.
func NewAuthLimiter(limit int, window time.Duration, logger *logrus.Logger) *AuthLimiter {
	if window <= 0 {
		window = time.Minute
	}

	return &AuthLimiter{
		attempts: cache.New(window, 2*window),
		limit:    limit,
		window:   window,
		logger:   logger,
	}
}

// Allow records an attempt of action from client and fails once the limit is exceeded
func (l *AuthLimiter) Allow(action, client string) error {
	if l == nil || l.limit <= 0 {
		return nil
	}

	key := action + "|" + client

	// The window starts with the first attempt and is not extended by later ones
	if err := l.attempts.Add(key, 1, l.window); err == nil {
		return nil
	}

	count, err := l.attempts.IncrementInt(key, 1)
	if err != nil {
		// Expired between Add and IncrementInt
		l.attempts.Set(key, 1, l.window)
		return nil
	}

	if count > l.limit {
		l.logger.Warnf("Rate limit exceeded for %s from %s (%d attempts)", action, client, count)
		return &apperrors.RateLimitError{Action: action, Window: l.window}
	}
	return nil
}
