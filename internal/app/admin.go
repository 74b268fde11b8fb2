package service

import (
	"context"
	"crypto/subtle"

	"github.com/okian/fantasybakes/pkg/logger"
	"github.com/okian/fantasybakes/pkg/metrics"
)

// VerifyAdmin checks password against the configured admin credential.
// Attempts are rate limited; an unset credential rejects every attempt.
func (s *Service) VerifyAdmin(ctx context.Context, password string) error {
	if !s.limiter.Allow() {
		s.authFailure(ctx, "rate_limited")
		return ErrRateLimited
	}
	if s.adminPassword == "" {
		s.authFailure(ctx, "disabled")
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		s.authFailure(ctx, "mismatch")
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) authFailure(ctx context.Context, reason string) {
	metrics.RecordAdminAuthFailure(reason)
	if s.isStarted() {
		s.logger.Warn(ctx, "admin verification failed", logger.String("reason", reason))
	}
}
