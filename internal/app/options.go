package service

import (
	"github.com/okian/fantasybakes/internal/adapters/repository"
	"github.com/okian/fantasybakes/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRepository sets the persistence collaborator. Without it the service
// keeps the season in memory.
func WithRepository(r repository.Store) Option {
	return func(s *Service) {
		if r != nil {
			s.repo = r
		}
	}
}

// WithRules overrides scoring points by event name.
func WithRules(values map[string]float64) Option {
	return func(s *Service) {
		s.rules = values
	}
}

// WithMaxWeeks bounds AdvanceWeek. Zero leaves the season unbounded.
func WithMaxWeeks(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxWeeks = n
		}
	}
}

// WithAdminPassword sets the credential checked by VerifyAdmin.
func WithAdminPassword(password string) Option {
	return func(s *Service) {
		s.adminPassword = password
	}
}

// WithAdminRate sets how many admin verifications are allowed per minute.
func WithAdminRate(perMinute int) Option {
	return func(s *Service) {
		if perMinute > 0 {
			s.adminPerMinute = perMinute
		}
	}
}

// WithNotifyQueueSize bounds the change notification queue.
func WithNotifyQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}
