package service

import (
	"github.com/youssefsiam38/storefront"
	"github.com/youssefsiam38/storefront/backend"
	"github.com/youssefsiam38/storefront/i18n"
)

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Service provides storefront operations on top of the commerce backend.
type Service struct {
	client *backend.Client
	bundle *i18n.Bundle
	logger Logger

	catalogLimit int
	homeLimit    int
	reviewLimit  int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithPageSizes overrides the catalog, home and review page sizes.
// Zero keeps the default.
func WithPageSizes(catalog, home, reviews int) Option {
	return func(s *Service) {
		if catalog > 0 {
			s.catalogLimit = catalog
		}
		if home > 0 {
			s.homeLimit = home
		}
		if reviews > 0 {
			s.reviewLimit = reviews
		}
	}
}

// New creates a new Service.
func New(client *backend.Client, bundle *i18n.Bundle, opts ...Option) *Service {
	s := &Service{
		client:       client,
		bundle:       bundle,
		catalogLimit: storefront.DefaultCatalogLimit,
		homeLimit:    storefront.DefaultHomeLimit,
		reviewLimit:  storefront.ReviewPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the backend client.
func (s *Service) Client() *backend.Client {
	return s.client
}

// Messages returns the message tree for l, falling back to the default
// locale when l cannot be loaded.
func (s *Service) Messages(l i18n.Locale) *i18n.Messages {
	m, err := s.bundle.Messages(l)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to load messages", "locale", l.String(), "error", err)
		}
		return s.bundle.MustMessages(i18n.DefaultLocale)
	}
	return m
}
