// Package service implements the order pipeline entry points on top of the
// extraction, lookup, payload, idempotency and draft packages.
package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jamesfeng2009/forecastdesk/internal/app"
	"github.com/jamesfeng2009/forecastdesk/internal/backend"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/jamesfeng2009/forecastdesk/internal/draft"
	"github.com/jamesfeng2009/forecastdesk/internal/idempotency"
	"go.uber.org/zap"
)

// Desk holds what every session shares: the backend, the authorization sent
// with each order, the order defaults and logging. Sessions own all mutable
// state.
type Desk struct {
	api        backend.LogisticsAPI
	auth       domain.Authorization
	defaults   domain.Defaults
	maxEntries int
	logger     *zap.Logger
	observer   UseCaseObserver
	validate   *validator.Validate
}

// DeskOption configures a Desk.
type DeskOption func(*Desk)

func WithDefaults(d domain.Defaults) DeskOption {
	return func(desk *Desk) { desk.defaults = d }
}

// WithCacheLimit bounds each session's idempotency cache.
func WithCacheLimit(n int) DeskOption {
	return func(desk *Desk) { desk.maxEntries = n }
}

func WithLogger(l *zap.Logger) DeskOption {
	return func(desk *Desk) {
		if l != nil {
			desk.logger = l
		}
	}
}

// WithObserver replaces the default zap-backed observer.
func WithObserver(o UseCaseObserver) DeskOption {
	return func(desk *Desk) { desk.observer = o }
}

// NewDesk creates a desk submitting to api with auth.
func NewDesk(api backend.LogisticsAPI, auth domain.Authorization, opts ...DeskOption) *Desk {
	d := &Desk{
		api:      api,
		auth:     auth,
		defaults: domain.DefaultOrderDefaults(),
		logger:   zap.NewNop(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("service")
	d.observer = useCaseObserverOrNoop(d.observer, NewZapUseCaseObserver(d.logger))
	return d
}

// NewSession opens a session with an empty draft, an empty idempotency cache
// and no last order.
func (d *Desk) NewSession() *Session {
	return &Session{
		desk:  d,
		draft: draft.New(d.defaults),
		cache: idempotency.New(idempotency.WithMaxEntries(d.maxEntries)),
	}
}

// SessionFactory adapts NewSession to app.SessionFactory.
func (d *Desk) SessionFactory() app.SessionFactory {
	return func() app.Session { return d.NewSession() }
}

// Defaults returns the order defaults in effect.
func (d *Desk) Defaults() domain.Defaults { return d.defaults }

func newValidator() *validator.Validate {
	v := validator.New()
	// Report vocabulary keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
