package totpauth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/totpauth/handler"
	"github.com/dmitrymomot/totpauth/pkg/binder"
	"github.com/dmitrymomot/totpauth/pkg/email"
	"github.com/dmitrymomot/totpauth/pkg/logger"
	"github.com/dmitrymomot/totpauth/pkg/ratelimiter"
	"github.com/dmitrymomot/totpauth/svc/enrollment"
)

// Config holds the module settings read from the environment.
type Config struct {
	StaticAPIKey string `env:"AUTH_STATIC_API_KEY"` // Legacy shared key accepted in X-API-Key, optional
}

// Module exposes the enrollment service over HTTP.
type Module struct {
	svc          *enrollment.Service
	auth         *Authenticator
	limiter      ratelimiter.RateLimiter
	sender       email.EmailSender
	templatesDir string
	log          *slog.Logger
	errorHandler handler.ErrorHandler
}

// Option configures a Module.
type Option func(*Module)

// WithLogger sets the logger for outcomes and request errors.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.log = l
		}
	}
}

// WithRateLimiter throttles every route per client IP.
func WithRateLimiter(l ratelimiter.RateLimiter) Option {
	return func(m *Module) {
		m.limiter = l
	}
}

// WithEmail enables POST /send-email with templates read from dir.
func WithEmail(sender email.EmailSender, templatesDir string) Option {
	return func(m *Module) {
		m.sender = sender
		m.templatesDir = templatesDir
	}
}

// New creates the module. Panics if svc or auth is nil.
func New(svc *enrollment.Service, auth *Authenticator, opts ...Option) *Module {
	if svc == nil {
		panic("totpauth: enrollment service is required")
	}
	if auth == nil {
		panic("totpauth: authenticator is required")
	}

	m := &Module{
		svc:  svc,
		auth: auth,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.errorHandler = handler.NewErrorHandler(m.log)
	return m
}

// Handle returns the router, meant to be mounted at /totp-auth.
//
//	r.Mount("/totp-auth", module.Handle())
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	if m.limiter != nil {
		r.Use(ratelimiter.Middleware(m.limiter, ratelimiter.ByIP,
			ratelimiter.WithErrorResponder(rateLimitResponder(m.log)),
		))
	}
	r.Use(m.auth.Middleware)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Post("/generate-qr", handler.Wrap(m.generateQR,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(m.errorHandler),
	))
	r.Post("/setup", handler.Wrap(m.setup,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(m.errorHandler),
	))
	r.Post("/verify-totp", handler.Wrap(m.verifyTOTP,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(m.errorHandler),
	))
	r.Post("/verify-client", handler.Wrap(m.verifyClient,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(m.errorHandler),
	))
	r.Post("/deactivate", handler.Wrap(m.deactivate,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(m.errorHandler),
	))
	r.Post("/recover", handler.Wrap(m.recoverAccess,
		handler.WithBinders(binder.JSON()),
		handler.WithErrorHandler(m.errorHandler),
	))
	r.Get("/status/{clientID}", handler.Wrap(m.status,
		handler.WithBinders(binder.Path(chi.URLParam)),
		handler.WithErrorHandler(m.errorHandler),
	))

	if m.sender != nil {
		r.Post("/send-email", handler.Wrap(m.sendEmail,
			handler.WithBinders(binder.JSON()),
			handler.WithErrorHandler(m.errorHandler),
		))
	}

	return r
}

// notFound also answers wrong methods on known paths.
func notFound(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrNotFound).Render(w, r)
}

func rateLimitResponder(log *slog.Logger) ratelimiter.ErrorResponder {
	return func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result, err error) {
		if err != nil {
			log.ErrorContext(r.Context(), "rate limiter unavailable", logger.Error(err))
			_ = handler.JSONError(handler.ErrServiceUnavailable).Render(w, r)
			return
		}
		_ = handler.JSONError(handler.ErrTooManyRequests).Render(w, r)
	}
}
