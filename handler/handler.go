package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/totpauth/pkg/binder"
)

// HandlerFunc handles a request already bound into R.
//
//	r.Post("/verify-totp", handler.Wrap(m.verifyTOTP,
//		handler.WithBinders(binder.JSON()),
//		handler.WithErrorHandler(handler.NewErrorHandler(log)),
//	))
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself. A render error is passed to the ErrorHandler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from r. Binders that do not apply to a request return
// binder.ErrBinderNotApplicable and are skipped.
type Bind func(r *http.Request, v any) error

// ErrorHandler writes the response for a binding, nil response or render failure.
type ErrorHandler func(ctx Context, err error)

// WrapOption configures Wrap.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	binders      []Bind
	errorHandler ErrorHandler
}

// WithBinders appends binders, applied in order. Each binder handles only its
// own struct tags, e.g. WithBinders(binder.Path(chi.URLParam), binder.JSON()).
func WithBinders(binders ...Bind) WrapOption {
	return func(c *wrapConfig) { c.binders = append(c.binders, binders...) }
}

// WithErrorHandler replaces the default handler, which renders the JSON error
// envelope without logging.
func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func renderError(ctx Context, err error) {
	_ = JSONError(Classify(err)).Render(ctx.ResponseWriter(), ctx.Request())
}

// Wrap adapts h to http.HandlerFunc.
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption) http.HandlerFunc {
	cfg := wrapConfig{errorHandler: renderError}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil && !errors.Is(err, binder.ErrBinderNotApplicable) {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := h(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
