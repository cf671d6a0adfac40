package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/totpauth/pkg/binder"
	"github.com/dmitrymomot/totpauth/pkg/logger"
)

// levelFor logs 4xx at WARN and everything else at ERROR.
func levelFor(status int) slog.Level {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// Classify turns binding failures into HTTP errors and passes everything
// else through unchanged.
func Classify(err error) error {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return errors.Join(ErrUnsupportedMediaType, err)
	case errors.Is(err, binder.ErrFailedToParseJSON), errors.Is(err, binder.ErrFailedToParsePath):
		return errors.Join(ErrBadRequest.WithMessage("malformed request body"), err)
	default:
		return err
	}
}

// NewErrorHandler logs the failure and renders the {error:{code,message}}
// envelope. The request id comes from the logger's context extractors.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		err = Classify(err)
		resp := JSONError(err)
		status := resp.(*jsonResponse).status

		r := ctx.Request()
		log.LogAttrs(r.Context(), levelFor(status), "request error",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.Error("failed to render error response",
				logger.Error(renderErr),
				logger.Component("error_handler"),
			)
		}
	}
}
