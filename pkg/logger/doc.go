// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package aims to standardise structured logging across services by
// exposing a single factory – New – that creates a *slog.Logger configured by
// a set of Option functions. These options allow you to:
//
//   • Select an output format (text or json)
//   • Set the minimum log level
//   • Supply default slog.Attr values applied to every record
//   • Register ContextExtractor callbacks that inject attributes pulled from a
//     context value (for example a request id) every time Handle is invoked.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler from the configured
// Format and wraps it with NewContextHandler, which appends the attributes
// returned by every registered ContextExtractor to each record.
//
// Helper constructors such as Group, Error, ClientID, Operation and Kind live
// in attr.go and keep attribute naming consistent across the codebase.
//
// Every logger built by New passes attributes through a redacting
// ReplaceAttr. Values of keys listed in DefaultSensitiveKeys (secret, code,
// recovery_key, api_key, token, ...) are replaced with Redacted. Extend the
// list with WithRedaction.
//
// # Usage
//
//	import "github.com/dmitrymomot/totpauth/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithDevelopment("totp-auth"),
//	        logger.WithContextExtractors(requestid.LoggerExtractor()),
//	    )
//	    logger.SetAsDefault(log)
//
//	    ctx := requestid.WithContext(context.Background(), "abc-123")
//	    log.InfoContext(ctx, "code verified",
//	        logger.ClientID("client-42"),
//	        logger.Duration(time.Since(start)),
//	    )
//	}
//
// # Configuration
//
// The behaviour of New can be tuned with a variety of Option helpers:
//
//   • WithDevelopment / WithStaging / WithProduction – sensible defaults per environment.
//   • WithFormat / WithTextFormatter / WithJSONFormatter – override output format.
//   • WithLevel – set a custom slog.Level.
//   • WithAttr – attach static attributes.
//   • WithContextExtractors – inject attributes from context.
//   • WithRedaction – add keys whose values must never be written.
//
// # Error Handling
//
// Helper functions Error and Errors produce attributes only when the supplied
// error value is non-nil allowing calls like:
//
//	log.Info("operation succeeded", logger.Error(err))
//
// without an additional nil check.
package logger
