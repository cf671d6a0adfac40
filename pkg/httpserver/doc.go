// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts and a JSON health check handler.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// calls http.Server.Shutdown bounded by the shutdown timeout. Listen failures
// are wrapped with ErrStart and shutdown failures with ErrShutdown.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log,
//	    httpserver.Check{Name: "store", Fn: store.Ping},
//	))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Config is populated from HTTP_ADDR, HTTP_READ_TIMEOUT,
// HTTP_READ_HEADER_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT and
// HTTP_SHUTDOWN_TIMEOUT.
package httpserver
