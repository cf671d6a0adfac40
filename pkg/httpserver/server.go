package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	readHeaderTime  time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	server          *http.Server
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
}

// Server runs one http.Server and shuts it down gracefully.
type Server struct {
	cfg  config
	mu   sync.Mutex
	srv  *http.Server
	once sync.Once
}

// New returns a Server listening on :8080 unless configured otherwise.
func New(opts ...Option) *Server {
	cfg := config{
		addr:            ":8080",
		readHeaderTime:  5 * time.Second,
		shutdownTimeout: 5 * time.Second,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg}
}

// Run serves handler until ctx is done, SIGINT or SIGTERM arrives, or
// Shutdown is called. Listen failures and a second Run are reported as ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	srv, err := s.prepare(handler)
	if err != nil {
		return err
	}

	log := s.cfg.logger
	log.Info("http server starting", slog.String("addr", srv.Addr))
	for _, h := range s.cfg.startHooks {
		h(log)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Error("http server shutdown", slog.String("error", err.Error()))
		}
		err = <-errCh
	case err = <-errCh:
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrStart, err)
	}
	return nil
}

func (s *Server) prepare(handler http.Handler) (*http.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return nil, errors.Join(ErrStart, errors.New("server already running"))
	}
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	srv := s.cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	// Fields already set on a server passed with WithServer win.
	if srv.Addr == "" {
		srv.Addr = s.cfg.addr
	}
	setIfZero(&srv.ReadTimeout, s.cfg.readTimeout)
	setIfZero(&srv.ReadHeaderTimeout, s.cfg.readHeaderTime)
	setIfZero(&srv.WriteTimeout, s.cfg.writeTimeout)
	setIfZero(&srv.IdleTimeout, s.cfg.idleTimeout)
	srv.Handler = handler

	s.srv = srv
	return srv, nil
}

func setIfZero(dst *time.Duration, v time.Duration) {
	if *dst == 0 {
		*dst = v
	}
}

// Shutdown drains in-flight requests within the shutdown timeout. Only the
// first call does anything; failures are wrapped with ErrShutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	var err error
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		err = srv.Shutdown(ctx)
		s.cfg.logger.Info("http server stopped")
		for _, h := range s.cfg.stopHooks {
			h(s.cfg.logger)
		}
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
