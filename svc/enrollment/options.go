package enrollment

import "time"

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// WithClock replaces the clock used for code verification.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithQRSize sets the enrollment image size in pixels.
func WithQRSize(size int) ServiceOption {
	return func(s *Service) {
		s.qrSize = size
	}
}
