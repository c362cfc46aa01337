package tui

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"disease-predictor/internal/history"
	"disease-predictor/internal/report"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where screens are rendered. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHistory records every completed prediction in repo and enables the
// history action.
func WithHistory(repo history.Repository) Option {
	return func(s *Session) {
		s.history = repo
	}
}

// WithReports enables exporting successful predictions into dir.
func WithReports(svc *report.Service, dir string) Option {
	return func(s *Session) {
		s.reports = svc
		s.reportDir = dir
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}
