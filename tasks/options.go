package tasks

import (
	"log/slog"
	"time"

	"github.com/sig-0/fxfinder/analysis"
	"github.com/sig-0/fxfinder/rates"
)

type Option func(s *Service)

// WithLogger specifies the logger for the task service
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithTopN specifies the number of ranked offers paired with branches.
// Defaults to 3
func WithTopN(n int) Option {
	return func(s *Service) {
		s.topN = n
	}
}

// WithBoardSource specifies the source of the latest bank comparison board
func WithBoardSource(name string) Option {
	return func(s *Service) {
		s.boardSource = name
	}
}

// WithHistorySource specifies the source of the monthly rate history
func WithHistorySource(name string) Option {
	return func(s *Service) {
		s.historySource = name
	}
}

// WithPairer specifies the branch pairer.
// Without it, best-offer jobs fail
func WithPairer(p *rates.Pairer) Option {
	return func(s *Service) {
		s.pairer = p
	}
}

// WithForecaster specifies the generative-text forecaster.
// Without it, analysis jobs fail
func WithForecaster(f analysis.Forecaster) Option {
	return func(s *Service) {
		s.forecaster = f
	}
}

// WithNewsSearcher specifies the news searcher for analysis jobs.
// Without it, the forecast is built without news
func WithNewsSearcher(n analysis.NewsSearcher) Option {
	return func(s *Service) {
		s.news = n
	}
}

// WithClock specifies the time source for the analysis window
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}
