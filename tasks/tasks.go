package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"github.com/sig-0/fxfinder/analysis"
	"github.com/sig-0/fxfinder/jobs"
	"github.com/sig-0/fxfinder/provider"
	"github.com/sig-0/fxfinder/provider/twd"
	"github.com/sig-0/fxfinder/rates"
	"github.com/sig-0/fxfinder/storage/types"
)

var (
	errPairingUnavailable  = errors.New("branch search is not configured")
	errAnalysisUnavailable = errors.New("market analysis is not configured")
)

// Service builds the background job bodies on top of the rate sources
// and the external collaborators
type Service struct {
	sources    *provider.Registry
	pairer     *rates.Pairer
	forecaster analysis.Forecaster
	news       analysis.NewsSearcher
	logger     *slog.Logger
	now        func() time.Time

	boardSource   string
	historySource string
	topN          int
}

// New creates a new task service over the given source registry
func New(sources *provider.Registry, opts ...Option) *Service {
	s := &Service{
		sources:       sources,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
		boardSource:   twd.FindRateSource,
		historySource: twd.BOTSource,
		topN:          rates.DefaultTopN,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FetchRates returns the task that fetches the latest bank board
// for the currency. The results are the normalized quotes
func (s *Service) FetchRates(currency types.Currency) jobs.Task {
	return func(ctx context.Context, r *jobs.Reporter) (*jobs.Result, error) {
		r.Stage(ctx, types.StageScraping, fmt.Sprintf("fetching %s rates", currency))

		quotes, err := s.board(ctx, currency)
		if err != nil {
			return nil, err
		}

		return &jobs.Result{
			Data:    quotes,
			Message: fmt.Sprintf("fetched %d %s rates", len(quotes), currency),
		}, nil
	}
}

// BestAndNearest returns the task that ranks the cheapest cash offers
// for the currency and pairs each with the nearest bank branch
func (s *Service) BestAndNearest(currency types.Currency, near types.Coordinate) jobs.Task {
	return func(ctx context.Context, r *jobs.Reporter) (*jobs.Result, error) {
		if s.pairer == nil {
			return nil, errPairingUnavailable
		}

		r.Stage(ctx, types.StageScraping, fmt.Sprintf("fetching %s rates", currency))

		quotes, err := s.board(ctx, currency)
		if err != nil {
			return nil, err
		}

		offers, err := rates.Rank(quotes, s.topN)
		if err != nil {
			return nil, err
		}

		s.pairer.Pair(ctx, offers, near, func(index, total int, bank string) {
			r.Stage(
				ctx,
				types.StageFindingLocation,
				fmt.Sprintf("(%d/%d) searching nearest branch of %s", index+1, total, bank),
			)
		})

		return &jobs.Result{
			Data:    offers,
			Message: fmt.Sprintf("found %d best %s offers", len(offers), currency),
		}, nil
	}
}

// HistoricalChart returns the task that assembles the daily cash sell
// series for the currency in [start, end]
func (s *Service) HistoricalChart(currency types.Currency, start, end civil.Date) jobs.Task {
	return func(ctx context.Context, r *jobs.Reporter) (*jobs.Result, error) {
		r.Stage(
			ctx,
			types.StageScraping,
			fmt.Sprintf("fetching %s history from %s to %s", currency, start, end),
		)

		points, err := s.history(ctx, currency, start, end)
		if err != nil {
			return nil, err
		}

		if len(points) == 0 {
			return &jobs.Result{
				Message: "no chart data in range",
			}, nil
		}

		return &jobs.Result{
			Data:    points,
			Message: fmt.Sprintf("fetched %d %s history points", len(points), currency),
		}, nil
	}
}

// MarketAnalysis returns the task that asks the forecaster for a trend
// summary and a one-week outlook, based on the past week of rates
// and related news. The result is the narrative text
func (s *Service) MarketAnalysis(currency types.Currency, name string) jobs.Task {
	return func(ctx context.Context, r *jobs.Reporter) (*jobs.Result, error) {
		if s.forecaster == nil {
			return nil, errAnalysisUnavailable
		}

		r.Stage(ctx, types.StageScraping, fmt.Sprintf("fetching the past week of %s rates", name))

		var (
			end   = civil.DateOf(s.now())
			start = end.AddDays(-analysis.HistoryDays)
		)

		history, err := s.history(ctx, currency, start, end)
		if err != nil {
			return nil, err
		}

		var snippets []string

		if s.news != nil {
			r.Stage(ctx, types.StageFindingLocation, fmt.Sprintf("searching %s news", name))

			snippets, err = s.news.Search(ctx, analysis.NewsQuery(name), analysis.DefaultNewsCount)
			if err != nil {
				// The forecast is still useful without news
				s.logger.Error(
					"unable to search news",
					"currency", currency,
					"err", rates.NewCollaboratorError("news search", err),
				)

				snippets = nil
			}
		}

		r.Stage(ctx, types.StageScraping, "requesting market analysis")

		text, err := s.forecaster.Forecast(ctx, analysis.BuildPrompt(currency, name, history, snippets))
		if err != nil {
			return nil, rates.NewCollaboratorError("market analysis", err)
		}

		return &jobs.Result{
			Data:    text,
			Message: fmt.Sprintf("%s analysis complete", name),
		}, nil
	}
}

// board fetches and normalizes the latest bank board for the currency
func (s *Service) board(ctx context.Context, currency types.Currency) ([]*types.Quote, error) {
	rows, err := s.sources.FetchRates(ctx, s.boardSource, &provider.Query{
		Currency: currency,
	})
	if err != nil {
		return nil, rates.NewCollaboratorError("rate source", err)
	}

	return rates.NormalizeAll(rows, currency, s.logger), nil
}

// history assembles the daily series from the history source
func (s *Service) history(
	ctx context.Context,
	currency types.Currency,
	start, end civil.Date,
) ([]*types.HistoricalPoint, error) {
	source, err := s.sources.Get(s.historySource)
	if err != nil {
		return nil, rates.NewCollaboratorError("history source", err)
	}

	return rates.NewAssembler(source, s.logger).Assemble(ctx, currency, start, end)
}
