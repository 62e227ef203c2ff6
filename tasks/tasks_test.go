package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysisMock "github.com/sig-0/fxfinder/analysis/mock"
	"github.com/sig-0/fxfinder/jobs"
	"github.com/sig-0/fxfinder/places"
	placesMock "github.com/sig-0/fxfinder/places/mock"
	"github.com/sig-0/fxfinder/provider"
	"github.com/sig-0/fxfinder/provider/currencies"
	"github.com/sig-0/fxfinder/provider/twd"
	"github.com/sig-0/fxfinder/rates"
	"github.com/sig-0/fxfinder/storage/mock"
	"github.com/sig-0/fxfinder/storage/types"
)

type mockSource struct {
	name    string
	fetchFn func(context.Context, *provider.Query) ([]*provider.RawRow, error)
}

func (m *mockSource) Name() string {
	return m.name
}

func (m *mockSource) FetchRates(ctx context.Context, q *provider.Query) ([]*provider.RawRow, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, q)
	}

	return nil, nil
}

// recorder keeps every saved status of a single job
type recorder struct {
	statuses []types.JobStatus
	mux      sync.Mutex
}

func (r *recorder) storage() *mock.Storage {
	return &mock.Storage{
		SaveStatusFn: func(_ context.Context, st *types.JobStatus) error {
			r.mux.Lock()
			defer r.mux.Unlock()

			r.statuses = append(r.statuses, *st)

			return nil
		},
	}
}

func (r *recorder) last() (types.JobStatus, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()

	if len(r.statuses) == 0 {
		return types.JobStatus{}, false
	}

	return r.statuses[len(r.statuses)-1], true
}

func (r *recorder) messages(stage types.Stage) []string {
	r.mux.Lock()
	defer r.mux.Unlock()

	var messages []string

	for _, st := range r.statuses {
		if st.Stage == stage {
			messages = append(messages, st.Message)
		}
	}

	return messages
}

// run executes the task through an orchestrator and returns its final status
func run(t *testing.T, task jobs.Task) (types.JobStatus, *recorder) {
	t.Helper()

	var (
		rec = &recorder{}
		o   = jobs.New(rec.storage())
	)

	_, err := o.Submit(context.Background(), types.JobKindRates, currencies.USD, task)
	require.NoError(t, err)

	var final types.JobStatus

	require.Eventually(t, func() bool {
		st, ok := rec.last()
		final = st

		return ok && st.Stage.Done()
	}, 5*time.Second, 5*time.Millisecond)

	return final, rec
}

// registry creates a source registry with the given board and history sources
func registry(t *testing.T, board, hist *mockSource) *provider.Registry {
	t.Helper()

	r := provider.NewRegistry()

	if board != nil {
		board.name = twd.FindRateSource
		require.NoError(t, r.Register(board))
	}

	if hist != nil {
		hist.name = twd.BOTSource
		require.NoError(t, r.Register(hist))
	}

	return r
}

func boardRows() []*provider.RawRow {
	return []*provider.RawRow{
		{Bank: "A", Cells: []string{"30", "30.5", "30", "30", "2024/06/12"}},
		{Bank: "B", Cells: []string{"30", "--", "30", "30", "2024/06/12"}},
		{Bank: "C", Cells: []string{"30", "30.1", "30", "30", "2024/06/12"}},
		{Bank: "D", Cells: []string{"30"}},
	}
}

func historyRows(month civil.Date) []*provider.RawRow {
	rows := make([]*provider.RawRow, 0, 31)

	for day := month; day.Month == month.Month; day = day.AddDays(1) {
		rows = append(rows, &provider.RawRow{
			Bank: "Bank of Taiwan",
			Cells: []string{
				"30",
				fmt.Sprintf("30.%02d", day.Day),
				"30",
				"30",
				fmt.Sprintf("%04d/%02d/%02d", day.Year, int(day.Month), day.Day),
			},
		})
	}

	return rows
}

// history creates a history source publishing cash sell = 30.<day>
func history() *mockSource {
	return &mockSource{
		fetchFn: func(_ context.Context, q *provider.Query) ([]*provider.RawRow, error) {
			return historyRows(*q.Month), nil
		},
	}
}

func TestService_FetchRates(t *testing.T) {
	t.Parallel()

	t.Run("normalized quotes", func(t *testing.T) {
		t.Parallel()

		s := New(registry(t, &mockSource{
			fetchFn: func(_ context.Context, q *provider.Query) ([]*provider.RawRow, error) {
				assert.Equal(t, currencies.USD, q.Currency)
				assert.Nil(t, q.Month)

				return boardRows(), nil
			},
		}, nil))

		st, _ := run(t, s.FetchRates(currencies.USD))

		require.Equal(t, types.StageComplete, st.Stage)
		assert.Equal(t, "fetched 3 USD rates", st.Message)

		quotes, ok := st.Results.([]*types.Quote)
		require.True(t, ok)
		require.Len(t, quotes, 3)

		assert.Equal(t, "A", quotes[0].Bank)
		assert.False(t, quotes[1].CashSell.Valid)
	})

	t.Run("empty board", func(t *testing.T) {
		t.Parallel()

		s := New(registry(t, &mockSource{
			fetchFn: func(_ context.Context, _ *provider.Query) ([]*provider.RawRow, error) {
				return []*provider.RawRow{}, nil
			},
		}, nil))

		st, _ := run(t, s.FetchRates(currencies.USD))

		require.Equal(t, types.StageComplete, st.Stage)
		assert.Equal(t, "fetched 0 USD rates", st.Message)
	})

	t.Run("source failure", func(t *testing.T) {
		t.Parallel()

		s := New(registry(t, &mockSource{
			fetchFn: func(_ context.Context, _ *provider.Query) ([]*provider.RawRow, error) {
				return nil, errors.New("connection reset")
			},
		}, nil))

		st, _ := run(t, s.FetchRates(currencies.USD))

		assert.Equal(t, types.StageError, st.Stage)
		assert.Equal(t, "rate source failed: connection reset", st.Message)
		assert.Nil(t, st.Results)
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Parallel()

		s := New(provider.NewRegistry())

		st, _ := run(t, s.FetchRates(currencies.USD))

		assert.Equal(t, types.StageError, st.Stage)
		assert.Contains(t, st.Message, provider.ErrUnknownSource.Error())
	})
}

func TestService_BestAndNearest(t *testing.T) {
	t.Parallel()

	near := types.Coordinate{
		Latitude:  25.04,
		Longitude: 121.56,
	}

	t.Run("ranked and paired", func(t *testing.T) {
		t.Parallel()

		var (
			searcher = &placesMock.Searcher{
				SearchFn: func(_ context.Context, req *places.Request) ([]*places.Candidate, error) {
					assert.Equal(t, near, req.Near)

					if req.Query == "A" {
						return nil, nil
					}

					return []*places.Candidate{
						{Name: req.Query + " Branch", FormattedAddress: "Taipei", PlaceID: "p"},
					}, nil
				},
			}

			s = New(
				registry(t, &mockSource{
					fetchFn: func(_ context.Context, _ *provider.Query) ([]*provider.RawRow, error) {
						return boardRows(), nil
					},
				}, nil),
				WithPairer(rates.NewPairer(searcher)),
			)
		)

		st, rec := run(t, s.BestAndNearest(currencies.USD, near))

		require.Equal(t, types.StageComplete, st.Stage)

		offers, ok := st.Results.([]*types.RankedOffer)
		require.True(t, ok)
		require.Len(t, offers, 2)

		assert.Equal(t, "C", offers[0].BestRateInfo.Bank)
		assert.Equal(t, 1, offers[0].Rank)
		require.NotNil(t, offers[0].NearestBranchInfo)
		assert.Equal(t, "C Branch", offers[0].NearestBranchInfo.Name)

		assert.Equal(t, "A", offers[1].BestRateInfo.Bank)
		assert.Nil(t, offers[1].NearestBranchInfo)

		assert.Equal(t, []string{
			"(1/2) searching nearest branch of C",
			"(2/2) searching nearest branch of A",
		}, rec.messages(types.StageFindingLocation))
	})

	t.Run("top N", func(t *testing.T) {
		t.Parallel()

		s := New(
			registry(t, &mockSource{
				fetchFn: func(_ context.Context, _ *provider.Query) ([]*provider.RawRow, error) {
					return boardRows(), nil
				},
			}, nil),
			WithPairer(rates.NewPairer(&placesMock.Searcher{})),
			WithTopN(1),
		)

		st, _ := run(t, s.BestAndNearest(currencies.USD, near))

		offers, ok := st.Results.([]*types.RankedOffer)
		require.True(t, ok)
		require.Len(t, offers, 1)
	})

	t.Run("no valid offers", func(t *testing.T) {
		t.Parallel()

		s := New(
			registry(t, &mockSource{
				fetchFn: func(_ context.Context, _ *provider.Query) ([]*provider.RawRow, error) {
					return []*provider.RawRow{
						{Bank: "B", Cells: []string{"30", "--", "30", "30", "2024/06/12"}},
					}, nil
				},
			}, nil),
			WithPairer(rates.NewPairer(&placesMock.Searcher{})),
		)

		st, _ := run(t, s.BestAndNearest(currencies.USD, near))

		assert.Equal(t, types.StageError, st.Stage)
		assert.Equal(t, rates.ErrNoValidOffers.Error(), st.Message)
	})

	t.Run("pairing not configured", func(t *testing.T) {
		t.Parallel()

		s := New(provider.NewRegistry())

		st, _ := run(t, s.BestAndNearest(currencies.USD, near))

		assert.Equal(t, types.StageError, st.Stage)
		assert.Equal(t, errPairingUnavailable.Error(), st.Message)
	})
}

func TestService_HistoricalChart(t *testing.T) {
	t.Parallel()

	t.Run("series", func(t *testing.T) {
		t.Parallel()

		s := New(registry(t, nil, history()))

		st, _ := run(t, s.HistoricalChart(
			currencies.JPY,
			civil.Date{Year: 2024, Month: time.May, Day: 30},
			civil.Date{Year: 2024, Month: time.June, Day: 2},
		))

		require.Equal(t, types.StageComplete, st.Stage)

		points, ok := st.Results.([]*types.HistoricalPoint)
		require.True(t, ok)
		require.Len(t, points, 4)

		assert.Equal(t, "30.3", points[0].Value.String())
		assert.Equal(t, "fetched 4 JPY history points", st.Message)
	})

	t.Run("empty window", func(t *testing.T) {
		t.Parallel()

		s := New(registry(t, nil, &mockSource{}))

		day := civil.Date{Year: 2024, Month: time.June, Day: 2}

		st, _ := run(t, s.HistoricalChart(currencies.JPY, day, day))

		assert.Equal(t, types.StageComplete, st.Stage)
		assert.Equal(t, "no chart data in range", st.Message)
		assert.Nil(t, st.Results)
	})

	t.Run("invalid range", func(t *testing.T) {
		t.Parallel()

		s := New(registry(t, nil, history()))

		st, _ := run(t, s.HistoricalChart(
			currencies.JPY,
			civil.Date{Year: 2024, Month: time.June, Day: 2},
			civil.Date{Year: 2024, Month: time.June, Day: 1},
		))

		assert.Equal(t, types.StageError, st.Stage)
		assert.Contains(t, st.Message, rates.ErrInvalidRange.Error())
	})
}

func TestService_MarketAnalysis(t *testing.T) {
	t.Parallel()

	var (
		today = time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)
		clock = func() time.Time {
			return today
		}
	)

	t.Run("forecast", func(t *testing.T) {
		t.Parallel()

		var prompt string

		s := New(
			registry(t, nil, history()),
			WithClock(clock),
			WithNewsSearcher(&analysisMock.NewsSearcher{
				SearchFn: func(_ context.Context, query string, n int) ([]string, error) {
					assert.Contains(t, query, "Japanese Yen")
					assert.Equal(t, 5, n)

					return []string{"Yen slides"}, nil
				},
			}),
			WithForecaster(&analysisMock.Forecaster{
				ForecastFn: func(_ context.Context, p string) (string, error) {
					prompt = p

					return "The yen is likely to range.", nil
				},
			}),
		)

		st, rec := run(t, s.MarketAnalysis(currencies.JPY, "Japanese Yen"))

		require.Equal(t, types.StageComplete, st.Stage)
		assert.Equal(t, "The yen is likely to range.", st.Results)

		// 7 days back from today, inclusive
		assert.Contains(t, prompt, "2024-06-05: cash sell 30.05")
		assert.Contains(t, prompt, "2024-06-12: cash sell 30.12")
		assert.NotContains(t, prompt, "2024-06-04")
		assert.Contains(t, prompt, "- Yen slides")

		assert.Equal(t, []string{"searching Japanese Yen news"}, rec.messages(types.StageFindingLocation))
	})

	t.Run("news failure", func(t *testing.T) {
		t.Parallel()

		var prompt string

		s := New(
			registry(t, nil, history()),
			WithClock(clock),
			WithNewsSearcher(&analysisMock.NewsSearcher{
				SearchFn: func(_ context.Context, _ string, _ int) ([]string, error) {
					return nil, errors.New("quota exceeded")
				},
			}),
			WithForecaster(&analysisMock.Forecaster{
				ForecastFn: func(_ context.Context, p string) (string, error) {
					prompt = p

					return "outlook", nil
				},
			}),
		)

		st, _ := run(t, s.MarketAnalysis(currencies.JPY, "Japanese Yen"))

		assert.Equal(t, types.StageComplete, st.Stage)
		assert.Contains(t, prompt, "No related news was found.")
	})

	t.Run("forecast failure", func(t *testing.T) {
		t.Parallel()

		s := New(
			registry(t, nil, history()),
			WithClock(clock),
			WithForecaster(&analysisMock.Forecaster{
				ForecastFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("model overloaded")
				},
			}),
		)

		st, _ := run(t, s.MarketAnalysis(currencies.JPY, "Japanese Yen"))

		assert.Equal(t, types.StageError, st.Stage)
		assert.Equal(t, "market analysis failed: model overloaded", st.Message)
	})

	t.Run("analysis not configured", func(t *testing.T) {
		t.Parallel()

		s := New(registry(t, nil, history()))

		st, _ := run(t, s.MarketAnalysis(currencies.JPY, "Japanese Yen"))

		assert.Equal(t, types.StageError, st.Stage)
		assert.Equal(t, errAnalysisUnavailable.Error(), st.Message)
	})
}
