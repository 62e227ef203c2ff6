package mock

import (
	"context"
)

type (
	ForecastDelegate func(context.Context, string) (string, error)
	SearchDelegate   func(context.Context, string, int) ([]string, error)
)

type Forecaster struct {
	ForecastFn ForecastDelegate
}

func (m *Forecaster) Forecast(ctx context.Context, prompt string) (string, error) {
	if m.ForecastFn != nil {
		return m.ForecastFn(ctx, prompt)
	}

	return "", nil
}

type NewsSearcher struct {
	SearchFn SearchDelegate
}

func (m *NewsSearcher) Search(ctx context.Context, query string, n int) ([]string, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, n)
	}

	return nil, nil
}
