package mock

import (
	"context"

	"github.com/sig-0/fxfinder/places"
)

type SearchDelegate func(context.Context, *places.Request) ([]*places.Candidate, error)

type Searcher struct {
	SearchFn SearchDelegate
}

func (m *Searcher) Search(ctx context.Context, req *places.Request) ([]*places.Candidate, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, req)
	}

	return nil, nil
}
