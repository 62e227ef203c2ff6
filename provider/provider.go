package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/sig-0/fxfinder/storage/types"
)

// Cell positions of a RawRow
const (
	CellCashBuy = iota
	CellCashSell
	CellSpotBuy
	CellSpotSell
	CellDate

	// RowWidth is the minimum number of cells in a well-formed row
	RowWidth
)

var (
	ErrInvalidSource = errors.New("invalid source")
	ErrUnknownSource = errors.New("unknown source")
)

// RawRow is a single scraped, unparsed rate row.
// Cells are ordered as cash buy, cash sell, spot buy, spot sell, date
type RawRow struct {
	Bank  string
	Cells []string
}

// Query describes what a source should fetch
type Query struct {
	// Month selects a monthly history page.
	// Nil fetches the latest published board
	Month *civil.Date

	Currency types.Currency
}

// Source is a single exchange rate data source
type Source interface {
	// Name returns the unique name of the source
	Name() string

	// FetchRates fetches the raw rows matching the query
	FetchRates(context.Context, *Query) ([]*RawRow, error)
}

// Registry keeps the available sources, by name
type Registry struct {
	sources map[string]Source
	mux     sync.RWMutex
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds the source to the registry
func (r *Registry) Register(s Source) error {
	if s == nil || s.Name() == "" {
		return ErrInvalidSource
	}

	r.mux.Lock()
	defer r.mux.Unlock()

	r.sources[s.Name()] = s

	return nil
}

// Get returns the named source
func (r *Registry) Get(name string) (Source, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()

	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}

	return s, nil
}

// FetchRates fetches rows from the named source
func (r *Registry) FetchRates(ctx context.Context, name string, q *Query) ([]*RawRow, error) {
	s, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	return s.FetchRates(ctx, q)
}
